//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package assert provides cheap, compiler-eliminable invariant checks used
// throughout position, movegen and tt. Assert panics when DEBUG is true and
// is a no-op (inlined away) otherwise.
package assert

import "fmt"

// DEBUG controls whether Assert actually evaluates its test. Flip to true
// locally when chasing an invariant violation; production builds keep it
// false so the guarded code paths compile away to nothing.
const DEBUG = false

// Assert panics with msg (fmt-formatted with a) if test is false. Callers
// should still guard calls with "if assert.DEBUG {" so expensive arguments
// are never evaluated in release builds.
func Assert(test bool, msg string, a ...interface{}) {
	if !DEBUG {
		return
	}
	if !test {
		panic(fmt.Sprintf(msg, a...))
	}
}
