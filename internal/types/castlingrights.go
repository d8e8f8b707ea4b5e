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

package types

import "strings"

// CastlingRights encodes which castling moves are still available.
//  CastlingNone    = 0000
//  CastlingWhiteOO = 0001
//  CastlingWhiteOOO= 0010
//  CastlingBlackOO = 0100
//  CastlingBlackOOO= 1000
type CastlingRights uint8

// Castling right constants.
const (
	CastlingNone     CastlingRights = 0
	CastlingWhiteOO  CastlingRights = 1
	CastlingWhiteOOO CastlingRights = CastlingWhiteOO << 1
	CastlingWhite    CastlingRights = CastlingWhiteOO | CastlingWhiteOOO
	CastlingBlackOO  CastlingRights = CastlingWhiteOO << 2
	CastlingBlackOOO CastlingRights = CastlingBlackOO << 1
	CastlingBlack    CastlingRights = CastlingBlackOO | CastlingBlackOOO
	CastlingAny      CastlingRights = CastlingWhite | CastlingBlack
	CastlingLength   CastlingRights = 16
)

// Has checks whether any of the rights in rhs is among the current rights.
func (cr CastlingRights) Has(rhs CastlingRights) bool {
	return cr&rhs != 0
}

// Remove clears the given rights and returns the new value.
func (cr *CastlingRights) Remove(rhs CastlingRights) CastlingRights {
	*cr &^= rhs
	return *cr
}

// Add sets the given rights and returns the new value.
func (cr *CastlingRights) Add(rhs CastlingRights) CastlingRights {
	*cr |= rhs
	return *cr
}

// String renders the rights the way FEN does: one letter per side that
// still has a right, "-" if none remain. Each letter appears at most
// once (the source engine's FEN writer duplicated 'k' for Black; that
// bug is not reproduced here).
func (cr CastlingRights) String() string {
	if cr == CastlingNone {
		return "-"
	}
	var b strings.Builder
	if cr.Has(CastlingWhiteOO) {
		b.WriteString("K")
	}
	if cr.Has(CastlingWhiteOOO) {
		b.WriteString("Q")
	}
	if cr.Has(CastlingBlackOO) {
		b.WriteString("k")
	}
	if cr.Has(CastlingBlackOOO) {
		b.WriteString("q")
	}
	return b.String()
}
