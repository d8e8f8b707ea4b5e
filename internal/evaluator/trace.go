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

package evaluator

import (
	. "github.com/climbus/chego/internal/types"
)

// Term names one line of the evaluator's term table so a tuner can
// attribute a contribution back to the heuristic that produced it.
type Term int

const (
	TermMaterialPsq Term = iota
	TermPawnStructure
	TermKnight
	TermBishop
	TermRook
	TermQueen
	TermTempo
	termCount
)

// Trace accumulates every term's contribution to the running score so it
// can be compared against the total for additivity tests, or fed to a
// tuner. Evaluate never allocates one; it is opt-in via Evaluator.trace.
// When nil the evaluator skips every trace write, so tracing costs nothing
// in the default, non-tuning configuration.
type Trace struct {
	terms [termCount]Score
}

// add records a contribution toward the given term. Safe to call on a nil
// *Trace - Evaluator only calls it after checking e.trace != nil, but a
// nil-receiver no-op keeps callers simple if that check is ever skipped.
func (t *Trace) add(term Term, s Score) {
	if t == nil {
		return
	}
	t.terms[term].Add(s)
}

// Term returns the accumulated score for one term.
func (t *Trace) Term(term Term) Score {
	return t.terms[term]
}

// Total sums every term. For any evaluated position this must equal the
// evaluator's running score (tempo included, as TermTempo) before the final
// phase blend is applied - that equality is the additivity property a tuner
// depends on.
func (t *Trace) Total() Score {
	var total Score
	for _, s := range t.terms {
		total.Add(s)
	}
	return total
}
