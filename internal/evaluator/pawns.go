/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package evaluator

import (
	. "github.com/climbus/chego/internal/config"
	. "github.com/climbus/chego/internal/types"
)

// evaluatePawns scores the pawn structure for both colors from a pawn
// cache hit or, on a miss, by walking every pawn once per color. The
// score is symmetric: it is always computed as white minus black so it
// can be added directly to the (mg,eg) running total.
func (e *Evaluator) evaluatePawns() *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	if Settings.Eval.UsePawnCache {
		entry := e.pawnCache.getEntry(e.position.PawnKey())
		if entry != nil {
			tmpScore.MidGameValue += entry.score.MidGameValue
			tmpScore.EndGameValue += entry.score.EndGameValue
			return &tmpScore
		}
	}

	tmpScore.Add(e.evaluatePawnsForColor(White))
	tmpScore.Sub(e.evaluatePawnsForColor(Black))

	if Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), &tmpScore)
	}

	return &tmpScore
}

// evaluatePawnsForColor walks every pawn of one color, scoring passed,
// doubled and isolated structure. It never looks at the other color's
// pawn-structure terms, only its pawn bitboard - the caller subtracts
// the two single-color scores to get the familiar +own-opponent sign.
func (e *Evaluator) evaluatePawnsForColor(us Color) Score {
	var s Score

	them := us.Flip()
	ourPawns := e.position.PiecesBb(us, Pawn)
	theirPawns := e.position.PiecesBb(them, Pawn)

	pawns := ourPawns
	for pawns != BbZero {
		sq := pawns.PopLsb()
		file := sq.FileOf()

		adjacentFiles := adjacentFilesBb(file)

		// isolated - no friendly pawn on an adjacent file, regardless
		// of this pawn's own attacks
		if adjacentFiles&ourPawns == BbZero {
			s.MidGameValue += int(Settings.Eval.PawnIsolatedMidMalus)
			s.EndGameValue += int(Settings.Eval.PawnIsolatedEndMalus)
		}

		// doubled - more than one of our pawns on this file, and this
		// one is not defended by another pawn
		supported := GetPawnAttacks(them, sq)&ourPawns != BbZero
		if !supported && (file.Bb()&ourPawns).PopCount() > 1 {
			s.MidGameValue += int(Settings.Eval.PawnDoubledMidMalus)
			s.EndGameValue += int(Settings.Eval.PawnDoubledEndMalus)
		}

		// passed - no enemy pawn anywhere in the 3-file forward span
		if sq.PassedPawnMask(us)&theirPawns == BbZero {
			s.MidGameValue += int(Settings.Eval.PawnPassedMidBonus)
			s.EndGameValue += int(Settings.Eval.PawnPassedEndBonus)
		}
	}

	return s
}

// adjacentFilesBb returns the bitboard of the file(s) directly next to
// f, empty for neither edge file missing a neighbour.
func adjacentFilesBb(f File) Bitboard {
	var bb Bitboard
	if f > FileA {
		bb |= (f - 1).Bb()
	}
	if f < FileH {
		bb |= (f + 1).Bb()
	}
	return bb
}
