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
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

// EvalInfo is scratch data computed once per color at the start of an
// evaluation and reused by every per-piece term, the same way Attacks is
// computed once and reused across evalPiece calls.
type EvalInfo struct {
	mobilityArea [ColorLength]Bitboard
	behindPawns  [ColorLength]Bitboard
	outposts     [ColorLength]Bitboard
	seventhRank  [ColorLength]Bitboard
}

// compute fills in every EvalInfo field for both colors. Must run after
// e.attack has been computed for p, since mobilityArea depends on the
// combined enemy pawn attack set.
func (ei *EvalInfo) compute(p *position.Position, pawnAttacks [ColorLength]Bitboard) {
	for _, us := range [2]Color{White, Black} {
		them := us.Flip()
		ourPawns := p.PiecesBb(us, Pawn)
		theirPawns := p.PiecesBb(them, Pawn)

		blockedTargets := ShiftBitboard(ourPawns, us.MoveDirection()) & p.OccupiedAll()
		blockedPawns := ShiftBitboard(blockedTargets, them.MoveDirection())

		ei.mobilityArea[us] = ^(pawnAttacks[them] | blockedPawns | p.KingSquare(us).Bb())
		ei.behindPawns[us] = ShiftBitboard(ourPawns, them.MoveDirection())
		ei.outposts[us] = ^pawnAttackSpan(theirPawns, them)
		ei.seventhRank[us] = seventhRankBb(us)
	}
}

// pawnAttackSpan returns every square any of pawns could ever attack by
// pushing forward from its current square, computed by repeatedly shifting
// the one-step diagonal attack set in the pawns' push direction and
// accumulating the union - the squares a pawn attacks today, tomorrow, and
// every day after that until it queens.
func pawnAttackSpan(pawns Bitboard, c Color) Bitboard {
	dir := c.MoveDirection()
	attacks := ShiftBitboard(pawns, Northwest) | ShiftBitboard(pawns, Northeast)
	if c == Black {
		attacks = ShiftBitboard(pawns, Southwest) | ShiftBitboard(pawns, Southeast)
	}
	span := attacks
	for i := 0; i < 6; i++ {
		attacks = ShiftBitboard(attacks, dir)
		span |= attacks
	}
	return span
}

func seventhRankBb(c Color) Bitboard {
	if c == White {
		return Rank7_Bb
	}
	return Rank2_Bb
}
