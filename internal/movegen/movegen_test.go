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

package movegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

// contains reports whether ml holds a move with the given from/to squares.
func contains(ml *position.Position, mg *Movegen, from, to Square) bool {
	moves := mg.GenerateLegalMoves(ml, GenAll)
	for _, m := range *moves {
		if m.From() == from && m.To() == to {
			return true
		}
	}
	return false
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	assert := assert.New(t)
	// white king on e1 is forked by the black knight on d3, while the
	// rook on e8 also gives check down the e-file - a double check.
	p, err := position.NewPositionFen("4r3/8/8/8/8/3n4/8/4K3 w - - 0 1")
	assert.NoError(err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.Greater(moves.Len(), 0)
	for _, m := range *moves {
		assert.Equal(SqE1, m.From(), "only the king may move when in double check")
	}
}

func TestPinnedPieceRestrictedToRay(t *testing.T) {
	assert := assert.New(t)
	// white king e1, white rook e4 pinned by black rook e8 along the
	// e-file. The rook may only move along the e-file (or capture on
	// e8), never sideways.
	p, err := position.NewPositionFen("4r3/8/8/8/4R3/8/8/4K3 w - - 0 1")
	assert.NoError(err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *moves {
		if m.From() == SqE4 {
			assert.Equal(FileE, m.To().FileOf(), "pinned rook left the pin ray: %s", m.String())
		}
	}
	assert.True(contains(p, mg, SqE4, SqE8), "pinned rook must still be able to capture the pinning piece")
}

func TestEnPassantDiscoveredCheckSuppressed(t *testing.T) {
	assert := assert.New(t)
	// white king a5, white pawn b5, black pawn c7-c5 just played (double
	// step), black rook h5. Capturing b5xc6 en passant would remove both
	// pawns from the 5th rank and expose the king to the rook - illegal.
	p, err := position.NewPositionFen("8/8/8/KPp4r/8/8/8/4k3 w - c6 0 1")
	assert.NoError(err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *moves {
		assert.False(m.IsEnPassant(), "en passant capture must be suppressed: discovered check along the 5th rank")
	}
}

func TestCastlingThroughCheckBlocked(t *testing.T) {
	assert := assert.New(t)
	// white king e1 with both-side castling rights, black rook on f8
	// attacks f1 - kingside castling would cross an attacked square.
	p, err := position.NewPositionFen("5r2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	assert.NoError(err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *moves {
		if m.IsCastling() {
			assert.NotEqual(SqG1, m.To(), "kingside castling must be blocked: king would cross an attacked square")
		}
	}
	assert.True(contains(p, mg, SqE1, SqC1), "queenside castling is unaffected and should stay legal")
}

func TestCheckMaskBlocksNonKingMoves(t *testing.T) {
	assert := assert.New(t)
	// white king e1 in check from a bishop on a5 along the a5-e1
	// diagonal (a5-b4-c3-d2-e1); white knight on e4 can only block on
	// c3 or d2 - every other knight move leaves the king in check.
	p, err := position.NewPositionFen("8/8/8/b7/4N3/8/8/4K3 w - - 0 1")
	assert.NoError(err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p, GenAll)
	knightMoves := 0
	for _, m := range *moves {
		if m.From() == SqE4 {
			knightMoves++
			onCheckLine := m.To() == SqC3 || m.To() == SqD2
			assert.True(onCheckLine, "knight move %s neither blocks nor captures the checker", m.String())
		}
	}
	assert.Equal(2, knightMoves, "only the two blocking squares reachable by the knight should be legal")
}

func TestHasLegalMoveDetectsStalemate(t *testing.T) {
	assert := assert.New(t)
	// classic stalemate: black king a8 has no legal move and is not in check.
	p, err := position.NewPositionFen("k7/8/1Q6/8/8/8/8/K7 b - - 0 1")
	assert.NoError(err)

	mg := NewMoveGen()
	assert.False(p.HasCheck())
	assert.False(mg.HasLegalMove(p))
}
