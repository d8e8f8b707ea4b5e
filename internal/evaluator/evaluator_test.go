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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/climbus/chego/internal/config"
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

func TestPhaseStartingPositionIsFullMidgame(t *testing.T) {
	p := position.NewPosition()
	assert.Equal(t, 0, Phase(p))
}

func TestPhaseBareKingsIsFullEndgame(t *testing.T) {
	p, err := position.NewPositionFen("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, phaseMax, Phase(p))
}

func TestTaperBlendsByPhase(t *testing.T) {
	e := NewEvaluator()
	s := Score{MidGameValue: 100, EndGameValue: 0}

	e.phase = 0
	assert.EqualValues(t, 100, e.taper(s))

	e.phase = phaseMax
	assert.EqualValues(t, 0, e.taper(s))

	e.phase = phaseMax / 2
	assert.EqualValues(t, 50, e.taper(s))
}

// TestTraceAdditivity pins the property that every contribution added to
// the running score during evaluate() is also recorded in the trace, so
// summing the trace reproduces the running score exactly.
func TestTraceAdditivity(t *testing.T) {
	Settings.Eval.UsePawnCache = false

	e := NewEvaluator()
	trace := e.EnableTrace()
	p := position.NewPosition()

	e.InitEval(p)
	e.evaluate()

	assert.Equal(t, e.score, trace.Total())
}

// TestRookSeventhRankScoreAppliesToBothPhases pins the corrected behavior:
// a rook on the 7th rank earns its midgame bonus in MidGameValue and its
// endgame bonus in EndGameValue, not the endgame bonus written to both.
func TestRookSeventhRankScoreAppliesToBothPhases(t *testing.T) {
	p, err := position.NewPositionFen("4k3/R7/8/8/8/8/P7/4K3 w - - 0 1")
	require.NoError(t, err)

	e := NewEvaluator()
	e.InitEval(p)
	e.attack.Compute(p)
	e.evalInfo.compute(p, e.attack.Pawns)

	score := e.evalPiece(White, Rook)

	assert.GreaterOrEqual(t, score.MidGameValue, int(Settings.Eval.RookSeventhRankMidBonus))
	assert.GreaterOrEqual(t, score.EndGameValue, int(Settings.Eval.RookSeventhRankEndBonus))
	assert.NotEqual(t, score.MidGameValue, score.EndGameValue,
		"mid and end game bonus for 7th rank differ and must not collapse to the same value")
}

// TestQueenDiscoveredAttackRisk pins that a queen standing between its own
// king and an enemy rook on the same file is flagged and penalized.
func TestQueenDiscoveredAttackRisk(t *testing.T) {
	p, err := position.NewPositionFen("k3r3/8/8/8/8/8/4Q3/4K3 w - - 0 1")
	require.NoError(t, err)

	e := NewEvaluator()
	e.InitEval(p)
	e.attack.Compute(p)
	e.evalInfo.compute(p, e.attack.Pawns)

	assert.True(t, e.discoveredAttackRisk(White, Black, SqE2))
}

func TestQueenNoDiscoveredAttackRiskWhenOffLine(t *testing.T) {
	p, err := position.NewPositionFen("4k3/8/8/8/8/8/8/3QK2r w - - 0 1")
	require.NoError(t, err)

	e := NewEvaluator()
	e.InitEval(p)
	e.attack.Compute(p)
	e.evalInfo.compute(p, e.attack.Pawns)

	assert.False(t, e.discoveredAttackRisk(White, Black, SqD1))
}

func TestKnightOutpostDefendedScoresHigherThanUndefended(t *testing.T) {
	e := NewEvaluator()

	defended, err := position.NewPositionFen("4k3/8/8/8/3N4/2P5/8/4K3 w - - 0 1")
	require.NoError(t, err)
	e.InitEval(defended)
	e.attack.Compute(defended)
	e.evalInfo.compute(defended, e.attack.Pawns)
	defendedScore := e.evalPiece(White, Knight)
	defendedMid := defendedScore.MidGameValue

	undefended, err := position.NewPositionFen("4k3/8/8/8/3N4/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	e.InitEval(undefended)
	e.attack.Compute(undefended)
	e.evalInfo.compute(undefended, e.attack.Pawns)
	undefendedScore := e.evalPiece(White, Knight)

	assert.Greater(t, defendedMid, undefendedScore.MidGameValue)
}

func TestEvaluateMirroredPositionIsSymmetric(t *testing.T) {
	e := NewEvaluator()
	p := position.NewPosition()
	assert.EqualValues(t, 0, e.Evaluate(p)-Value(Settings.Eval.Tempo))
}
