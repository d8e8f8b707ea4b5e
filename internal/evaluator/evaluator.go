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

// Package evaluator contains structures and functions to calculate
// the value of a chess position to be used in a chess engine search.
package evaluator

import (
	"strings"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/climbus/chego/internal/attacks"
	"github.com/climbus/chego/internal/config"
	myLogging "github.com/climbus/chego/internal/logging"
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

var out = message.NewPrinter(language.German)

// phaseMax is the resolution of the tapered phase - 0 is full midgame, 256
// is pure endgame. remainingMax is the weighted non-king, non-pawn material
// complement at the start of the game (knight 1, bishop 1, rook 2, queen 4,
// two of each except queen: 2+2+4+4 = 12 per side, 24 total) against which
// the live remaining weight is compared.
const (
	phaseMax     = 256
	remainingMax = GamePhaseMax

	// kingDistanceThreshold is the Chebyshev distance to the enemy king
	// beyond which a minor piece earns the king-distance bonus.
	kingDistanceThreshold = 4
)

// mainDiagonals is the union of a1-h8 and a8-h1.
var mainDiagonals = DiagUpA1 | DiagDownH1

// Evaluator represents a data structure and functionality for
// evaluating chess positions by using various evaluation
// heuristics like material, positional values, pawn structure, etc.
// Create a new instance with NewEvaluator().
type Evaluator struct {
	log *logging.Logger

	position  *position.Position
	phase     int
	us        Color
	them      Color
	ourKing   Square
	theirKing Square
	allPieces Bitboard
	ourPieces Bitboard

	evalInfo EvalInfo
	trace    *Trace

	score Score

	attack *attacks.Attacks

	pawnCache *pawnCache
}

// to avoid object creation and memory allocation
// during evaluation we reuse this tmp Score.
var tmpScore = Score{}

// NewEvaluator creates a new instance of an Evaluator.
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		log:    myLogging.GetLog(),
		attack: attacks.NewAttacks(),
	}
	if config.Settings.Eval.UsePawnCache {
		e.pawnCache = newPawnCache()
	} else {
		e.log.Info("Pawn Cache is disabled in configuration")
	}
	return e
}

// EnableTrace installs a fresh Trace that every subsequent Evaluate call
// writes through. Call DisableTrace to go back to the zero-cost default.
func (e *Evaluator) EnableTrace() *Trace {
	e.trace = &Trace{}
	return e.trace
}

// DisableTrace removes the trace installed by EnableTrace.
func (e *Evaluator) DisableTrace() {
	e.trace = nil
}

// InitEval initializes data structures and values which are used several times.
// Is called at the beginning of Evaluate() but can be called separately to be
// able to run single evaluations in unit tests.
func (e *Evaluator) InitEval(p *position.Position) {
	e.position = p
	e.phase = Phase(p)
	e.us = p.NextPlayer()
	e.them = e.us.Flip()
	e.ourKing = e.position.KingSquare(e.us)
	e.theirKing = e.position.KingSquare(e.them)
	e.allPieces = e.position.OccupiedAll()
	e.ourPieces = e.position.OccupiedBb(e.us)

	e.score.MidGameValue = 0
	e.score.EndGameValue = 0

	e.attack.Clear()
}

// Phase returns the tapering phase for p in [0, phaseMax]: 0 is full
// midgame, phaseMax is pure endgame. It is derived from the non-king,
// non-pawn material still on the board - GamePhase already tracks exactly
// that weighted sum (knight/bishop 1, rook 2, queen 4), counting down from
// remainingMax at the start of the game to 0 once all officers are gone.
func Phase(p *position.Position) int {
	remaining := p.GamePhase()
	return phaseMax * (remainingMax - remaining) / remainingMax
}

// Evaluate calculates a value for a chess position by using various
// evaluation heuristics like material, positional values, pawn structure,
// mobility etc. It calls InitEval and then the internal
// evaluation function which computes a (mg,eg) score for the position and
// blends it by the game phase, from the view of the side to move.
func (e *Evaluator) Evaluate(p *position.Position) Value {
	e.InitEval(p)
	return e.evaluate()
}

// taper blends a (mg,eg) score by the current phase: final = (mg*(256-phase)
// + eg*phase) / 256. Phase 0 (full midgame) returns mg unchanged; phase 256
// (pure endgame) returns eg unchanged.
func (e *Evaluator) taper(s Score) Value {
	return Value((s.MidGameValue*(phaseMax-e.phase) + s.EndGameValue*e.phase) / phaseMax)
}

// addTerm adds s to the running score and, if tracing is enabled, records
// the same contribution under term. Tracing never changes the score itself.
func (e *Evaluator) addTerm(term Term, s Score) {
	e.score.Add(s)
	if e.trace != nil {
		e.trace.add(term, s)
	}
}

// internal evaluation to sum up all partial evaluations.
// This assumes that InitEval() has been called beforehand.
func (e *Evaluator) evaluate() Value {
	// if not enough material on the board to achieve a mate it is a draw
	if e.position.HasInsufficientMaterial() {
		return ValueDraw
	}

	// Each position is evaluated from the view of the white player. Before
	// returning the value this is adjusted to the view of the next player.

	// material and piece-square tables, for every piece kind and both
	// colors at once - Position keeps a running total of both as pieces
	// are made/unmade, so this is a handful of field reads, not a scan.
	e.addTerm(TermMaterialPsq, Score{
		MidGameValue: int(e.position.Material(White)-e.position.Material(Black)) +
			int(e.position.PsqMidValue(White)-e.position.PsqMidValue(Black)),
		EndGameValue: int(e.position.Material(White)-e.position.Material(Black)) +
			int(e.position.PsqEndValue(White)-e.position.PsqEndValue(Black)),
	})

	// pawn structure: passed, doubled, isolated - cached by pawn key since
	// it never depends on anything but pawn placement.
	e.addTerm(TermPawnStructure, *e.evaluatePawns())

	// attacks are needed by every per-piece term below (mobility, outposts,
	// the rook/queen line checks), so compute them once up front.
	e.attack.Compute(e.position)
	e.evalInfo.compute(e.position, e.attack.Pawns)

	var knight, bishop, rook, queen Score
	knight.Add(*e.evalPiece(White, Knight))
	knight.Sub(*e.evalPiece(Black, Knight))
	e.addTerm(TermKnight, knight)

	bishop.Add(*e.evalPiece(White, Bishop))
	bishop.Sub(*e.evalPiece(Black, Bishop))
	e.addTerm(TermBishop, bishop)

	rook.Add(*e.evalPiece(White, Rook))
	rook.Sub(*e.evalPiece(Black, Rook))
	e.addTerm(TermRook, rook)

	queen.Add(*e.evalPiece(White, Queen))
	queen.Sub(*e.evalPiece(Black, Queen))
	e.addTerm(TermQueen, queen)

	// King is PST only - already folded into the material/PST term above.

	// tempo bonus for the side to move, midgame only.
	e.addTerm(TermTempo, Score{MidGameValue: int(config.Settings.Eval.Tempo) * e.us.Direction()})

	return e.finalEval()
}

// finalEval blends the accumulated (mg,eg) score by phase and flips it to
// the view of the next player - the running score is always accumulated
// white-minus-black, regardless of whose turn it is.
func (e *Evaluator) finalEval() Value {
	return e.taper(e.score) * Value(e.position.NextPlayer().Direction())
}

// evalPiece is the evaluation function for all pieces except pawns and kings.
func (e *Evaluator) evalPiece(c Color, pieceType PieceType) *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	pieceBb := e.position.PiecesBb(c, pieceType)
	if pieceBb == BbZero {
		return &tmpScore
	}

	us := c
	them := us.Flip()

	switch pieceType {
	case Knight:
		for pieceBb != BbZero {
			e.knightEval(us, them, pieceBb.PopLsb())
		}
	case Bishop:
		if pieceBb.PopCount() > 1 {
			tmpScore.MidGameValue += int(config.Settings.Eval.BishopPairBonus)
			tmpScore.EndGameValue += int(config.Settings.Eval.BishopPairBonus)
		}
		for pieceBb != BbZero {
			e.bishopEval(us, them, pieceBb.PopLsb())
		}
	case Rook:
		for pieceBb != BbZero {
			e.rookEval(us, them, pieceBb.PopLsb())
		}
	case Queen:
		for pieceBb != BbZero {
			e.queenEval(us, them, pieceBb.PopLsb())
		}
	}

	return &tmpScore
}

// mobilityCount returns how many squares in us's mobility area the piece on
// sq attacks - the shared "mobility indexed by count" measure every piece
// kind but the king and pawn uses.
func (e *Evaluator) mobilityCount(us Color, sq Square) int {
	return (e.attack.From[us][sq] & e.evalInfo.mobilityArea[us]).PopCount()
}

// outpost reports whether sq is a square no enemy pawn can ever attack, and
// whether it is currently defended by one of our own pawns.
func (e *Evaluator) outpost(us Color, them Color, sq Square) (onOutpost bool, defended bool) {
	if !e.evalInfo.outposts[us].Has(sq) {
		return false, false
	}
	return true, GetPawnAttacks(them, sq)&e.position.PiecesBb(us, Pawn) != BbZero
}

func (e *Evaluator) knightEval(us Color, them Color, sq Square) {
	if e.evalInfo.behindPawns[us].Has(sq) {
		tmpScore.MidGameValue += int(config.Settings.Eval.MinorBehindPawnBonus)
	}

	if onOutpost, defended := e.outpost(us, them, sq); onOutpost {
		if defended {
			tmpScore.MidGameValue += int(config.Settings.Eval.KnightOutpostDefendedBonus)
			tmpScore.EndGameValue += int(config.Settings.Eval.KnightOutpostDefendedBonus)
		} else {
			tmpScore.MidGameValue += int(config.Settings.Eval.KnightOutpostBonus)
			tmpScore.EndGameValue += int(config.Settings.Eval.KnightOutpostBonus)
		}
	}

	if SquareDistance(sq, e.position.KingSquare(them)) >= kingDistanceThreshold {
		tmpScore.MidGameValue += int(config.Settings.Eval.KnightKingDistanceBonus)
		tmpScore.EndGameValue += int(config.Settings.Eval.KnightKingDistanceBonus)
	}

	count := e.mobilityCount(us, sq)
	tmpScore.MidGameValue += count * int(config.Settings.Eval.KnightMobilityMidBonus)
	tmpScore.EndGameValue += count * int(config.Settings.Eval.KnightMobilityEndBonus)
}

func (e *Evaluator) bishopEval(us Color, them Color, sq Square) {
	if e.evalInfo.behindPawns[us].Has(sq) {
		tmpScore.MidGameValue += int(config.Settings.Eval.MinorBehindPawnBonus)
	}

	// malus for own pawns on the same color squares as this bishop - worse
	// in the end game where the bishop has fewer outlets.
	if SquaresBb(White).Has(sq) {
		popCount := int((e.position.PiecesBb(us, Pawn) & SquaresBb(White)).PopCount())
		tmpScore.EndGameValue -= int(config.Settings.Eval.BishopPawnMalus) * popCount
	} else {
		popCount := int((e.position.PiecesBb(us, Pawn) & SquaresBb(Black)).PopCount())
		tmpScore.EndGameValue -= int(config.Settings.Eval.BishopPawnMalus) * popCount
	}

	if mainDiagonals.Has(sq) {
		tmpScore.MidGameValue += int(config.Settings.Eval.BishopLongDiagonalBonus)
		tmpScore.EndGameValue += int(config.Settings.Eval.BishopLongDiagonalBonus)
	}

	// how many center squares this bishop sees on an empty board - a cheap
	// stand-in for the long-term value of its diagonal.
	centerAim := (GetAttacksBb(Bishop, sq, BbZero) & CenterSquares).PopCount()
	tmpScore.MidGameValue += centerAim * int(config.Settings.Eval.BishopCenterAimBonus)

	// blocked in its own starting corner with no outlet at all.
	if (us == White && sq.RankOf() == Rank1) || (us == Black && sq.RankOf() == Rank8) {
		if GetAttacksBb(Bishop, sq, e.allPieces)&^e.position.OccupiedBb(us) == BbZero {
			tmpScore.MidGameValue -= int(config.Settings.Eval.BishopBlockedMalus)
			tmpScore.EndGameValue -= int(config.Settings.Eval.BishopBlockedMalus)
		}
	}

	if onOutpost, defended := e.outpost(us, them, sq); onOutpost {
		if defended {
			tmpScore.MidGameValue += int(config.Settings.Eval.BishopOutpostDefendedBonus)
			tmpScore.EndGameValue += int(config.Settings.Eval.BishopOutpostDefendedBonus)
		} else {
			tmpScore.MidGameValue += int(config.Settings.Eval.BishopOutpostBonus)
			tmpScore.EndGameValue += int(config.Settings.Eval.BishopOutpostBonus)
		}
	}

	if SquareDistance(sq, e.position.KingSquare(them)) >= kingDistanceThreshold {
		tmpScore.MidGameValue += int(config.Settings.Eval.BishopKingDistanceBonus)
		tmpScore.EndGameValue += int(config.Settings.Eval.BishopKingDistanceBonus)
	}

	count := e.mobilityCount(us, sq)
	tmpScore.MidGameValue += count * int(config.Settings.Eval.BishopMobilityMidBonus)
	tmpScore.EndGameValue += count * int(config.Settings.Eval.BishopMobilityEndBonus)
}

func (e *Evaluator) rookEval(us Color, them Color, sq Square) {
	if sq.FileOf().Bb()&e.position.PiecesBb(us, Queen) > 0 {
		tmpScore.MidGameValue += int(config.Settings.Eval.RookOnQueenFileBonus)
		tmpScore.EndGameValue += int(config.Settings.Eval.RookOnQueenFileBonus)
	}

	// open/semi-open file, indexed by whether the enemy still has a pawn
	// blocking it.
	file := sq.FileOf().Bb()
	ownPawnsOnFile := file & e.position.PiecesBb(us, Pawn)
	enemyPawnsOnFile := file & e.position.PiecesBb(them, Pawn)
	if ownPawnsOnFile == BbZero {
		if enemyPawnsOnFile == BbZero {
			tmpScore.MidGameValue += int(config.Settings.Eval.RookOnOpenFileBonus)
		} else {
			tmpScore.MidGameValue += int(config.Settings.Eval.RookSemiOpenFileBonus)
		}
	}

	if e.evalInfo.seventhRank[us].Has(sq) {
		tmpScore.MidGameValue += int(config.Settings.Eval.RookSeventhRankMidBonus)
		tmpScore.EndGameValue += int(config.Settings.Eval.RookSeventhRankEndBonus)
	}

	// trapped by its own uncastled king, on the outside of the king on the
	// back rank.
	kingSquare := e.position.KingSquare(us)
	if KingSideCastleMask(us).Has(kingSquare) {
		if sq.RankOf() == kingSquare.RankOf() && sq > kingSquare {
			tmpScore.MidGameValue -= int(config.Settings.Eval.RookTrappedMalus)
		}
	} else if QueenSideCastMask(us).Has(kingSquare) {
		if sq.RankOf() == kingSquare.RankOf() && sq < kingSquare {
			tmpScore.MidGameValue -= int(config.Settings.Eval.RookTrappedMalus)
		}
	}

	count := e.mobilityCount(us, sq)
	tmpScore.MidGameValue += count * int(config.Settings.Eval.RookMobilityMidBonus)
	tmpScore.EndGameValue += count * int(config.Settings.Eval.RookMobilityEndBonus)
}

func (e *Evaluator) queenEval(us Color, them Color, sq Square) {
	if e.discoveredAttackRisk(us, them, sq) {
		tmpScore.MidGameValue -= int(config.Settings.Eval.QueenDiscoveredAttackMidMalus)
		tmpScore.EndGameValue -= int(config.Settings.Eval.QueenDiscoveredAttackEndMalus)
	}

	count := e.mobilityCount(us, sq)
	tmpScore.MidGameValue += count * int(config.Settings.Eval.QueenMobilityMidBonus)
	tmpScore.EndGameValue += count * int(config.Settings.Eval.QueenMobilityEndBonus)
}

// discoveredAttackRisk reports whether an enemy slider stands behind our
// queen on a line to our own king - if the queen steps off that line it
// exposes the king. Detected by removing the queen from the occupancy and
// checking whether the king's x-ray vision down that line now reaches an
// enemy rook/bishop/queen.
func (e *Evaluator) discoveredAttackRisk(us Color, them Color, sq Square) bool {
	kingSquare := e.position.KingSquare(us)
	occWithoutQueen := e.allPieces &^ sq.Bb()

	// x-ray: the squares the king only sees once the queen is gone, i.e. the
	// line behind the queen (empty when the queen is not on a king ray)
	orthogonal := GetAttacksBb(Rook, kingSquare, occWithoutQueen) &^ GetAttacksBb(Rook, kingSquare, e.allPieces)
	if orthogonal&(e.position.PiecesBb(them, Rook)|e.position.PiecesBb(them, Queen)) != BbZero {
		return true
	}

	diagonal := GetAttacksBb(Bishop, kingSquare, occWithoutQueen) &^ GetAttacksBb(Bishop, kingSquare, e.allPieces)
	if diagonal&(e.position.PiecesBb(them, Bishop)|e.position.PiecesBb(them, Queen)) != BbZero {
		return true
	}

	return false
}

// Report prints a report about the evaluations done. Used in debugging.
func (e *Evaluator) Report() string {
	var report strings.Builder

	report.WriteString("Evaluation Report\n")
	report.WriteString("=============================================\n")
	report.WriteString(out.Sprintf("Position: %s\n", e.position.StringFen()))
	report.WriteString(out.Sprintf("%s\n", e.position.StringBoard()))
	report.WriteString(out.Sprintf("Phase: %d/%d\n", e.phase, phaseMax))
	report.WriteString(out.Sprintf("(evals from the view of white player)\n"))
	report.WriteString(out.Sprintf("Eval value  : %d \n(from the view of next player = %s)\n", e.Evaluate(e.position), e.position.NextPlayer().String()))

	return report.String()
}
