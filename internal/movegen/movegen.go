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

// Package movegen contains functionality to create moves on a
// chess position. It implements several variants like
// generate legal moves or on demand generation of moves.
//
// Generation is single pass: checkers, pins and king danger are all
// derived from the position's bitboards up front, so no move is ever
// tried with DoMove/UndoMove just to see if it leaves the king in
// check.
package movegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/op/go-logging"

	"github.com/climbus/chego/internal/attacks"
	myLogging "github.com/climbus/chego/internal/logging"
	"github.com/climbus/chego/internal/moveslice"
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

var log *logging.Logger

// Movegen data structure. Create new move generator via
//  movegen.NewMoveGen()
// Creating this directly will not work.
type Movegen struct {
	pseudoLegalMoves   *moveslice.MoveSlice
	legalMoves         *moveslice.MoveSlice
	onDemandMoves      *moveslice.MoveSlice
	killerMoves        [2]Move
	currentIteratorKey position.Key
	takeIndex          int
	pvMove             Move
	currentODStage     int8
	pvMovePushed       bool
}

// //////////////////////////////////////////////////////
// // Public
// //////////////////////////////////////////////////////

// GenMode generation modes for on demand move generation
type GenMode int

// GenMode generation modes for on demand move generation
const (
	GenZero   GenMode = 0b00
	GenCap    GenMode = 0b01
	GenNonCap GenMode = 0b10
	GenAll    GenMode = 0b11
	// GenNonQuiet is used by quiescence search once the position is not
	// in check - only captures (and promotions, which carry the capture
	// bit when they take a piece) are worth searching further.
	GenNonQuiet GenMode = GenCap
)

// NewMoveGen creates a new instance of a move generator
func NewMoveGen() *Movegen {
	if log == nil {
		log = myLogging.GetLog()
	}
	tmpMg := &Movegen{
		pseudoLegalMoves:   moveslice.NewMoveSlice(MaxMoves),
		legalMoves:         moveslice.NewMoveSlice(MaxMoves),
		onDemandMoves:      moveslice.NewMoveSlice(MaxMoves),
		killerMoves:        [2]Move{MoveNone, MoveNone},
		pvMove:             MoveNone,
		currentODStage:     odNew,
		currentIteratorKey: 0,
		pvMovePushed:       false,
		takeIndex:          0,
	}
	return tmpMg
}

// GeneratePseudoLegalMoves generates all legal moves for the next player in
// a single pass - checkers, pins and castling-through-check are all
// resolved from the bitboards directly, so every move returned here is
// already legal. inCheck is passed in by the caller (who usually already
// knows the answer from position.HasCheck) rather than recomputed here.
func (mg *Movegen) GeneratePseudoLegalMoves(p *position.Position, mode GenMode, inCheck bool) *moveslice.MoveSlice {
	mg.pseudoLegalMoves.Clear()
	mg.generate(p, mode, mg.pseudoLegalMoves, inCheck)

	// PV and Killer handling
	mg.pseudoLegalMoves.ForEach(func(i int) {
		at := mg.pseudoLegalMoves.At(i)
		switch {
		case at.MoveOf() == mg.pvMove:
			mg.pseudoLegalMoves.Set(i, at.WithSortValue(sortValuePv))
		case at.MoveOf() == mg.killerMoves[0]:
			mg.pseudoLegalMoves.Set(i, at.WithSortValue(sortValueKiller1))
		case at.MoveOf() == mg.killerMoves[1]:
			mg.pseudoLegalMoves.Set(i, at.WithSortValue(sortValueKiller2))
		}
	})
	mg.pseudoLegalMoves.Sort()
	// remove internal sort value
	mg.pseudoLegalMoves.ForEach(func(i int) {
		mg.pseudoLegalMoves.Set(i, mg.pseudoLegalMoves.At(i).MoveOf())
	})
	return mg.pseudoLegalMoves
}

// GenerateLegalMoves generates legal moves for the next player.
func (mg *Movegen) GenerateLegalMoves(p *position.Position, mode GenMode) *moveslice.MoveSlice {
	mg.legalMoves.Clear()
	mg.generate(p, mode, mg.legalMoves, p.HasCheck())
	mg.legalMoves.ForEach(func(i int) {
		mg.legalMoves.Set(i, mg.legalMoves.At(i).MoveOf())
	})
	return mg.legalMoves
}

// GetNextMove returns the next move for the given position. Usually this would be used in a loop
// during search.
//
// If a PV move is set with setPV(Move pv) this will be returned first
// and will not be returned at its normal place.
// Killer moves will be played as soon as possible. As Killer moves are stored for
// the whole ply a Killer move might not be valid for the current position. Therefore
// we need to wait until they are generated by the phased move generation. Killers will
// then be pushed to the top of the list of the generation stage.
//
// To reuse this on the sames position a call to ResetOnDemand() is necessary. This
// is not necessary when a different position is called as this func will reset it self
// in this case.
func (mg *Movegen) GetNextMove(p *position.Position, mode GenMode, hasCheck bool) Move {

	// if the position changes during iteration the iteration
	// will be reset and generation will be restart with the
	// new position.
	if p.ZobristKey() != mg.currentIteratorKey {
		mg.onDemandMoves.Clear()
		mg.currentODStage = odNew
		mg.pvMovePushed = false
		mg.takeIndex = 0
		mg.currentIteratorKey = p.ZobristKey()
	}

	// ad takeIndex
	// With the takeIndex we can take from the front of the vector
	// without removing the element from the vector which would
	// be expensive as all elements would have to be shifted.
	// (although our Moveslice class can handle this efficiently
	// through a similar mechanism)

	// If the list is currently empty and we have not generated all moves yet
	// generate the next batch until we have new moves or there are no more
	// moves to generate
	if mg.onDemandMoves.Len() == 0 {
		mg.fillOnDemandMoveList(p, mode, hasCheck)
	}

	// If we have generated moves we will return the first move and
	// increase the takeIndex to the next move. If the list is empty
	// even after all stages of generating we have no more moves
	// and return MOVE_NONE
	// If we have pushed a pvMove into the list we will need to
	// skip this pvMove for each subsequent phases.
	if mg.onDemandMoves.Len() != 0 {

		// Handle PvMove
		// if we pushed a pv move and the list is not empty we
		// check if the pv is the next move in list and skip it.
		if mg.currentODStage != od1 &&
			mg.pvMovePushed &&
			(*mg.onDemandMoves)[mg.takeIndex].MoveOf() == mg.pvMove.MoveOf() {

			// skip pv move
			mg.takeIndex++

			// We found the pv move and skipped it.
			// No need to check this for this generation cycle
			mg.pvMovePushed = false

			// PV move last in move list
			if mg.takeIndex >= mg.onDemandMoves.Len() {
				// The pv move was the last move in this iterations list.
				// We will try to generate more moves. If no more moves
				// can be generated we will return MOVE_NONE.
				// Otherwise we return the move below.
				mg.takeIndex = 0
				mg.onDemandMoves.Clear()
				mg.fillOnDemandMoveList(p, mode, hasCheck)
				// no more moves - return MOVE_NONE
				if mg.onDemandMoves.Len() == 0 {
					return MoveNone
				}
			}
		}

		// we have at least one move in the list and
		// it is not the pvMove. Increase the takeIndex
		// and return the move
		move := (*mg.onDemandMoves)[mg.takeIndex].MoveOf()
		mg.takeIndex++
		if mg.takeIndex >= mg.onDemandMoves.Len() {
			mg.takeIndex = 0
			mg.onDemandMoves.Clear()
		}
		return move // remove internal sort value
	}

	// no more moves to be generated
	mg.takeIndex = 0
	mg.pvMovePushed = false
	return MoveNone
}

// ResetOnDemand resets the move on demand generator to start fresh.
// Also deletes Killer and PV moves
func (mg *Movegen) ResetOnDemand() {
	mg.onDemandMoves.Clear()
	mg.currentODStage = odNew
	mg.currentIteratorKey = 0
	mg.pvMove = MoveNone
	mg.pvMovePushed = false
	mg.takeIndex = 0
}

// SetPvMove sets a PV move which should be returned first by
// the OnDemand MoveGenerator.
func (mg *Movegen) SetPvMove(move Move) {
	mg.pvMove = move.MoveOf()
}

// StoreKiller provides the on demand move generator with a new killer move
// which should be returned as soon as possible when generating moves with
// the on demand generator.
func (mg *Movegen) StoreKiller(move Move) {
	// check if already stored in first slot - if so return
	moveOf := move.MoveOf()
	if mg.killerMoves[0] == moveOf {
		return
	} else if mg.killerMoves[1] == moveOf { // if in second slot move it to first
		mg.killerMoves[1] = mg.killerMoves[0]
		mg.killerMoves[0] = moveOf
	} else {
		// add it to first slot und move first to second
		mg.killerMoves[1] = mg.killerMoves[0]
		mg.killerMoves[0] = moveOf
	}
}

// HasLegalMove determines if we have at least one legal move. Since
// generation is already legality-aware this is just the emptiness check
// of the legal move list - no separate search is needed.
func (mg *Movegen) HasLegalMove(p *position.Position) bool {
	return mg.GenerateLegalMoves(p, GenAll).Len() > 0
}

// Regex for UCI notation (UCI)
var regexUciMove = regexp.MustCompile("([a-h][1-8][a-h][1-8])([NBRQnbrq])?")

// GetMoveFromUci Generates all legal moves and matches the given UCI
// move string against them. If there is a match the actual move is returned.
// Otherwise MoveNone is returned.
//
// As this uses string creation and comparison this is not very efficient.
// Use only when performance is not critical.
func (mg *Movegen) GetMoveFromUci(posPtr *position.Position, uciMove string) Move {
	matches := regexUciMove.FindStringSubmatch(uciMove)
	if matches == nil {
		return MoveNone
	}

	// get the parts from the pattern match
	movePart := matches[1]
	promotionPart := ""
	if len(matches) == 3 {
		// we allow upper case promotion letters
		// not really UCI but many input files have this wrong
		promotionPart = strings.ToLower(matches[2])
	}

	// check against all legal moves on position
	mg.GenerateLegalMoves(posPtr, GenAll)
	for _, m := range *mg.legalMoves {
		if m.StringUci() == movePart+promotionPart {
			// move found
			return m
		}
	}
	// move not found
	return MoveNone
}

var regexSanMove = regexp.MustCompile("([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?")

// GetMoveFromSan Generates all legal moves and matches the given SAN
// move string against them. If there is a match the actual move is returned.
// Otherwise MoveNone is returned.
//
// As this uses string creation and comparison this is not very efficient.
// Use only when performance is not critical.
func (mg *Movegen) GetMoveFromSan(posPtr *position.Position, sanMove string) Move {
	matches := regexSanMove.FindStringSubmatch(sanMove)
	if matches == nil {
		return MoveNone
	}

	// get parts
	pieceType := matches[1]
	disambFile := matches[2]
	disambRank := matches[3]
	toSquare := matches[4]
	promotion := matches[6]
	// checkSign := matches[7]

	movesFound := 0
	moveFromSAN := MoveNone

	// check against all legal moves on position
	mg.GenerateLegalMoves(posPtr, GenAll)
	for _, genMove := range *mg.legalMoves {

		// castling moves
		if genMove.MoveType() == Castling {
			kingToSquare := genMove.To()
			var castlingString string
			switch kingToSquare {
			case SqG1: // white king side
				fallthrough
			case SqG8: // black king side
				castlingString = "O-O"
			case SqC1: // white queen side
				fallthrough
			case SqC8: // black queen side
				castlingString = "O-O-O"
			default:
				log.Error("Move type CASTLING but wrong to square: %s %s", castlingString, kingToSquare.String())
				continue
			}
			if castlingString == toSquare {
				moveFromSAN = genMove
				movesFound++
				continue
			}
		}

		// normal moves
		moveTarget := genMove.To().String()
		if moveTarget == toSquare {

			// determine if piece types match - if not skip
			legalPt := posPtr.GetPiece(genMove.From()).TypeOf()
			legalPtChar := legalPt.Char()
			if (len(pieceType) == 0 || legalPtChar != pieceType) &&
				(len(pieceType) != 0 || legalPt != Pawn) {
				continue
			}

			// Disambiguation File
			if len(disambFile) != 0 && genMove.From().FileOf().String() != disambFile {
				continue
			}

			// Disambiguation Rank
			if len(disambRank) != 0 && genMove.From().RankOf().String() != disambRank {
				continue
			}

			// promotion
			if (len(promotion) != 0 && genMove.PromotionType().Char() != promotion) ||
				(len(promotion) == 0 && genMove.MoveType() == Promotion) {
				continue
			}

			// we should have our move if we end up here
			moveFromSAN = genMove
			movesFound++
		}
	}

	// we should only have one move here
	if movesFound > 1 {
		log.Warningf("SAN move %s is ambiguous (%d matches) on %s!", sanMove, movesFound, posPtr.StringFen())
	} else if movesFound == 0 || !moveFromSAN.IsValid() {
		log.Warningf("SAN move not valid! SAN move %s not found on position: %s", sanMove, posPtr.StringFen())
	} else {
		return moveFromSAN
	}
	// no move found
	return MoveNone
}

// ValidateMove validates if a move is a valid move on the given position
func (mg *Movegen) ValidateMove(p *position.Position, move Move) bool {
	if move == MoveNone {
		return false
	}
	ml := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *ml {
		if move.MoveOf() == m {
			return true
		}
	}
	return false
}

// PvMove returns the current PV move
func (mg *Movegen) PvMove() Move {
	return mg.pvMove
}

// KillerMoves returns a pointer to the killer moves array
func (mg *Movegen) KillerMoves() *[2]Move {
	return &mg.killerMoves
}

// String returns a string representation of a MoveGen instance
func (mg *Movegen) String() string {
	return fmt.Sprintf("MoveGen: { OnDemand Stage: { %d }, PV Move: %s Killer Move 1: %s Killer Move 2: %s }",
		mg.currentODStage, mg.pvMove.String(), mg.killerMoves[0].String(), mg.killerMoves[1].String())
}

// //////////////////////////////////////////////////////
// // Private
// //////////////////////////////////////////////////////

// States for the on demand move generator
const (
	odNew = iota
	odPv  = iota
	od1   = iota
	od4   = iota
	od5   = iota
	odEnd = iota
)

// This calls the actual generation of moves in phases. Since generation is
// already legality-aware there is only one real capture phase and one real
// non-capture phase left (the old split across pawns/officers/king existed
// to interleave cheap pseudo-legal generators; the single pass generator
// does all piece types together so the phases mostly just gate on mode).
func (mg *Movegen) fillOnDemandMoveList(p *position.Position, mode GenMode, hasCheck bool) {
	for mg.onDemandMoves.Len() == 0 && mg.currentODStage < odEnd {
		switch mg.currentODStage {
		case odNew:
			mg.currentODStage = odPv
			fallthrough
		case odPv:
			// If a pvMove is set we return it first and filter it out before
			// returning a move
			if mg.pvMove != MoveNone {
				switch mode {
				case GenAll:
					mg.pvMovePushed = true
					mg.onDemandMoves.PushBack(mg.pvMove)
				case GenCap:
					if p.IsCapturingMove(mg.pvMove) {
						mg.pvMovePushed = true
						mg.onDemandMoves.PushBack(mg.pvMove)
					}
				case GenNonCap:
					if !p.IsCapturingMove(mg.pvMove) {
						mg.pvMovePushed = true
						mg.onDemandMoves.PushBack(mg.pvMove)
					}
				}
			}
			// decide which state we should continue with
			// captures or non captures or both
			if mode&GenCap != 0 {
				mg.currentODStage = od1
			} else {
				mg.currentODStage = od4
			}
		case od1: // captures (incl. capturing promotions; quiet promotions come in od5)
			mg.generate(p, GenCap, mg.onDemandMoves, hasCheck)
			if mode&GenNonCap != 0 {
				mg.currentODStage = od4
			} else {
				mg.currentODStage = odEnd
			}
		case od4:
			if mode&GenNonCap != 0 {
				mg.currentODStage = od5
			} else {
				mg.currentODStage = odEnd
			}
		case od5: // non captures
			mg.generate(p, GenNonCap, mg.onDemandMoves, hasCheck)
			mg.pushKiller(mg.onDemandMoves)
			mg.currentODStage = odEnd
		case odEnd:
			break
		}
		// sort the list according to sort values encoded in the move
		if mg.onDemandMoves.Len() > 0 {
			mg.onDemandMoves.Sort()
		}
	} // while onDemandMoves.empty()
}

func (mg *Movegen) pushKiller(m *moveslice.MoveSlice) {
	// Killer may only be returned if they actually are valid moves
	// in this position which we can't know as Killers are stored
	// for the whole ply. Obviously checking if the killer move is valid
	// is expensive (part of a whole move generation) so we only re-sort
	// them to the top once they are actually generated

	// Find the move in the list. If move not found ignore killer.
	// Otherwise bump its sort value to the front.
	for i := 0; i < len(*m); i++ {
		move := (*m)[i]
		switch move.MoveOf() {
		case mg.killerMoves[1]:
			(*m)[i] = move.WithSortValue(sortValueKiller2)
		case mg.killerMoves[0]:
			(*m)[i] = move.WithSortValue(sortValueKiller1)
		}
	}
}

// sort value buckets. A Move only has 10 spare bits (see move.go) once its
// identity is packed, so move ordering works with a compact clamped ordinal
// rather than a raw centipawn score.
const (
	sortValuePv      int32 = 1023
	sortValueKiller1 int32 = 1000
	sortValueKiller2 int32 = 999
	sortValueCastle  int32 = 40
)

// SortValue squashes a wide heuristic score (MVV-LVA deltas, positional
// bonuses, the -10000 baseline non-captures are given to sort them behind
// captures, search scores used to re-sort root moves) into the Move's
// 10 bit scratch field. Ordering is preserved by clamping, not by
// discarding precision unevenly.
func SortValue(v Value) int32 {
	const lo, hi = -12_000, 4_000
	x := int(v)
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return int32((x - lo) * 900 / (hi - lo))
}

// isSlider reports whether a piece type gives check along a ray, i.e.
// whether a check from it can be blocked.
func isSlider(pt PieceType) bool {
	return pt == Bishop || pt == Rook || pt == Queen
}

// squareAttacked reports whether sq is attacked by color by given a custom
// occupancy. Mirrors position.IsAttacked but takes the occupancy as a
// parameter so the king's own square can be excluded from it - needed to
// correctly forbid a king move that steps back along the same ray a slider
// is already checking it on.
func squareAttacked(p *position.Position, sq Square, by Color, occ Bitboard) bool {
	if GetPawnAttacks(by.Flip(), sq)&p.PiecesBb(by, Pawn) != 0 {
		return true
	}
	if GetPseudoAttacks(Knight, sq)&p.PiecesBb(by, Knight) != 0 {
		return true
	}
	if GetPseudoAttacks(King, sq)&p.PiecesBb(by, King) != 0 {
		return true
	}
	if GetAttacksBb(Rook, sq, occ)&(p.PiecesBb(by, Rook)|p.PiecesBb(by, Queen)) != 0 {
		return true
	}
	if GetAttacksBb(Bishop, sq, occ)&(p.PiecesBb(by, Bishop)|p.PiecesBb(by, Queen)) != 0 {
		return true
	}
	return false
}

// computePins ray-scans from the king along rook/queen and bishop/queen
// lines. A line with exactly one blocker, and that blocker is ours, means
// the blocker is pinned; it may only move along the ray between the king
// and the pinning slider (including capturing the slider itself).
func computePins(p *position.Position, kingSq Square, us, them Color) (pinned Bitboard, pinRay [SqLength]Bitboard) {
	occAll := p.OccupiedAll()
	ownBb := p.OccupiedBb(us)

	scan := func(sliders Bitboard) {
		for sliders != 0 {
			sliderSq := sliders.PopLsb()
			between := Intermediate(kingSq, sliderSq)
			blockers := between & occAll
			if blockers.PopCount() == 1 && blockers&ownBb != 0 {
				pinnedSq := blockers.Lsb()
				pinned |= pinnedSq.Bb()
				pinRay[pinnedSq] = between | sliderSq.Bb()
			}
		}
	}

	scan((p.PiecesBb(them, Rook) | p.PiecesBb(them, Queen)) & GetPseudoAttacks(Rook, kingSq))
	scan((p.PiecesBb(them, Bishop) | p.PiecesBb(them, Queen)) & GetPseudoAttacks(Bishop, kingSq))
	return pinned, pinRay
}

// generate is the single entry point for move generation. It determines
// checkers once, derives the check mask and pins from them, and generates
// every piece type's moves directly into the legal set - no move is tried
// with DoMove/UndoMove just to see if it is legal.
func (mg *Movegen) generate(p *position.Position, mode GenMode, ml *moveslice.MoveSlice, inCheck bool) {
	us := p.NextPlayer()
	them := us.Flip()
	kingSq := p.KingSquare(us)

	var checkers Bitboard
	if inCheck {
		checkers = attacks.AttacksTo(p, kingSq, them)
	}
	numCheckers := checkers.PopCount()

	mg.generateKingMoves(p, mode, ml, kingSq, us)

	if numCheckers >= 2 {
		// double check - only the king can move
		return
	}

	checkMask := BbAll
	if numCheckers == 1 {
		checkerSq := checkers.Lsb()
		checkMask = checkerSq.Bb()
		if isSlider(p.GetPiece(checkerSq).TypeOf()) {
			checkMask |= Intermediate(kingSq, checkerSq)
		}
	}

	pinned, pinRay := computePins(p, kingSq, us, them)

	mg.generatePawnMoves(p, mode, ml, checkMask, pinned, &pinRay, kingSq, us)
	mg.generateOfficerMoves(p, mode, ml, checkMask, pinned, &pinRay, us)

	if numCheckers == 0 {
		mg.generateCastling(p, mode, ml)
	}
}

func (mg *Movegen) generateKingMoves(p *position.Position, mode GenMode, ml *moveslice.MoveSlice, kingSq Square, us Color) {
	them := us.Flip()
	gamePhase := p.GamePhase()
	piece := MakePiece(us, King)
	occNoKing := p.OccupiedAll() &^ kingSq.Bb()
	ownBb := p.OccupiedBb(us)
	oppBb := p.OccupiedBb(them)

	destinations := GetPseudoAttacks(King, kingSq) &^ ownBb
	for destinations != 0 {
		toSquare := destinations.PopLsb()
		isCapture := oppBb.Has(toSquare)
		if isCapture && mode&GenCap == 0 {
			continue
		}
		if !isCapture && mode&GenNonCap == 0 {
			continue
		}
		if squareAttacked(p, toSquare, them, occNoKing) {
			continue
		}
		var value Value
		var m Move
		if isCapture {
			value = p.GetPiece(toSquare).ValueOf() - piece.ValueOf() + PosValue(piece, toSquare, gamePhase)
			m = CreateCapture(kingSq, toSquare, King)
		} else {
			value = Value(-10_000) + PosValue(piece, toSquare, gamePhase)
			m = CreateMove(kingSq, toSquare, King)
		}
		ml.PushBack(m.WithSortValue(SortValue(value)))
	}
}

func (mg *Movegen) generateCastling(p *position.Position, mode GenMode, ml *moveslice.MoveSlice) {
	if mode&GenNonCap == 0 {
		return
	}
	us := p.NextPlayer()
	them := us.Flip()
	cr := p.CastlingRights()
	if cr == CastlingNone {
		return
	}
	occAll := p.OccupiedAll()

	tryCastle := func(kingFrom, kingTo, rookFrom Square, right CastlingRights) {
		if !cr.Has(right) {
			return
		}
		if Intermediate(kingFrom, rookFrom)&occAll != 0 {
			return
		}
		path := Intermediate(kingFrom, kingTo) | kingTo.Bb()
		for path != 0 {
			sq := path.PopLsb()
			if squareAttacked(p, sq, them, occAll) {
				return
			}
		}
		ml.PushBack(CreateCastling(kingFrom, kingTo).WithSortValue(sortValueCastle))
	}

	if us == White {
		tryCastle(SqE1, SqG1, SqH1, CastlingWhiteOO)
		tryCastle(SqE1, SqC1, SqA1, CastlingWhiteOOO)
	} else {
		tryCastle(SqE8, SqG8, SqH8, CastlingBlackOO)
		tryCastle(SqE8, SqC8, SqA8, CastlingBlackOOO)
	}
}

// generates officers moves using the attacks pre-computed with magic bitboards
func (mg *Movegen) generateOfficerMoves(p *position.Position, mode GenMode, ml *moveslice.MoveSlice, checkMask, pinned Bitboard, pinRay *[SqLength]Bitboard, us Color) {
	gamePhase := p.GamePhase()
	occupiedBb := p.OccupiedAll()
	oppBb := p.OccupiedBb(us.Flip())

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.PiecesBb(us, pt)
		piece := MakePiece(us, pt)

		for pieces != 0 {
			fromSquare := pieces.PopLsb()

			allowed := checkMask
			if pinned.Has(fromSquare) {
				allowed &= pinRay[fromSquare]
			}
			moves := GetAttacksBb(pt, fromSquare, occupiedBb) & allowed

			// captures
			if mode&GenCap != 0 {
				captures := moves & oppBb
				for captures != 0 {
					toSquare := captures.PopLsb()
					value := p.GetPiece(toSquare).ValueOf() - piece.ValueOf() + PosValue(piece, toSquare, gamePhase)
					ml.PushBack(CreateCapture(fromSquare, toSquare, pt).WithSortValue(SortValue(value)))
				}
			}

			// non captures
			if mode&GenNonCap != 0 {
				nonCaptures := moves &^ occupiedBb
				for nonCaptures != 0 {
					toSquare := nonCaptures.PopLsb()
					value := Value(-10_000) + PosValue(piece, toSquare, gamePhase)
					ml.PushBack(CreateMove(fromSquare, toSquare, pt).WithSortValue(SortValue(value)))
				}
			}
		}
	}
}

func (mg *Movegen) generatePawnMoves(p *position.Position, mode GenMode, ml *moveslice.MoveSlice, checkMask, pinned Bitboard, pinRay *[SqLength]Bitboard, kingSq Square, us Color) {
	them := us.Flip()
	myPawns := p.PiecesBb(us, Pawn)
	oppPieces := p.OccupiedBb(them)
	occAll := p.OccupiedAll()
	gamePhase := p.GamePhase()
	piece := MakePiece(us, Pawn)
	moveDir := Direction(us.MoveDirection())
	backDir := Direction(them.MoveDirection())

	allowedFrom := func(sq Square) Bitboard {
		if pinned.Has(sq) {
			return checkMask & (*pinRay)[sq]
		}
		return checkMask
	}

	// All moves get sort values so that sort order should be:
	//   captures: most value victim least value attacker - promotion piece value
	//   non captures: killer (set later), queen/knight promotions, positional
	//   value, castling (fixed sortValueCastle), rook/bishop promotions
	// Values are descending - the most valuable move has the highest value.
	// Values are not compatible to position evaluation values outside of the
	// move generator.

	if mode&GenCap != 0 {
		for _, dir := range []Direction{West, East} {
			captures := ShiftBitboard(myPawns, moveDir*North+dir) & oppPieces
			for captures != 0 {
				toSquare := captures.PopLsb()
				fromSquare := toSquare.To(backDir*North - dir)
				if !allowedFrom(fromSquare).Has(toSquare) {
					continue
				}
				value := p.GetPiece(toSquare).ValueOf() - piece.ValueOf() + PosValue(piece, toSquare, gamePhase)
				if us.PromotionRankBb().Has(toSquare) {
					ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Queen, true).WithSortValue(SortValue(value + Queen.ValueOf())))
					ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Knight, true).WithSortValue(SortValue(value + Knight.ValueOf())))
					ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Rook, true).WithSortValue(SortValue(value + Rook.ValueOf() - 2000)))
					ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Bishop, true).WithSortValue(SortValue(value + Bishop.ValueOf() - 2000)))
				} else {
					ml.PushBack(CreateCapture(fromSquare, toSquare, Pawn).WithSortValue(SortValue(value)))
				}
			}
		}

		// en passant - a capture can both resolve a check (if the checker is
		// the pawn being captured) and be pinned along the rank it shares
		// with the king, which the normal pin scan never sees because the
		// pinned piece (the capturing pawn) is not between king and slider
		// until the captured pawn also disappears from the rank.
		epSquare := p.GetEnPassantSquare()
		if epSquare != SqNone {
			for _, dir := range []Direction{West, East} {
				attackers := ShiftBitboard(epSquare.Bb(), backDir*North+dir) & myPawns
				if attackers == 0 {
					continue
				}
				fromSquare := attackers.Lsb()
				capturedSq := epSquare.To(backDir)

				evadesCheck := checkMask.Has(epSquare) || checkMask.Has(capturedSq)
				if !evadesCheck {
					continue
				}
				if pinned.Has(fromSquare) && !(*pinRay)[fromSquare].Has(epSquare) {
					continue
				}

				postCaptureOcc := occAll &^ fromSquare.Bb() &^ capturedSq.Bb() | epSquare.Bb()
				if GetAttacksBb(Rook, kingSq, postCaptureOcc)&(p.PiecesBb(them, Rook)|p.PiecesBb(them, Queen)) != 0 {
					continue
				}

				value := PosValue(piece, epSquare, gamePhase)
				ml.PushBack(CreateEnPassant(fromSquare, epSquare).WithSortValue(SortValue(value)))
			}
		}
	}

	if mode&GenNonCap != 0 {

		// single step to unoccupied squares
		singlePush := ShiftBitboard(myPawns, moveDir*North) &^ occAll
		// double step for pawns that could reach the double rank
		doublePush := ShiftBitboard(singlePush&us.PawnDoubleRank(), moveDir*North) &^ occAll

		// single pawn steps that promote
		promMoves := singlePush & us.PromotionRankBb()
		for promMoves != 0 {
			toSquare := promMoves.PopLsb()
			fromSquare := toSquare.To(backDir * North)
			if !allowedFrom(fromSquare).Has(toSquare) {
				continue
			}
			value := Value(-10_000)
			ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Queen, false).WithSortValue(SortValue(value + Queen.ValueOf())))
			ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Knight, false).WithSortValue(SortValue(value + Knight.ValueOf())))
			ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Rook, false).WithSortValue(SortValue(value + Rook.ValueOf() - 2000)))
			ml.PushBack(CreatePromotion(fromSquare, toSquare, Pawn, Bishop, false).WithSortValue(SortValue(value + Bishop.ValueOf() - 2000)))
		}

		// double pawn steps
		for doublePush != 0 {
			toSquare := doublePush.PopLsb()
			fromSquare := toSquare.To(backDir * North).To(backDir * North)
			if !allowedFrom(fromSquare).Has(toSquare) {
				continue
			}
			value := Value(-10_000) + PosValue(piece, toSquare, gamePhase)
			ml.PushBack(CreateDoublePawnPush(fromSquare, toSquare).WithSortValue(SortValue(value)))
		}

		// normal single pawn steps
		singlePush &= ^us.PromotionRankBb()
		for singlePush != 0 {
			toSquare := singlePush.PopLsb()
			fromSquare := toSquare.To(backDir * North)
			if !allowedFrom(fromSquare).Has(toSquare) {
				continue
			}
			value := Value(-10_000) + PosValue(piece, toSquare, gamePhase)
			ml.PushBack(CreateMove(fromSquare, toSquare, Pawn).WithSortValue(SortValue(value)))
		}
	}
}
