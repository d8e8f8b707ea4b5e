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

// Move is a 32 bit encoded chess move.
//
// Bit layout (bit 0 is the least significant bit):
//  0 - 5   start square       (6 bits)
//  6 - 11  target square      (6 bits)
//  12-14   piece type         (3 bits)
//  15-17   promotion type     (3 bits, PtNone means no promotion)
//  18      capture flag       (1 bit)
//  19      double pawn push   (1 bit)
//  20      en passant capture (1 bit)
//  21      castling move      (1 bit)
//  22-31   search sort value  (10 bits, not part of move identity)
//
// The sort value is scratch space used by move ordering during search;
// MoveOf strips it so two moves that only differ by sort value compare
// equal.
type Move uint32

// MoveNone represents the absence of a move.
const MoveNone Move = 0

const (
	startShift  = 0
	targetShift = 6
	pieceShift  = 12
	promShift   = 15
	captureBit  = 18
	doublePush  = 19
	enPassant   = 20
	castling    = 21
	sortShift   = 22

	squareMask = 0x3F
	pieceMask  = 0x7
	promMask   = 0x7
	identityMask Move = (1 << sortShift) - 1
)

// CreateMove builds a quiet, non-special move.
func CreateMove(from, to Square, pt PieceType) Move {
	return Move(from)<<startShift | Move(to)<<targetShift | Move(pt)<<pieceShift
}

// CreateCapture builds a capturing move.
func CreateCapture(from, to Square, pt PieceType) Move {
	return CreateMove(from, to, pt) | 1<<captureBit
}

// CreatePromotion builds a (possibly capturing) promotion move.
func CreatePromotion(from, to Square, pt, promType PieceType, isCapture bool) Move {
	m := CreateMove(from, to, pt) | Move(promType)<<promShift
	if isCapture {
		m |= 1 << captureBit
	}
	return m
}

// CreateDoublePawnPush builds a two-square pawn push.
func CreateDoublePawnPush(from, to Square) Move {
	return CreateMove(from, to, Pawn) | 1<<doublePush
}

// CreateEnPassant builds an en passant capture.
func CreateEnPassant(from, to Square) Move {
	return CreateMove(from, to, Pawn) | 1<<captureBit | 1<<enPassant
}

// CreateCastling builds a castling move; from/to are the king's squares.
func CreateCastling(from, to Square) Move {
	return CreateMove(from, to, King) | 1<<castling
}

// From returns the start square.
func (m Move) From() Square {
	return Square((m >> startShift) & squareMask)
}

// To returns the target square.
func (m Move) To() Square {
	return Square((m >> targetShift) & squareMask)
}

// PieceType returns the type of the moving piece.
func (m Move) PieceType() PieceType {
	return PieceType((m >> pieceShift) & pieceMask)
}

// PromotionType returns the promoted-to piece type, or PtNone.
func (m Move) PromotionType() PieceType {
	return PieceType((m >> promShift) & promMask)
}

// IsPromotion reports whether this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.PromotionType() != PtNone
}

// IsCapture reports whether this move captures a piece (including en passant).
func (m Move) IsCapture() bool {
	return m&(1<<captureBit) != 0
}

// IsDoublePawnPush reports whether this move is a two-square pawn push.
func (m Move) IsDoublePawnPush() bool {
	return m&(1<<doublePush) != 0
}

// IsEnPassant reports whether this move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&(1<<enPassant) != 0
}

// IsCastling reports whether this move is a castling move.
func (m Move) IsCastling() bool {
	return m&(1<<castling) != 0
}

// MoveOf strips the sort value, leaving only the bits that identify the move.
func (m Move) MoveOf() Move {
	return m & identityMask
}

// SortValue extracts the move-ordering scratch value (search-internal, not
// part of move identity).
func (m Move) SortValue() int32 {
	return int32(m >> sortShift)
}

// WithSortValue returns a copy of m with its sort value replaced. MoveNone
// is left untouched so it always compares equal to MoveNone.
func (m Move) WithSortValue(v int32) Move {
	if m == MoveNone {
		return m
	}
	return m.MoveOf() | Move(uint32(v)<<sortShift)
}

// MoveType classifies a move into the four shapes make/unmake must
// special-case. It is derived from the explicit flag bits, never stored
// separately, so it can never disagree with IsCastling/IsEnPassant/IsPromotion.
type MoveType int8

// MoveType constants.
const (
	Normal MoveType = iota
	Promotion
	EnPassant
	Castling
)

// MoveType reports which of the four make/unmake shapes this move is.
func (m Move) MoveType() MoveType {
	switch {
	case m.IsCastling():
		return Castling
	case m.IsEnPassant():
		return EnPassant
	case m.IsPromotion():
		return Promotion
	default:
		return Normal
	}
}

// IsValid does a cheap structural sanity check (not full legality).
func (m Move) IsValid() bool {
	if m == MoveNone {
		return false
	}
	return m.From().IsValid() && m.To().IsValid() && m.PieceType().IsValid() &&
		(m.PromotionType() == PtNone || m.PromotionType().IsValid())
}

// StringUci renders the move as UCI long algebraic notation (e.g. "e2e4",
// "e7e8q"). Kept distinct from String so callers that want the Stringer
// behaviour for %v/%s and callers that specifically want the UCI wire
// form both have a stable name to depend on.
func (m Move) StringUci() string {
	return m.String()
}

// String renders the move as UCI long algebraic notation (e.g. "e2e4",
// "e7e8q").
func (m Move) String() string {
	if m == MoveNone {
		return "no move"
	}
	var b strings.Builder
	b.WriteString(m.From().String())
	b.WriteString(m.To().String())
	if m.IsPromotion() {
		b.WriteString(strings.ToLower(m.PromotionType().Char()))
	}
	return b.String()
}
