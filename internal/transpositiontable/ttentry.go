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

package transpositiontable

import (
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

// A TT entry is packed into a single 64-bit word so it can be stored and
// loaded atomically without a lock. The layout leaves no spare bits:
//
//  0 -31   score              (32 bits, signed)
//  32-39   depth              (8 bits, signed)
//  40-47   move from square   (8 bits)
//  48-55   move to square     (8 bits)
//  56-58   promotion piece    (3 bits, PtNone means no promotion)
//  59-60   node type          (2 bits)
//  61      double pawn push
//  62      en passant capture
//  63      castling move
//
// There is no piece-type or capture bit: both are cheap to re-derive from
// the position the entry is probed against, and a from==to move (never
// legal) doubles as the "no move stored" sentinel.
const (
	TtEntrySize = 16 // two 64-bit words per slot: key, data

	dataScoreShift = 0
	dataDepthShift = 32
	dataFromShift  = 40
	dataToShift    = 48
	dataPromShift  = 56
	dataTypeShift  = 59
	dataDoublePush = 61
	dataEnPassant  = 62
	dataCastling   = 63

	dataScoreMask = uint64(0xFFFFFFFF)
	dataDepthMask = uint64(0xFF)
	dataSqMask    = uint64(0x3F)
	dataPromMask  = uint64(0x7)
	dataTypeMask  = uint64(0x3)
)

// packData builds the 64-bit data word for one transposition table entry.
func packData(value Value, depth int8, move Move, nodeType NodeType) uint64 {
	d := uint64(uint32(int32(value))) & dataScoreMask
	d |= uint64(uint8(depth)) << dataDepthShift
	if move != MoveNone {
		d |= uint64(move.From()) << dataFromShift
		d |= uint64(move.To()) << dataToShift
		d |= uint64(move.PromotionType()) << dataPromShift
		if move.IsDoublePawnPush() {
			d |= 1 << dataDoublePush
		}
		if move.IsEnPassant() {
			d |= 1 << dataEnPassant
		}
		if move.IsCastling() {
			d |= 1 << dataCastling
		}
	}
	d |= uint64(nodeType) << dataTypeShift
	return d
}

// TtEntry is a decoded view of one transposition table slot. It is a plain
// value, safe to copy and read after Probe/GetEntry has validated it.
type TtEntry struct {
	data uint64
}

// Value returns the stored search value (still mate-distance-from-root
// encoded, the caller is expected to re-base it to the current ply).
func (e TtEntry) Value() Value {
	return Value(int32(uint32(e.data & dataScoreMask)))
}

// Depth returns the search depth this entry was stored at.
func (e TtEntry) Depth() int8 {
	return int8(uint8((e.data >> dataDepthShift) & dataDepthMask))
}

// Vtype returns whether Value is exact or a lower/upper bound.
func (e TtEntry) Vtype() NodeType {
	return NodeType((e.data >> dataTypeShift) & dataTypeMask)
}

func (e TtEntry) fromSquare() Square {
	return Square((e.data >> dataFromShift) & dataSqMask)
}

func (e TtEntry) toSquare() Square {
	return Square((e.data >> dataToShift) & dataSqMask)
}

func (e TtEntry) promotionType() PieceType {
	return PieceType((e.data >> dataPromShift) & dataPromMask)
}

func (e TtEntry) isDoublePawnPush() bool {
	return e.data&(1<<dataDoublePush) != 0
}

func (e TtEntry) isEnPassant() bool {
	return e.data&(1<<dataEnPassant) != 0
}

func (e TtEntry) isCastling() bool {
	return e.data&(1<<dataCastling) != 0
}

// Move reconstructs the stored move against p, the position it was probed
// for. Piece type and capture status are never stored - they are read back
// off the board instead, which is always cheap and always correct for the
// position the entry was keyed on. Returns MoveNone if no move was stored,
// or if the move no longer makes sense on p (stale entry from a different
// position that happened to share a hash, or the square is simply empty).
func (e TtEntry) Move(p *position.Position) Move {
	from, to := e.fromSquare(), e.toSquare()
	if from == to {
		return MoveNone
	}
	pt := p.GetPiece(from).TypeOf()
	if pt == PtNone {
		return MoveNone
	}
	switch {
	case e.isCastling():
		return CreateCastling(from, to)
	case e.isEnPassant():
		return CreateEnPassant(from, to)
	case e.isDoublePawnPush():
		return CreateDoublePawnPush(from, to)
	}
	capture := p.GetPiece(to) != PieceNone
	if promo := e.promotionType(); promo != PtNone {
		return CreatePromotion(from, to, pt, promo, capture)
	}
	if capture {
		return CreateCapture(from, to, pt)
	}
	return CreateMove(from, to, pt)
}
