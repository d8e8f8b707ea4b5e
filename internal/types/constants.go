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

const (
	// MaxDepth is the maximum search depth supported by the PV and search arrays.
	MaxDepth = 128

	// MaxMoves is the maximum number of pseudo legal moves possible in any position.
	MaxMoves = 512

	// KB is 1024 bytes.
	KB uint64 = 1024

	// MB is KB * KB.
	MB uint64 = KB * KB

	// GB is KB * MB.
	GB uint64 = KB * MB

	// GamePhaseMax is the maximum game phase value used to taper between
	// midgame and endgame evaluation. Game phase is derived from the officers
	// remaining on the board, capped at this maximum.
	GamePhaseMax = 24
)
