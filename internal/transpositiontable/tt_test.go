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

package transpositiontable

import (
	"math/rand"
	"os"
	"path"
	"runtime"
	"testing"
	"time"
	"unsafe"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/climbus/chego/internal/config"
	"github.com/climbus/chego/internal/logging"
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

var logTest *logging2.Logger

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

// Setup the tests
func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

func TestSlotSize(t *testing.T) {
	var s ttSlot
	assert.EqualValues(t, TtEntrySize, unsafe.Sizeof(s))
}

func TestNew(t *testing.T) {
	tt := NewTtTable(2)
	assert.Equal(t, uint64(131_072), tt.maxNumberOfEntries)
	assert.Equal(t, 131_072, cap(tt.data))
	logTest.Debug(tt.String())

	tt = NewTtTable(64)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	tt = NewTtTable(100)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	tt = NewTtTable(4_096)
	assert.Equal(t, uint64(268_435_456), tt.maxNumberOfEntries)
	assert.Equal(t, 268_435_456, cap(tt.data))
}

func TestPackUnpack(t *testing.T) {
	move := CreateMove(SqE2, SqE4, Pawn)
	data := packData(Value(-1234), 7, move, NodeBeta)
	e := TtEntry{data: data}

	assert.EqualValues(t, -1234, e.Value())
	assert.EqualValues(t, 7, e.Depth())
	assert.Equal(t, NodeBeta, e.Vtype())
	assert.Equal(t, SqE2, e.fromSquare())
	assert.Equal(t, SqE4, e.toSquare())

	pos := position.NewPosition()
	assert.Equal(t, move, e.Move(pos))
}

func TestPackUnpackSpecialMoves(t *testing.T) {
	castling := CreateCastling(SqE1, SqG1)
	e := TtEntry{data: packData(0, 1, castling, NodeExact)}
	pos, err := position.NewPositionFen("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	assert.NoError(t, err)
	assert.Equal(t, castling, e.Move(pos))

	dpp := CreateDoublePawnPush(SqE2, SqE4)
	e = TtEntry{data: packData(0, 1, dpp, NodeExact)}
	pos2 := position.NewPosition()
	assert.Equal(t, dpp, e.Move(pos2))
}

func TestPackUnpackNoMove(t *testing.T) {
	data := packData(Value(42), 3, MoveNone, NodeExact)
	e := TtEntry{data: data}
	pos := position.NewPosition()
	assert.Equal(t, MoveNone, e.Move(pos))
}

func TestGetAndProbe(t *testing.T) {
	tt := NewTtTable(64)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)

	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Pawn)
	tt.Put(pos.ZobristKey(), move, 5, Value(17), NodeExact)

	e, found := tt.GetEntry(pos.ZobristKey())
	assert.True(t, found)
	assert.Equal(t, move, e.Move(pos))
	assert.EqualValues(t, 5, e.Depth())
	assert.EqualValues(t, 17, e.Value())
	assert.Equal(t, NodeExact, e.Vtype())

	e, found = tt.Probe(pos.ZobristKey())
	assert.True(t, found)
	assert.Equal(t, move, e.Move(pos))

	// not in tt
	pos.DoMove(move)
	_, found = tt.Probe(pos.ZobristKey())
	assert.False(t, found)
}

func TestClear(t *testing.T) {
	tt := NewTtTable(1)

	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Pawn)
	tt.Put(pos.ZobristKey(), move, 5, Value(17), NodeExact)

	_, found := tt.Probe(pos.ZobristKey())
	assert.True(t, found)
	assert.EqualValues(t, 1, tt.Len())

	tt.Clear()

	_, found = tt.Probe(pos.ZobristKey())
	assert.False(t, found)
	assert.EqualValues(t, 0, tt.Len())
}

func TestNewGeneration(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Pawn)
	for i := uint64(0); i < 1_000; i++ {
		tt.Put(position.Key(i), move, 1, Value(i), NodeExact)
	}
	before := tt.Len()
	assert.EqualValues(t, 1_000, before)

	tt.NewGeneration()
	assert.EqualValues(t, before, tt.Len())
}

func TestPut(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Pawn)

	// initial put
	tt.Put(111, move, 4, Value(111), NodeAlpha)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfPuts.Load())
	e, found := tt.Probe(111)
	assert.True(t, found)
	assert.EqualValues(t, 111, e.Value())
	assert.EqualValues(t, 4, e.Depth())
	assert.Equal(t, NodeAlpha, e.Vtype())

	// same key refreshes, not a collision
	tt.Put(111, move, 5, Value(112), NodeBeta)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfPuts.Load())
	assert.EqualValues(t, 1, tt.Stats.numberOfUpdates.Load())
	assert.EqualValues(t, 0, tt.Stats.numberOfCollisions.Load())
	e, found = tt.Probe(111)
	assert.True(t, found)
	assert.EqualValues(t, 112, e.Value())
	assert.EqualValues(t, 5, e.Depth())
	assert.Equal(t, NodeBeta, e.Vtype())

	// colliding key, deeper search overwrites
	collisionKey := position.Key(111 + tt.maxNumberOfEntries)
	tt.Put(collisionKey, move, 6, Value(113), NodeExact)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfCollisions.Load())
	assert.EqualValues(t, 1, tt.Stats.numberOfOverwrites.Load())
	e, found = tt.Probe(collisionKey)
	assert.True(t, found)
	assert.EqualValues(t, 113, e.Value())
	assert.EqualValues(t, 6, e.Depth())

	// colliding key, shallower search does not overwrite
	collisionKey2 := position.Key(111 + (tt.maxNumberOfEntries << 1))
	tt.Put(collisionKey2, move, 4, Value(114), NodeBeta)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfCollisions.Load())
	assert.EqualValues(t, 1, tt.Stats.numberOfOverwrites.Load())
	_, found = tt.Probe(collisionKey2)
	assert.False(t, found)
	e, found = tt.Probe(collisionKey)
	assert.True(t, found)
	assert.EqualValues(t, 113, e.Value())
	assert.EqualValues(t, 6, e.Depth())
}

func TestTimingTTe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	tt := NewTtTable(1_024)
	move := CreateMove(SqE2, SqE4, Pawn)

	const rounds = 5
	const iterations uint64 = 50_000_000

	for r := 1; r <= rounds; r++ {
		out.Printf("Round %d\n", r)
		key := position.Key(rand.Uint64())
		depth := int8(rand.Int31n(128))
		value := Value(rand.Int31n(int32(ValueMax)))
		valueType := NodeType(rand.Int31n(4))
		start := time.Now()
		for i := uint64(0); i < iterations; i++ {
			tt.Put(key+position.Key(i), move, depth, value, valueType)
		}
		for i := uint64(0); i < iterations; i++ {
			key := position.Key(key + position.Key(2*i))
			_, _ = tt.Probe(key)
		}
		elapsed := time.Since(start)
		out.Println(tt.String())
		out.Printf("TimingTT took %d ns for %d iterations (1 put 1 probe)\n", elapsed.Nanoseconds(), iterations)
		out.Printf("1 put/probes in %d ns: %d tts\n",
			elapsed.Nanoseconds()/int64(iterations),
			(iterations*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()))
	}
}
