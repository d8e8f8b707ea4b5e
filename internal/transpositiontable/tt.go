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

// Package transpositiontable implements a lock-free transposition table for
// a chess engine search. Every slot is two atomic 64-bit words, a data word
// and a key word holding hash XOR data, so a reader can detect a torn read
// from a concurrent writer without ever taking a lock: Probe and Put are
// both safe to call from many search goroutines at once. Resize and Clear
// are not part of that contract and must not run concurrently with a search.
package transpositiontable

import (
	"math"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/climbus/chego/internal/logging"
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
	"github.com/climbus/chego/internal/util"
)

var out = message.NewPrinter(language.German)

const (
	// MaxSizeInMB maximal memory usage of tt
	MaxSizeInMB = 65_536
)

// ttSlot is one lock-free transposition table slot: a data word and the
// hash it belongs to, XORed together. A slot is "empty" when both words
// read back as zero.
type ttSlot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

// TtTable is the actual transposition table object holding data and state.
// Create with NewTtTable(). Probe and Put may be called concurrently from
// any number of goroutines; Resize and Clear may not.
type TtTable struct {
	log                *logging.Logger
	data               []ttSlot
	sizeInByte         uint64
	hashKeyMask        uint64
	maxNumberOfEntries uint64
	numberOfEntries    atomic.Uint64
	Stats              TtStats
}

// TtStats holds statistical data on tt usage. All counters are atomic so
// they can be bumped from concurrent Probe/Put calls without a lock.
type TtStats struct {
	numberOfPuts       atomic.Uint64
	numberOfCollisions atomic.Uint64
	numberOfOverwrites atomic.Uint64
	numberOfUpdates    atomic.Uint64
	numberOfProbes     atomic.Uint64
	numberOfHits       atomic.Uint64
	numberOfMisses     atomic.Uint64
}

// NewTtTable creates a new TtTable with the given number of MBytes
// as a maximum of memory usage. actual size will be determined
// by the number of elements fitting into this size which need
// to be a power of 2 for efficient hashing/addressing via bit
// masks.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := TtTable{
		log: myLogging.GetLog(),
	}
	tt.Resize(sizeInMByte)
	return &tt
}

// Resize resizes the tt table. All entries will be cleared. Must not be
// called while a search might concurrently Probe/Put.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("Requested size for TT of %d MB reduced to max of %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}

	// calculate the maximum power of 2 of entries fitting into the given size in MB
	tt.sizeInByte = uint64(sizeInMByte) * MB
	tt.maxNumberOfEntries = 1 << uint64(math.Floor(math.Log2(float64(tt.sizeInByte/TtEntrySize))))
	tt.hashKeyMask = tt.maxNumberOfEntries - 1 // --> 0x0001111....111

	// if TT is resized to 0 we cant have any entries.
	if tt.sizeInByte == 0 {
		tt.maxNumberOfEntries = 0
	}

	// calculate the real memory usage
	tt.sizeInByte = tt.maxNumberOfEntries * TtEntrySize

	// Create new slice/array - garbage collections takes care of cleanup
	tt.data = make([]ttSlot, tt.maxNumberOfEntries)
	tt.numberOfEntries.Store(0)
	tt.Stats = TtStats{}

	tt.log.Info(out.Sprintf("TT Size %d MByte, Capacity %d entries (size=%dByte) (Requested were %d MBytes)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(ttSlot{}), sizeInMByte))
	tt.log.Debug(util.MemStat())
}

// GetEntry returns the decoded entry for key and true if it is present.
// Does not change statistics.
func (tt *TtTable) GetEntry(key position.Key) (TtEntry, bool) {
	if tt.maxNumberOfEntries == 0 {
		return TtEntry{}, false
	}
	slot := &tt.data[tt.hash(key)]
	// data before key: a concurrent Put always writes key then data, so
	// reading in the opposite order can only ever observe a state that
	// fails the key^data==hash check below, never a torn-but-plausible one.
	data := slot.data.Load()
	k := slot.key.Load()
	if k^data == uint64(key) {
		return TtEntry{data: data}, true
	}
	return TtEntry{}, false
}

// Probe returns the decoded entry for key and true if it is present,
// updating hit/miss statistics.
func (tt *TtTable) Probe(key position.Key) (TtEntry, bool) {
	tt.Stats.numberOfProbes.Add(1)
	entry, ok := tt.GetEntry(key)
	if ok {
		tt.Stats.numberOfHits.Add(1)
		return entry, true
	}
	tt.Stats.numberOfMisses.Add(1)
	return TtEntry{}, false
}

// Put stores an entry for key, replacing whatever was there under a
// depth-preferred policy: an entry for the same position is always
// refreshed, a colliding entry from a different position is only
// overwritten if the new search went at least as deep as the old one.
func (tt *TtTable) Put(key position.Key, move Move, depth int8, value Value, valueType NodeType) {
	if tt.maxNumberOfEntries == 0 {
		return
	}

	slot := &tt.data[tt.hash(key)]
	tt.Stats.numberOfPuts.Add(1)

	oldData := slot.data.Load()
	oldKey := slot.key.Load()

	switch {
	case oldData == 0 && oldKey == 0:
		tt.numberOfEntries.Add(1)
	case oldKey^oldData == uint64(key):
		tt.Stats.numberOfUpdates.Add(1)
	default:
		tt.Stats.numberOfCollisions.Add(1)
		oldDepth := int8(uint8((oldData >> dataDepthShift) & dataDepthMask))
		if depth < oldDepth {
			return
		}
		tt.Stats.numberOfOverwrites.Add(1)
	}

	newData := packData(value, depth, move, valueType)
	// key first, then data: a reader between the two stores sees either
	// the fully old pair or a mix that fails the interlock check, never a
	// fully new pair that looks valid but is only half written.
	slot.key.Store(uint64(key) ^ newData)
	slot.data.Store(newData)
}

// Clear clears all entries of the tt. Must not be called while a search
// might concurrently Probe/Put.
func (tt *TtTable) Clear() {
	tt.data = make([]ttSlot, tt.maxNumberOfEntries)
	tt.numberOfEntries.Store(0)
	tt.Stats = TtStats{}
}

// Hashfull returns how full the transposition table is in permill as per UCI
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	return int((1000 * tt.numberOfEntries.Load()) / tt.maxNumberOfEntries)
}

// String returns a string representation of this TtTable instance
func (tt *TtTable) String() string {
	probes := tt.Stats.numberOfProbes.Load()
	hits := tt.Stats.numberOfHits.Load()
	misses := tt.Stats.numberOfMisses.Load()
	return out.Sprintf("TT: size %d MB max entries %d of size %d Bytes entries %d (%d%%) puts %d "+
		"updates %d collisions %d overwrites %d probes %d hits %d (%d%%) misses %d (%d%%)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(ttSlot{}), tt.numberOfEntries.Load(), tt.Hashfull()/10,
		tt.Stats.numberOfPuts.Load(), tt.Stats.numberOfUpdates.Load(), tt.Stats.numberOfCollisions.Load(), tt.Stats.numberOfOverwrites.Load(), probes,
		hits, (hits*100)/(1+probes),
		misses, (misses*100)/(1+probes))
}

// Len returns the number of non empty entries in the tt
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries.Load()
}

// NewGeneration marks the start of a new search. The lock-free entry word
// has no spare bits left for a per-entry age counter (score, depth, move
// and node type already fill all 64 bits), so staleness is handled purely
// by Put's depth-preferred replacement instead of an aging pass. What is
// still worth doing between searches is resyncing the occupancy counter -
// concurrent Put/Clear races during the previous search can drift it - by
// sweeping the table in parallel shards.
func (tt *TtTable) NewGeneration() {
	if tt.maxNumberOfEntries == 0 {
		return
	}
	startTime := time.Now()

	const shards = 32
	shardSize := tt.maxNumberOfEntries / shards
	counts := make([]uint64, shards)

	var g errgroup.Group
	for i := 0; i < shards; i++ {
		i := i
		g.Go(func() error {
			start := uint64(i) * shardSize
			end := start + shardSize
			if i == shards-1 {
				end = tt.maxNumberOfEntries
			}
			var c uint64
			for n := start; n < end; n++ {
				if tt.data[n].key.Load() != 0 || tt.data[n].data.Load() != 0 {
					c++
				}
			}
			counts[i] = c
			return nil
		})
	}
	_ = g.Wait()

	var total uint64
	for _, c := range counts {
		total += c
	}
	tt.numberOfEntries.Store(total)

	tt.log.Debug(out.Sprintf("Resynced %d entries of %d in %d ms\n", total, len(tt.data), time.Since(startTime).Milliseconds()))
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

// hash generates the internal hash key for the data array
func (tt *TtTable) hash(key position.Key) uint64 {
	return uint64(key) & tt.hashKeyMask
}
