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

// Package openingbook reads game databases of different formats into an
// internal data structure keyed by Zobrist hash. It can then be queried
// for a book move on a given position.
//
// Supported formats:
//
// Simple: one game per line, moves in from-square/to-square UCI notation.
//
// San: one game per line, moves in SAN notation.
//
// Pgn: PGN formatted games (metadata ignored, only the move section is read).
package openingbook

import (
	"bufio"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/climbus/chego/internal/logging"
	"github.com/climbus/chego/internal/movegen"
	"github.com/climbus/chego/internal/position"
	. "github.com/climbus/chego/internal/types"
)

var out = message.NewPrinter(language.German)
var log = logging.GetLog()

// parallel controls whether line/game processing fans out across
// goroutines. Left as a const switch for debugging single-threaded runs.
const parallel = true

// BookFormat identifies the textual format a book file is stored in.
type BookFormat uint8

// Supported book formats.
const (
	Simple BookFormat = iota
	San
	Pgn
)

// FormatFromString maps a config-file format name to a BookFormat.
var FormatFromString = map[string]BookFormat{
	"Simple": Simple,
	"San":    San,
	"Pgn":    Pgn,
}

// Successor is a move together with the Zobrist key of the position it
// leads to.
type Successor struct {
	Move      uint32
	NextEntry uint64
}

// BookEntry describes exactly one position by its Zobrist key, how often
// it was reached while reading the book, and the moves known to follow it.
type BookEntry struct {
	ZobristKey uint64
	Counter    int
	Moves      []Successor
}

// Book is an in-memory opening book keyed by Zobrist hash, built by
// reading one or more game database files.
type Book struct {
	bookMap     map[uint64]BookEntry
	rootEntry   uint64
	initialized bool
}

// NewBook returns an empty, uninitialized Book.
func NewBook() *Book {
	return &Book{}
}

var bookLock sync.Mutex

// Initialize reads bookFile (or, if bookFile is empty, treats bookPath
// itself as the file) in the given format into the book. If useCache is
// set and a ".cache" sibling file exists, it is loaded instead unless
// recreateCache forces a fresh read.
func (b *Book) Initialize(bookPath string, bookFile string, bookFormat BookFormat, useCache bool, recreateCache bool) error {
	if b.initialized {
		return nil
	}

	path := bookPath
	if bookFile != "" {
		path = filepath.Join(bookPath, bookFile)
	}

	log.Info("Initializing opening book")
	startTotal := time.Now()

	if _, err := os.Stat(path); err != nil {
		log.Errorf("File \"%s\" does not exist\n", path)
		return err
	}

	if useCache && !recreateCache {
		startReading := time.Now()
		hasCache, err := b.loadFromCache(path)
		elapsedReading := time.Since(startReading)
		if err != nil {
			log.Warningf("Cache could not be loaded. Reading original data from \"%s\"", path)
		}
		if hasCache {
			log.Infof("Finished reading cache from file in: %d ms\n", elapsedReading.Milliseconds())
			log.Infof("Book from cache file contains %d entries\n", len(b.bookMap))
			b.initialized = true
			return nil
		}
	}

	log.Infof("Reading opening book file: %s\n", path)
	startReading := time.Now()
	lines, err := b.readFile(path)
	if err != nil {
		log.Errorf("File \"%s\" could not be read: %s\n", path, err)
		return err
	}
	elapsedReading := time.Since(startReading)
	log.Infof("Finished reading %d lines from file in: %d ms\n", len(*lines), elapsedReading.Milliseconds())

	startPosition := position.NewPosition()
	b.bookMap = make(map[uint64]BookEntry)
	b.rootEntry = uint64(startPosition.ZobristKey())
	b.bookMap[b.rootEntry] = BookEntry{ZobristKey: b.rootEntry, Counter: 0, Moves: []Successor{}}

	if parallel {
		log.Infof("Processing %d lines in parallel with format: %v\n", len(*lines), bookFormat)
	} else {
		log.Infof("Processing %d lines sequentially with format: %v\n", len(*lines), bookFormat)
	}
	startProcessing := time.Now()
	if err := b.process(lines, bookFormat); err != nil {
		log.Errorf("Error while processing: %s\n", err)
		return err
	}
	elapsedProcessing := time.Since(startProcessing)
	log.Infof("Finished processing %d lines in: %d ms\n", len(*lines), elapsedProcessing.Milliseconds())

	elapsedTotal := time.Since(startTotal)
	log.Infof("Book contains %d entries\n", len(b.bookMap))
	log.Infof("Total initialization time: %d ms\n", elapsedTotal.Milliseconds())

	if useCache {
		log.Infof("Saving to cache...")
		startSave := time.Now()
		cacheFile, nBytes, err := b.saveToCache(path)
		if err != nil {
			log.Errorf("Error while saving to cache: %s\n", err)
		}
		elapsedSave := time.Since(startSave)
		log.Infof("Saved %s kB to cache %s in %d ms\n", out.Sprintf("%d", nBytes/1_024), cacheFile, elapsedSave.Milliseconds())
	}

	b.initialized = true
	return nil
}

// NumberOfEntries returns the number of positions stored in the book.
func (b *Book) NumberOfEntries() int {
	return len(b.bookMap)
}

// GetEntry returns the book entry for a Zobrist key, if known.
func (b *Book) GetEntry(key position.Key) (BookEntry, bool) {
	entry, ok := b.bookMap[uint64(key)]
	return entry, ok
}

// Reset clears the book so it can be initialized again.
func (b *Book) Reset() {
	b.bookMap = map[uint64]BookEntry{}
	b.rootEntry = 0
	b.initialized = false
}

func (b *Book) readFile(bookPath string) (*[]string, error) {
	f, err := os.Open(bookPath)
	if err != nil {
		log.Errorf("File \"%s\" could not be read: %s\n", bookPath, err)
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("File \"%s\" could not be closed: %s\n", bookPath, err)
		}
	}()
	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		log.Errorf("Error while reading file \"%s\": %s\n", bookPath, err)
		return nil, err
	}
	return &lines, nil
}

func (b *Book) process(lines *[]string, format BookFormat) error {
	switch format {
	case Simple:
		b.processSimple(lines)
	case San:
		b.processSan(lines)
	case Pgn:
		b.processPgn(lines)
	}
	return nil
}

func (b *Book) processSimple(lines *[]string) {
	if parallel {
		var wg sync.WaitGroup
		wg.Add(len(*lines))
		for _, line := range *lines {
			go func(line string) {
				defer wg.Done()
				b.processSimpleLine(line)
			}(line)
		}
		wg.Wait()
	} else {
		for _, line := range *lines {
			b.processSimpleLine(line)
		}
	}
}

var regexSimpleUciMove = regexp.MustCompile("([a-h][1-8][a-h][1-8])")

func (b *Book) processSimpleLine(line string) {
	line = strings.TrimSpace(line)
	matches := regexSimpleUciMove.FindAllString(line, -1)
	if len(matches) == 0 {
		return
	}

	pos := position.NewPosition()
	b.bumpRootCounter()

	mg := movegen.NewMoveGen()
	for _, moveString := range matches {
		if err := b.processSingleMove(moveString, mg, pos); err != nil {
			break
		}
	}
}

func (b *Book) processSan(lines *[]string) {
	if parallel {
		var wg sync.WaitGroup
		wg.Add(len(*lines))
		for _, line := range *lines {
			go func(line string) {
				defer wg.Done()
				b.processSanLine(line)
			}(line)
		}
		wg.Wait()
	} else {
		for _, line := range *lines {
			b.processSanLine(line)
		}
	}
}

var regexResult = regexp.MustCompile(`((1-0)|(0-1)|(1/2-1/2)|(\*))$`)

func (b *Book) processPgn(lines *[]string) {
	var gamesSlices [][]string
	start := 0
	for i, l := range *lines {
		l = strings.TrimSpace(l)
		if regexResult.MatchString(l) {
			end := i + 1
			gamesSlices = append(gamesSlices, (*lines)[start:end])
			start = end
		}
	}
	log.Infof("Found %d games in PGN file\n", len(gamesSlices))

	if parallel {
		var wg sync.WaitGroup
		wg.Add(len(gamesSlices))
		for _, gs := range gamesSlices {
			go func(gs []string) {
				defer wg.Done()
				b.processPgnGame(gs)
			}(gs)
		}
		wg.Wait()
	} else {
		for _, gs := range gamesSlices {
			b.processPgnGame(gs)
		}
	}
}

var (
	regexTrailingComments = regexp.MustCompile(";.*$")
	regexTagPairs         = regexp.MustCompile(`\[\w+ +".*?"\]`)
	regexNagAnnotation    = regexp.MustCompile(`(\$\d{1,3})`)
	regexBracketComments  = regexp.MustCompile(`{[^{}]*}`)
	regexReservedSymbols  = regexp.MustCompile(`<[^<>]*>`)
	regexRavVariants      = regexp.MustCompile(`\([^()]*\)`)
)

func (b *Book) processPgnGame(gameSlice []string) {
	var moveLine strings.Builder
	for _, l := range gameSlice {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "%") {
			continue
		}
		l = regexTagPairs.ReplaceAllString(l, "")
		l = regexResult.ReplaceAllString(l, "")
		l = regexTrailingComments.ReplaceAllString(l, "")
		l = strings.TrimSpace(l)
		if len(l) == 0 {
			continue
		}
		moveLine.WriteString(" ")
		moveLine.WriteString(l)
	}
	line := moveLine.String()

	line = regexNagAnnotation.ReplaceAllString(line, " ")
	line = regexBracketComments.ReplaceAllString(line, " ")
	line = regexReservedSymbols.ReplaceAllString(line, " ")
	for regexRavVariants.MatchString(line) {
		line = regexRavVariants.ReplaceAllString(line, " ")
	}

	b.processSanLine(line)
}

var (
	regexSanLineStart           = regexp.MustCompile(`^\d+\. ?`)
	regexSanLineCleanUpNumbers  = regexp.MustCompile(`(\d+\.{1,3} ?)`)
	regexSanLineCleanUpResults  = regexp.MustCompile(`(1/2|1|0)-(1/2|1|0)`)
	regexWhiteSpace             = regexp.MustCompile(`\s+`)
)

func (b *Book) processSanLine(line string) {
	line = strings.TrimSpace(line)
	if !regexSanLineStart.MatchString(line) {
		return
	}

	line = regexSanLineCleanUpNumbers.ReplaceAllString(line, "")
	line = regexSanLineCleanUpResults.ReplaceAllString(line, "")
	line = strings.TrimSpace(line)

	moveStrings := regexWhiteSpace.Split(line, -1)
	if len(moveStrings) == 0 {
		return
	}

	pos := position.NewPosition()
	b.bumpRootCounter()

	mg := movegen.NewMoveGen()
	for _, moveString := range moveStrings {
		if err := b.processSingleMove(moveString, mg, pos); err != nil {
			log.Warningf("Move not valid %s on %s", moveString, pos.StringFen())
			break
		}
	}
}

func (b *Book) bumpRootCounter() {
	bookLock.Lock()
	defer bookLock.Unlock()
	e, found := b.bookMap[b.rootEntry]
	if !found {
		panic("root entry of book map not found")
	}
	e.Counter++
	b.bookMap[b.rootEntry] = e
}

var (
	regexUciMove = regexp.MustCompile(`([a-h][1-8][a-h][1-8])([NBRQnbrq])?`)
	regexSanMove = regexp.MustCompile(`([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?`)
)

// processSingleMove parses s as either UCI or SAN notation, plays it on
// pos and records the resulting transition in the book.
func (b *Book) processSingleMove(s string, mg *movegen.Movegen, pos *position.Position) error {
	move := MoveNone
	switch {
	case regexUciMove.MatchString(s):
		move = mg.GetMoveFromUci(pos, s)
	case regexSanMove.MatchString(s):
		move = mg.GetMoveFromSan(pos, s)
	}
	if !move.IsValid() {
		return errors.New("invalid move " + s)
	}
	curPosKey := uint64(pos.ZobristKey())
	pos.DoMove(move)
	nextPosKey := uint64(pos.ZobristKey())
	b.addToBook(curPosKey, nextPosKey, uint32(move.MoveOf()))
	return nil
}

func (b *Book) addToBook(curPosKey uint64, nextPosKey uint64, move uint32) {
	bookLock.Lock()
	defer bookLock.Unlock()

	currentPosEntry, found := b.bookMap[curPosKey]
	if !found {
		log.Error("Could not find current position in book.")
		return
	}

	if nextPosEntry, found := b.bookMap[nextPosKey]; found {
		nextPosEntry.Counter++
		b.bookMap[nextPosKey] = nextPosEntry
		return
	}
	b.bookMap[nextPosKey] = BookEntry{ZobristKey: nextPosKey, Counter: 1, Moves: nil}
	currentPosEntry.Moves = append(currentPosEntry.Moves, Successor{Move: move, NextEntry: nextPosKey})
	b.bookMap[curPosKey] = currentPosEntry
}

func (b *Book) loadFromCache(bookPath string) (bool, error) {
	cachePath := bookPath + ".cache"

	decodeFile, err := os.Open(cachePath)
	if err != nil {
		return false, err
	}
	defer decodeFile.Close()

	decoder := gob.NewDecoder(decodeFile)
	bookLock.Lock()
	err = decoder.Decode(&b.bookMap)
	bookLock.Unlock()
	if err != nil {
		return false, err
	}

	p := position.NewPosition()
	b.rootEntry = uint64(p.ZobristKey())
	return true, nil
}

func (b *Book) saveToCache(bookPath string) (string, int64, error) {
	cachePath := bookPath + ".cache"

	encodeFile, err := os.Create(cachePath)
	if err != nil {
		return cachePath, 0, err
	}

	enc := gob.NewEncoder(encodeFile)
	bookLock.Lock()
	err = enc.Encode(b.bookMap)
	bookLock.Unlock()
	if err != nil {
		return cachePath, 0, err
	}

	if err := encodeFile.Close(); err != nil {
		return cachePath, 0, err
	}

	fileInfo, _ := os.Stat(cachePath)
	return cachePath, fileInfo.Size(), nil
}
