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

// NodeType classifies a transposition table entry's value the way
// alpha-beta search bounds it: an exact score, a fail-low upper bound,
// or a fail-high lower bound.
type NodeType int8

// NodeType constants.
const (
	NodeNone  NodeType = 0
	NodeExact NodeType = 1
	NodeAlpha NodeType = 2 // upper bound
	NodeBeta  NodeType = 3 // lower bound
	nodeTypeLength int = 4
)

// IsValid checks if nt is one of the defined node types.
func (nt NodeType) IsValid() bool {
	return nt >= NodeNone && int(nt) < nodeTypeLength
}

var nodeTypeToString = [nodeTypeLength]string{"NoneValue", "ExactValue", "AlphaValue", "BetaValue"}

// String returns a human readable name for the node type.
func (nt NodeType) String() string {
	return nodeTypeToString[nt]
}
