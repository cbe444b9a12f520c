package trie

import (
	"fmt"
	"strings"

	"github.com/kseo/go-merkle-trie/core/types"
)

// Node is the interface implemented by the two trie node variants.
type Node interface {
	// Partial returns the node's prefix: the nibbles this node consumes
	// on the way from its position down to its payload.
	Partial() NibbleSlice

	// Mid returns the same node with the first k nibbles of its prefix
	// dropped. Used when a node is re-rooted under a new parent that
	// absorbs part of its prefix.
	Mid(k int) Node
}

// Leaf terminates a path and carries the stored value. Its prefix is the
// remainder of the 64-nibble key path below the leaf's position.
type Leaf struct {
	Path  NibbleSlice
	Value []byte
}

// Branch is an interior node: a shared prefix followed by a 16-way fan-out
// keyed on the next nibble. A branch carries no value; empty child slots
// are nil.
type Branch struct {
	Path     NibbleSlice
	Children [16]*types.Hash
}

func (n *Leaf) Partial() NibbleSlice   { return n.Path }
func (n *Branch) Partial() NibbleSlice { return n.Path }

func (n *Leaf) Mid(k int) Node {
	return &Leaf{Path: n.Path.Mid(k), Value: n.Value}
}

func (n *Branch) Mid(k int) Node {
	return &Branch{Path: n.Path.Mid(k), Children: n.Children}
}

func (n *Leaf) String() string {
	return fmt.Sprintf("Leaf - path(%x), value(%x)", n.Path.ToNibbles(), n.Value)
}

func (n *Branch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Branch - path(%x)", n.Path.ToNibbles())
	for i, child := range n.Children {
		if child != nil {
			fmt.Fprintf(&b, "\nchild %d - hash(%s)", i, child.Hex())
		}
	}
	return b.String()
}

// emptyChildren returns a fresh all-empty child array.
func emptyChildren() [16]*types.Hash {
	return [16]*types.Hash{}
}
