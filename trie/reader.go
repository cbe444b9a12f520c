package trie

import (
	"github.com/kseo/go-merkle-trie/core/types"
	"github.com/kseo/go-merkle-trie/crypto"
)

// Reader is a read-only view of a trie at a fixed root. It walks the store
// directly and never consults a node cache.
type Reader struct {
	db   HashStore
	root types.Hash
}

// NewReader opens a read-only trie over the given root. It fails with an
// InvalidStateRootError if the root is neither EmptyRoot nor present in
// the store.
func NewReader(db HashStore, root types.Hash) (*Reader, error) {
	if root != EmptyRoot && !db.Contains(root) {
		return nil, &InvalidStateRootError{Root: root}
	}
	return &Reader{db: db, root: root}, nil
}

// Root returns the root digest this reader is fixed to.
func (r *Reader) Root() types.Hash { return r.root }

// Get returns the value stored under key, or nil if the key is absent.
func (r *Reader) Get(key []byte) ([]byte, error) {
	if r.root == EmptyRoot {
		return nil, nil
	}
	path := NewNibbleSlice(crypto.Blake256(key))
	return r.get(path, r.root)
}

func (r *Reader) get(path NibbleSlice, hash types.Hash) ([]byte, error) {
	data, ok := r.db.Get(hash)
	if !ok {
		return nil, &IncompleteDatabaseError{Missing: hash}
	}
	switch n := decodeNode(data).(type) {
	case *Leaf:
		if n.Path.Equal(path) {
			return n.Value, nil
		}
		return nil, nil
	case *Branch:
		if !path.StartsWith(n.Path) || path.Len() == n.Path.Len() {
			return nil, nil
		}
		suffix := path.Mid(n.Path.Len())
		child := n.Children[suffix.At(0)]
		if child == nil {
			return nil, nil
		}
		return r.get(suffix.Mid(1), *child)
	default:
		return nil, nil
	}
}

// IsComplete reports whether every node reachable from the root exists in
// the store.
func (r *Reader) IsComplete() bool {
	if r.root == EmptyRoot {
		return true
	}
	return r.isComplete(r.root)
}

func (r *Reader) isComplete(hash types.Hash) bool {
	data, ok := r.db.Get(hash)
	if !ok {
		return false
	}
	if n, ok := decodeNode(data).(*Branch); ok {
		for _, child := range n.Children {
			if child != nil && !r.isComplete(*child) {
				return false
			}
		}
	}
	return true
}
