package trie

import (
	"github.com/kseo/go-merkle-trie/core/types"
	"github.com/kseo/go-merkle-trie/crypto"
)

// Trie is a mutable Merkle Patricia trie over a HashStore. It borrows the
// store and the caller's root slot exclusively for its lifetime; the root
// slot is overwritten once per successful mutation, so a mid-walk failure
// leaves the trie logically unchanged. A Trie must not be shared between
// goroutines.
type Trie struct {
	db    HashStore
	root  *types.Hash
	cache *nodeCache
}

// New creates an empty trie backed by db, resetting the root slot to
// EmptyRoot.
func New(db HashStore, root *types.Hash) *Trie {
	*root = EmptyRoot
	return &Trie{db: db, root: root, cache: newNodeCache(cacheSize)}
}

// FromExisting opens a trie at the root currently in the slot. It fails
// with an InvalidStateRootError if the store does not contain the root.
// EmptyRoot is accepted without a store lookup.
func FromExisting(db HashStore, root *types.Hash) (*Trie, error) {
	if *root != EmptyRoot && !db.Contains(*root) {
		return nil, &InvalidStateRootError{Root: *root}
	}
	return &Trie{db: db, root: root, cache: newNodeCache(cacheSize)}, nil
}

// Root returns the current root digest.
func (t *Trie) Root() types.Hash { return *t.root }

// IsEmpty reports whether the trie holds no entries.
func (t *Trie) IsEmpty() bool { return *t.root == EmptyRoot }

// Get returns the value stored under key, or nil if absent. Reads go
// through a fresh Reader over the current root and bypass the node cache.
func (t *Trie) Get(key []byte) ([]byte, error) {
	r, err := NewReader(t.db, *t.root)
	if err != nil {
		return nil, err
	}
	return r.Get(key)
}

// IsComplete reports whether every node reachable from the current root
// exists in the store.
func (t *Trie) IsComplete() bool {
	r, err := NewReader(t.db, *t.root)
	if err != nil {
		return false
	}
	return r.IsComplete()
}

// CacheStats returns the node cache counters for this handle.
func (t *Trie) CacheStats() CacheStats { return t.cache.stats() }

// Insert stores value under key and returns the previously stored value,
// or nil on first insertion. The key is hashed to its 64-nibble path; the
// walk rewrites every node on the path and lands the new root in the
// caller's slot.
func (t *Trie) Insert(key, value []byte) ([]byte, error) {
	path := NewNibbleSlice(crypto.Blake256(key))
	cur := *t.root

	var old []byte
	newRoot, err := t.insertAux(path, value, &cur, &old)
	if err != nil {
		return nil, err
	}
	*t.root = newRoot
	return old, nil
}

// Remove deletes key and returns the value it held, or nil if the key was
// absent. Removing the last key resets the root to EmptyRoot.
func (t *Trie) Remove(key []byte) ([]byte, error) {
	path := NewNibbleSlice(crypto.Blake256(key))
	cur := *t.root

	var old []byte
	newRoot, err := t.removeAux(path, &cur, &old)
	if err != nil {
		return nil, err
	}
	if newRoot != nil {
		*t.root = *newRoot
	} else {
		*t.root = EmptyRoot
	}
	return old, nil
}

// InsertRaw grafts an already-shaped node whose prefix is its path from the
// root. The input must be a well-formed subtree root whose path depth
// completes the trie's fixed 64-nibble geometry; a root-level leaf with any
// other depth is rejected. On exact-path collision with an existing leaf,
// the previously stored serialized node bytes are returned.
func (t *Trie) InsertRaw(n Node) ([]byte, error) {
	if l, ok := n.(*Leaf); ok && l.Path.Len() != 2*types.HashLength {
		return nil, ErrInvalidRawNode
	}
	cur := *t.root

	var old []byte
	newRoot, err := t.insertRawAux(n, &cur, &old)
	if err != nil {
		return nil, err
	}
	*t.root = newRoot
	return old, nil
}

// lookup reads node bytes through the cache, falling back to the store and
// populating the cache on a miss. EmptyRoot resolves to the canonical empty
// encoding without touching the store.
func (t *Trie) lookup(hash types.Hash) ([]byte, bool) {
	if hash == EmptyRoot {
		return emptyRLP, true
	}
	if data, ok := t.cache.get(hash); ok {
		return data, true
	}
	data, ok := t.db.Get(hash)
	if !ok {
		return nil, false
	}
	t.cache.add(hash, data)
	return data, true
}

// readNode is lookup with the missing digest reported as the failure.
func (t *Trie) readNode(hash types.Hash) ([]byte, error) {
	data, ok := t.lookup(hash)
	if !ok {
		return nil, &IncompleteDatabaseError{Missing: hash}
	}
	return data, nil
}

// writeNode stores encoded node bytes and mirrors them into the cache.
func (t *Trie) writeNode(enc []byte) types.Hash {
	hash := t.db.Put(enc)
	t.cache.add(hash, enc)
	return hash
}

// insertAux rewrites the subtree at cur so that path maps to value, and
// returns the digest of the rewritten subtree. cur is nil for an empty
// child slot. A previously stored value for the path is recorded in old.
func (t *Trie) insertAux(path NibbleSlice, value []byte, cur *types.Hash, old *[]byte) (types.Hash, error) {
	if cur == nil {
		return t.writeNode(encodeNode(&Leaf{Path: path, Value: value})), nil
	}
	data, err := t.readNode(*cur)
	if err != nil {
		return types.Hash{}, err
	}

	switch n := decodeNode(data).(type) {
	case *Leaf:
		if n.Path.Equal(path) {
			// Renew the leaf.
			*old = n.Value
			return t.writeNode(encodeNode(&Leaf{Path: path, Value: value})), nil
		}
		// Split: a branch over the shared head, with the old leaf and
		// the new value pushed one selector nibble down.
		common := n.Path.CommonPrefix(path)
		children := emptyChildren()
		oldPartial := n.Path.Mid(common)
		newPartial := path.Mid(common)

		h, err := t.insertAux(oldPartial.Mid(1), n.Value, children[oldPartial.At(0)], old)
		if err != nil {
			return types.Hash{}, err
		}
		children[oldPartial.At(0)] = &h

		h2, err := t.insertAux(newPartial.Mid(1), value, children[newPartial.At(0)], old)
		if err != nil {
			return types.Hash{}, err
		}
		children[newPartial.At(0)] = &h2

		branch := &Branch{Path: n.Path, Children: children}
		return t.writeNode(encodeNodeTruncated(branch, common)), nil

	case *Branch:
		common := n.Path.CommonPrefix(path)
		if common < n.Path.Len() {
			// The branch's own prefix diverges from the new path:
			// demote the existing subtree under a fresh branch that
			// keeps only the shared head.
			oldPartial := n.Path.Mid(common)
			newPartial := path.Mid(common)

			inner := &Branch{Path: oldPartial.Mid(1), Children: n.Children}
			innerHash := t.writeNode(encodeNode(inner))

			children := emptyChildren()
			children[oldPartial.At(0)] = &innerHash

			h, err := t.insertAux(newPartial.Mid(1), value, children[newPartial.At(0)], old)
			if err != nil {
				return types.Hash{}, err
			}
			children[newPartial.At(0)] = &h

			branch := &Branch{Path: n.Path, Children: children}
			return t.writeNode(encodeNodeTruncated(branch, common)), nil
		}
		// The new path runs through this branch's prefix.
		newPartial := path.Mid(common)
		idx := newPartial.At(0)
		h, err := t.insertAux(newPartial.Mid(1), value, n.Children[idx], old)
		if err != nil {
			return types.Hash{}, err
		}
		n.Children[idx] = &h
		return t.writeNode(encodeNode(n)), nil

	default:
		// Empty or undecodable slot: start a fresh leaf.
		return t.writeNode(encodeNode(&Leaf{Path: path, Value: value})), nil
	}
}

// insertRawAux mirrors insertAux for an already-shaped node: the inserted
// side recurses with the node's prefix trimmed past the consumed nibbles,
// preserving its variant. On collision with an existing leaf at the exact
// path, old captures the stored serialized node bytes.
func (t *Trie) insertRawAux(rn Node, cur *types.Hash, old *[]byte) (types.Hash, error) {
	path := rn.Partial()
	if cur == nil {
		return t.writeNode(encodeNode(rn)), nil
	}
	data, err := t.readNode(*cur)
	if err != nil {
		return types.Hash{}, err
	}

	switch n := decodeNode(data).(type) {
	case *Leaf:
		if n.Path.Equal(path) {
			*old = append([]byte(nil), data...)
			return t.writeNode(encodeNode(rn)), nil
		}
		common := n.Path.CommonPrefix(path)
		children := emptyChildren()
		oldPartial := n.Path.Mid(common)
		newPartial := path.Mid(common)

		h, err := t.insertAux(oldPartial.Mid(1), n.Value, children[oldPartial.At(0)], old)
		if err != nil {
			return types.Hash{}, err
		}
		children[oldPartial.At(0)] = &h

		h2, err := t.insertRawAux(rn.Mid(common+1), children[newPartial.At(0)], old)
		if err != nil {
			return types.Hash{}, err
		}
		children[newPartial.At(0)] = &h2

		branch := &Branch{Path: n.Path, Children: children}
		return t.writeNode(encodeNodeTruncated(branch, common)), nil

	case *Branch:
		common := n.Path.CommonPrefix(path)
		if common < n.Path.Len() {
			oldPartial := n.Path.Mid(common)
			newPartial := path.Mid(common)

			inner := &Branch{Path: oldPartial.Mid(1), Children: n.Children}
			innerHash := t.writeNode(encodeNode(inner))

			children := emptyChildren()
			children[oldPartial.At(0)] = &innerHash

			h, err := t.insertRawAux(rn.Mid(common+1), children[newPartial.At(0)], old)
			if err != nil {
				return types.Hash{}, err
			}
			children[newPartial.At(0)] = &h

			branch := &Branch{Path: n.Path, Children: children}
			return t.writeNode(encodeNodeTruncated(branch, common)), nil
		}
		newPartial := path.Mid(common)
		idx := newPartial.At(0)
		h, err := t.insertRawAux(rn.Mid(common+1), n.Children[idx], old)
		if err != nil {
			return types.Hash{}, err
		}
		n.Children[idx] = &h
		return t.writeNode(encodeNode(n)), nil

	default:
		return t.writeNode(encodeNode(rn)), nil
	}
}

// removeAux deletes path from the subtree at cur. It returns the digest of
// the rewritten subtree, or nil when the subtree becomes empty. A cur that
// does not contain the path is passed through unchanged, so a no-op remove
// leaves every digest on the walk identical.
func (t *Trie) removeAux(path NibbleSlice, cur *types.Hash, old *[]byte) (*types.Hash, error) {
	if cur == nil {
		return nil, nil
	}
	data, err := t.readNode(*cur)
	if err != nil {
		return nil, err
	}

	switch n := decodeNode(data).(type) {
	case *Leaf:
		if n.Path.Equal(path) {
			*old = n.Value
			return nil, nil
		}
		return cur, nil

	case *Branch:
		if !path.StartsWith(n.Path) || path.Len() == n.Path.Len() {
			return cur, nil
		}
		suffix := path.Mid(n.Path.Len())
		idx := suffix.At(0)

		child, err := t.removeAux(suffix.Mid(1), n.Children[idx], old)
		if err != nil {
			return nil, err
		}
		n.Children[idx] = child

		if child == nil {
			occupied, last := 0, 0
			for i, c := range n.Children {
				if c != nil {
					occupied++
					last = i
				}
			}
			switch occupied {
			case 0:
				// Nothing left below this branch.
				return nil, nil
			case 1:
				return t.collapse(n, last, *cur)
			}
		}
		h := t.writeNode(encodeNode(n))
		return &h, nil

	default:
		return cur, nil
	}
}

// collapse replaces a one-child branch by its remaining child, promoted
// with a prefix of parent prefix, selector nibble, and child prefix
// concatenated. The concatenation is materialized through nibble packing
// since the three fragments may be oddly aligned.
func (t *Trie) collapse(n *Branch, idx int, parent types.Hash) (*types.Hash, error) {
	childHash := *n.Children[idx]
	data, ok := t.lookup(childHash)
	if !ok {
		return nil, &IncompleteDatabaseError{Missing: parent}
	}

	child := decodeNode(data)
	if child == nil {
		return nil, &IncompleteDatabaseError{Missing: parent}
	}

	nibbles := append(n.Path.ToNibbles(), byte(idx))
	nibbles = append(nibbles, child.Partial().ToNibbles()...)
	packed, offset := packNibbles(nibbles)
	prefix := NewNibbleSliceOffset(packed, offset)

	var enc []byte
	switch child := child.(type) {
	case *Leaf:
		enc = encodeNode(&Leaf{Path: prefix, Value: child.Value})
	case *Branch:
		enc = encodeNode(&Branch{Path: prefix, Children: child.Children})
	}
	h := t.writeNode(enc)
	return &h, nil
}
