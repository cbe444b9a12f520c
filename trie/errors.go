package trie

import (
	"errors"
	"fmt"

	"github.com/kseo/go-merkle-trie/core/types"
)

var (
	// ErrInvalidStateRoot is the category of InvalidStateRootError for
	// errors.Is matching.
	ErrInvalidStateRoot = errors.New("trie: invalid state root")

	// ErrIncompleteDatabase is the category of IncompleteDatabaseError
	// for errors.Is matching.
	ErrIncompleteDatabase = errors.New("trie: incomplete database")

	// ErrInvalidRawNode is returned by InsertRaw when the supplied node
	// cannot be a well-formed subtree root at the insertion point.
	ErrInvalidRawNode = errors.New("trie: raw node path depth mismatch")
)

// InvalidStateRootError is returned when a trie is opened on a root digest
// the store does not contain.
type InvalidStateRootError struct {
	Root types.Hash
}

func (e *InvalidStateRootError) Error() string {
	return fmt.Sprintf("trie: invalid state root %s", e.Root.Hex())
}

func (e *InvalidStateRootError) Unwrap() error { return ErrInvalidStateRoot }

// IncompleteDatabaseError is returned when a walk dereferences a digest
// that is absent from the store. The mutation is abandoned and the caller's
// root slot is left untouched. Missing is the absent digest, except when a
// removal collapses a branch whose remaining child cannot be read or decoded:
// then it is the digest of that branch.
type IncompleteDatabaseError struct {
	Missing types.Hash
}

func (e *IncompleteDatabaseError) Error() string {
	return fmt.Sprintf("trie: incomplete database, missing node %s", e.Missing.Hex())
}

func (e *IncompleteDatabaseError) Unwrap() error { return ErrIncompleteDatabase }
