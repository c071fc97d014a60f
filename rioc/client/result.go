package client

import (
	"github.com/hpkv-io/rioc-go/rioc/common"
)

// --------------------------------------------------------------------------
// Result Slots
// --------------------------------------------------------------------------

// ResultKind tags the payload variant of a result slot. The variant is
// determined by the originating command, never guessed from the bytes.
type ResultKind uint8

const (
	// ResultNone - Insert, Delete, or any failed operation
	ResultNone ResultKind = iota
	// ResultBytes - opaque value of a Get
	ResultBytes
	// ResultCounter - post-operation value of an AtomicIncDec
	ResultCounter
	// ResultRange - ordered entries of a RangeQuery
	ResultRange
)

// String returns the string representation of a ResultKind.
func (k ResultKind) String() string {
	switch k {
	case ResultNone:
		return "none"
	case ResultBytes:
		return "bytes"
	case ResultCounter:
		return "counter"
	case ResultRange:
		return "range"
	default:
		return "unknown"
	}
}

// RangeEntry is one key-value pair of a range query result.
type RangeEntry struct {
	Key   []byte
	Value []byte
}

// OpResult is the per-operation result slot. Exactly one payload field is
// populated, selected by Kind.
type OpResult struct {
	Status  common.Status
	Kind    ResultKind
	Bytes   []byte
	Counter int64
	Range   []RangeEntry
}
