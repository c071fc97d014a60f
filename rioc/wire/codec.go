package wire

import (
	"encoding/binary"

	"github.com/hpkv-io/rioc-go/rioc/common"
)

// --------------------------------------------------------------------------
// Header Structures
// --------------------------------------------------------------------------

// BatchHeader frames one batch transmission.
type BatchHeader struct {
	Magic   uint32
	Version uint16
	Count   uint16
	Flags   uint32
}

// OpHeader precedes the key (and optional value) of one operation.
// ValueLen is the raw server-interpreted length: value bytes for
// Insert/Get/AtomicIncDec, upper-bound key length for RangeQuery.
type OpHeader struct {
	Command   uint16
	KeyLen    uint16
	ValueLen  uint32
	Timestamp uint64
}

// ResponseHeader precedes each per-op response. Status is a signed code
// stored in an unsigned field; ValueLen is reinterpreted per command
// (payload bytes for Get/AtomicIncDec, entry count for RangeQuery).
type ResponseHeader struct {
	Status   uint32
	ValueLen uint32
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// AppendBatchHeader appends a batch header with the client's fixed magic,
// version and flags to dst and returns the extended slice.
func AppendBatchHeader(dst []byte, count uint16, flags uint32) []byte {
	dst = binary.NativeEndian.AppendUint32(dst, Magic)
	dst = binary.NativeEndian.AppendUint16(dst, Version)
	dst = binary.NativeEndian.AppendUint16(dst, count)
	dst = binary.NativeEndian.AppendUint32(dst, flags)
	return dst
}

// AppendOpHeader appends an encoded op header to dst.
func AppendOpHeader(dst []byte, h OpHeader) []byte {
	dst = binary.NativeEndian.AppendUint16(dst, h.Command)
	dst = binary.NativeEndian.AppendUint16(dst, h.KeyLen)
	dst = binary.NativeEndian.AppendUint32(dst, h.ValueLen)
	dst = binary.NativeEndian.AppendUint64(dst, h.Timestamp)
	return dst
}

// AppendResponseHeader appends an encoded response header to dst.
func AppendResponseHeader(dst []byte, h ResponseHeader) []byte {
	dst = binary.NativeEndian.AppendUint32(dst, h.Status)
	dst = binary.NativeEndian.AppendUint32(dst, h.ValueLen)
	return dst
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// ParseBatchHeader decodes and validates a batch header. A magic or version
// mismatch is a protocol error.
func ParseBatchHeader(b []byte) (BatchHeader, error) {
	if len(b) < BatchHeaderSize {
		return BatchHeader{}, common.Errorf(common.StatusProto, "short batch header (%d bytes)", len(b))
	}
	h := BatchHeader{
		Magic:   binary.NativeEndian.Uint32(b[0:4]),
		Version: binary.NativeEndian.Uint16(b[4:6]),
		Count:   binary.NativeEndian.Uint16(b[6:8]),
		Flags:   binary.NativeEndian.Uint32(b[8:12]),
	}
	if h.Magic != Magic {
		return BatchHeader{}, common.Errorf(common.StatusProto, "bad magic 0x%08X", h.Magic)
	}
	if h.Version != Version {
		return BatchHeader{}, common.Errorf(common.StatusProto, "unsupported version %d", h.Version)
	}
	return h, nil
}

// ParseOpHeader decodes an op header.
func ParseOpHeader(b []byte) (OpHeader, error) {
	if len(b) < OpHeaderSize {
		return OpHeader{}, common.Errorf(common.StatusProto, "short op header (%d bytes)", len(b))
	}
	return OpHeader{
		Command:   binary.NativeEndian.Uint16(b[0:2]),
		KeyLen:    binary.NativeEndian.Uint16(b[2:4]),
		ValueLen:  binary.NativeEndian.Uint32(b[4:8]),
		Timestamp: binary.NativeEndian.Uint64(b[8:16]),
	}, nil
}

// ParseResponseHeader decodes a response header.
func ParseResponseHeader(b []byte) (ResponseHeader, error) {
	if len(b) < ResponseHeaderSize {
		return ResponseHeader{}, common.Errorf(common.StatusProto, "short response header (%d bytes)", len(b))
	}
	return ResponseHeader{
		Status:   binary.NativeEndian.Uint32(b[0:4]),
		ValueLen: binary.NativeEndian.Uint32(b[4:8]),
	}, nil
}

// --------------------------------------------------------------------------
// Counter payloads
// --------------------------------------------------------------------------

// AppendCounter appends an 8-byte signed counter in native order.
func AppendCounter(dst []byte, v int64) []byte {
	return binary.NativeEndian.AppendUint64(dst, uint64(v))
}

// ParseCounter decodes an 8-byte signed counter payload.
func ParseCounter(b []byte) (int64, error) {
	if len(b) != CounterSize {
		return 0, common.Errorf(common.StatusProto, "counter payload has %d bytes, want %d", len(b), CounterSize)
	}
	return int64(binary.NativeEndian.Uint64(b)), nil
}
