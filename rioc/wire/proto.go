package wire

// --------------------------------------------------------------------------
// Protocol constants
// --------------------------------------------------------------------------

const (
	// Magic is the batch header sentinel, sent as a host-order u32. Written
	// big-endian its bytes are the ASCII letters "ROIC".
	Magic uint32 = 0x524F4943
	// Version is the protocol version this client speaks.
	Version uint16 = 2
)

// Size limits fixed by compatibility with the server.
const (
	MaxKeySize   = 512
	MaxValueSize = 100_000
	MaxBatchSize = 128
)

// CacheLineSize is the alignment used for value staging offsets.
const CacheLineSize = 128

// Commands
const (
	CmdGet          uint16 = 1
	CmdInsert       uint16 = 2
	CmdDelete       uint16 = 3
	CmdPartialUpd   uint16 = 4 // reserved, not sent by this client
	CmdBatch        uint16 = 5 // reserved, not sent directly
	CmdRangeQuery   uint16 = 6
	CmdAtomicIncDec uint16 = 7
)

// Batch header flags
const (
	FlagError    uint32 = 0x1
	FlagPipeline uint32 = 0x2
	FlagMore     uint32 = 0x4
)

// Header sizes in bytes.
const (
	BatchHeaderSize    = 12
	OpHeaderSize       = 16
	ResponseHeaderSize = 8
)

// RangeWordSize is the width of the inner value-length field of a range
// query result entry. The server transmits it as a native machine word;
// 8 bytes on all supported platforms.
const RangeWordSize = 8

// CounterSize is the payload width of an atomic counter, on the wire and in
// replies. A reply of any other length is a protocol violation.
const CounterSize = 8
