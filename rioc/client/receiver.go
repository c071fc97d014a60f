package client

import (
	"encoding/binary"

	"github.com/hpkv-io/rioc-go/rioc/common"
	"github.com/hpkv-io/rioc-go/rioc/transport"
	"github.com/hpkv-io/rioc-go/rioc/wire"
)

// --------------------------------------------------------------------------
// Response Receiver
// --------------------------------------------------------------------------

// run consumes one response per operation, strictly in request order, using
// the batch's operation list as the schema for each payload. It is the only
// reader of the stream until it returns.
func (t *Tracker) run() {
	stream := t.batch.client.stream

	for i := range t.batch.ops {
		op := &t.batch.ops[i]
		if err := readOpResult(stream, op.header.Command, &op.result); err != nil {
			t.batch.client.markBroken(err)
			t.finish(common.CodeOf(err))
			return
		}
		t.received.Store(uint64(i + 1))
	}

	t.finish(common.StatusSuccess)
}

// finish publishes the aggregate status and flips the completion flag. The
// status store happens before the flag store; readers observe them in that
// order.
func (t *Tracker) finish(status common.Status) {
	t.status.Store(int32(status))
	t.completed.Store(true)
	close(t.done)
}

// readOpResult reads one response and decodes its payload according to the
// originating command. A non-success status leaves the slot without payload
// and is not an error here; the returned error is reserved for stream-level
// failures that terminate the whole batch.
func readOpResult(stream transport.IStreamTransport, cmd uint16, slot *OpResult) error {
	var headerBuf [wire.ResponseHeaderSize]byte
	if err := stream.RecvExact(headerBuf[:]); err != nil {
		return err
	}
	header, err := wire.ParseResponseHeader(headerBuf[:])
	if err != nil {
		return err
	}

	slot.Status = common.Status(int32(header.Status))
	slot.Kind = ResultNone
	if slot.Status != common.StatusSuccess {
		return nil
	}

	switch cmd {
	case wire.CmdInsert, wire.CmdDelete:
		// no payload

	case wire.CmdGet:
		value := make([]byte, header.ValueLen)
		if header.ValueLen > 0 {
			if err := stream.RecvExact(value); err != nil {
				return err
			}
		}
		slot.Kind = ResultBytes
		slot.Bytes = value

	case wire.CmdAtomicIncDec:
		if header.ValueLen != wire.CounterSize {
			return common.Errorf(common.StatusProto, "atomic counter reply has %d bytes, want %d", header.ValueLen, wire.CounterSize)
		}
		var counterBuf [wire.CounterSize]byte
		if err := stream.RecvExact(counterBuf[:]); err != nil {
			return err
		}
		counter, err := wire.ParseCounter(counterBuf[:])
		if err != nil {
			return err
		}
		slot.Kind = ResultCounter
		slot.Counter = counter

	case wire.CmdRangeQuery:
		// For range queries the header's value length is the entry count.
		entries, err := readRangeEntries(stream, header.ValueLen)
		if err != nil {
			return err
		}
		slot.Kind = ResultRange
		slot.Range = entries

	default:
		return common.Errorf(common.StatusProto, "no response schema for command %d", cmd)
	}

	return nil
}

// readRangeEntries decodes count entries of the form
// {key_len:u16, key, value_len:native word, value}, each into independently
// owned buffers.
func readRangeEntries(stream transport.IStreamTransport, count uint32) ([]RangeEntry, error) {
	entries := make([]RangeEntry, 0, count)

	var keyLenBuf [2]byte
	var valueLenBuf [wire.RangeWordSize]byte

	for j := uint32(0); j < count; j++ {
		if err := stream.RecvExact(keyLenBuf[:]); err != nil {
			return nil, err
		}
		keyLen := binary.NativeEndian.Uint16(keyLenBuf[:])
		if keyLen > wire.MaxKeySize {
			return nil, common.Errorf(common.StatusProto, "range entry key length %d exceeds %d", keyLen, wire.MaxKeySize)
		}

		key := make([]byte, keyLen)
		if err := stream.RecvExact(key); err != nil {
			return nil, err
		}

		if err := stream.RecvExact(valueLenBuf[:]); err != nil {
			return nil, err
		}
		valueLen := binary.NativeEndian.Uint64(valueLenBuf[:])
		if valueLen > wire.MaxValueSize {
			return nil, common.Errorf(common.StatusProto, "range entry value length %d exceeds %d", valueLen, wire.MaxValueSize)
		}

		value := make([]byte, valueLen)
		if err := stream.RecvExact(value); err != nil {
			return nil, err
		}

		entries = append(entries, RangeEntry{Key: key, Value: value})
	}

	return entries, nil
}
