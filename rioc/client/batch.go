package client

import (
	"net"

	"github.com/hpkv-io/rioc-go/rioc/common"
	"github.com/hpkv-io/rioc-go/rioc/wire"
)

// --------------------------------------------------------------------------
// Batch Builder
// --------------------------------------------------------------------------

// batchOp is one accumulated operation. The key lives in a fixed inline
// buffer; the value (or range upper-bound key) lives in the batch staging
// buffer at the recorded offset.
type batchOp struct {
	header   wire.OpHeader
	key      [wire.MaxKeySize]byte
	valueOff int
	result   OpResult
}

// Batch accumulates up to MaxBatchSize operations for one pipelined
// transmission. A batch is mutable only during assembly; once submitted it
// is read-only until its tracker is retired.
type Batch struct {
	client    *Client
	ops       []batchOp
	staging   []byte
	submitted bool
}

// NewBatch creates an empty batch bound to this session.
func (c *Client) NewBatch() *Batch {
	return &Batch{
		client: c,
		ops:    make([]batchOp, 0, wire.MaxBatchSize),
	}
}

// Len returns the number of accumulated operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

// --------------------------------------------------------------------------
// Add Operations
// --------------------------------------------------------------------------

// AddGet appends a read of key.
func (b *Batch) AddGet(key []byte) error {
	return b.addOp(wire.CmdGet, key, nil, 0)
}

// AddInsert appends a write of value under key.
func (b *Batch) AddInsert(key, value []byte, timestamp uint64) error {
	if len(value) > wire.MaxValueSize {
		return common.Errorf(common.StatusParam, "value length %d exceeds %d", len(value), wire.MaxValueSize)
	}
	return b.addOp(wire.CmdInsert, key, value, timestamp)
}

// AddDelete appends a removal of key.
func (b *Batch) AddDelete(key []byte, timestamp uint64) error {
	return b.addOp(wire.CmdDelete, key, nil, timestamp)
}

// AddRangeQuery appends a query for all entries between startKey and endKey
// inclusive. The upper-bound key rides in the value slot of the operation.
func (b *Batch) AddRangeQuery(startKey, endKey []byte) error {
	if err := checkKey(endKey); err != nil {
		return err
	}
	return b.addOp(wire.CmdRangeQuery, startKey, endKey, 0)
}

// AddAtomicIncDec appends a counter adjustment by delta.
func (b *Batch) AddAtomicIncDec(key []byte, delta int64, timestamp uint64) error {
	payload := wire.AppendCounter(make([]byte, 0, wire.CounterSize), delta)
	return b.addOp(wire.CmdAtomicIncDec, key, payload, timestamp)
}

// addOp validates and appends one operation. On any violation the batch is
// left untouched.
func (b *Batch) addOp(cmd uint16, key, value []byte, timestamp uint64) error {
	if b.submitted {
		return common.Errorf(common.StatusParam, "batch already submitted")
	}
	if len(b.ops) >= wire.MaxBatchSize {
		return common.Errorf(common.StatusParam, "batch is full (%d operations)", wire.MaxBatchSize)
	}
	if err := checkKey(key); err != nil {
		return err
	}

	b.ops = append(b.ops, batchOp{
		header: wire.OpHeader{
			Command:   cmd,
			KeyLen:    uint16(len(key)),
			ValueLen:  uint32(len(value)),
			Timestamp: timestamp,
		},
	})
	op := &b.ops[len(b.ops)-1]
	copy(op.key[:], key)
	if len(value) > 0 {
		op.valueOff = b.stage(value)
	}
	return nil
}

// stage copies value into the staging buffer at the next cache-line-aligned
// offset and returns that offset. Offsets stay valid across growth because
// only offsets, never slices, are recorded.
func (b *Batch) stage(value []byte) int {
	off := (len(b.staging) + wire.CacheLineSize - 1) &^ (wire.CacheLineSize - 1)
	if pad := off - len(b.staging); pad > 0 {
		b.staging = append(b.staging, make([]byte, pad)...)
	}
	b.staging = append(b.staging, value...)
	return off
}

// --------------------------------------------------------------------------
// Pipeline Sender
// --------------------------------------------------------------------------

// buffers assembles the vectored transmission:
// [BatchHeader, (OpHeader_i, Key_i, [Value_i])...]. The header block is
// sized upfront so the slices handed out stay stable.
func (b *Batch) buffers() net.Buffers {
	head := wire.AppendBatchHeader(make([]byte, 0, wire.BatchHeaderSize), uint16(len(b.ops)), wire.FlagPipeline|wire.FlagMore)

	headers := make([]byte, 0, len(b.ops)*wire.OpHeaderSize)
	bufs := make(net.Buffers, 0, 1+3*len(b.ops))
	bufs = append(bufs, head)

	for i := range b.ops {
		op := &b.ops[i]

		mark := len(headers)
		headers = wire.AppendOpHeader(headers, op.header)
		bufs = append(bufs, headers[mark:len(headers):len(headers)])

		bufs = append(bufs, op.key[:op.header.KeyLen])
		if op.header.ValueLen > 0 {
			bufs = append(bufs, b.staging[op.valueOff:op.valueOff+int(op.header.ValueLen)])
		}
	}
	return bufs
}

// SubmitAsync delivers the batch as one vectored transmission and starts
// the background receiver. On a transport failure no tracker is produced,
// the batch is retired and the session is invalid.
func (b *Batch) SubmitAsync() (*Tracker, error) {
	c := b.client

	c.mu.Lock()
	defer c.mu.Unlock()

	if b.submitted {
		return nil, common.Errorf(common.StatusParam, "batch already submitted")
	}
	if len(b.ops) == 0 {
		return nil, common.Errorf(common.StatusParam, "empty batch")
	}
	if err := c.checkUsable(); err != nil {
		return nil, err
	}

	b.submitted = true

	c.stream.EnableCoalesce()
	err := c.stream.SendvAll(b.buffers())
	c.stream.DisableCoalesce()
	if err != nil {
		return nil, c.markBroken(err)
	}

	t := &Tracker{batch: b, done: make(chan struct{})}
	c.inflight.Store(t)
	metricBatches.Inc()
	for i := range b.ops {
		countOp(b.ops[i].header.Command)
	}

	go t.run()
	return t, nil
}
