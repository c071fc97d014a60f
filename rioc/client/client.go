package client

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/hpkv-io/rioc-go/rioc/common"
	"github.com/hpkv-io/rioc-go/rioc/transport"
	"github.com/hpkv-io/rioc-go/rioc/transport/tcp"
	"github.com/hpkv-io/rioc-go/rioc/transport/tlsconn"
	"github.com/hpkv-io/rioc-go/rioc/wire"
)

var Logger = logger.GetLogger("rioc/client")

// Client is one session to one server endpoint. It owns the underlying
// stream exclusively; the stream outlives any tracker derived from it.
type Client struct {
	config common.ClientConfig
	stream transport.IStreamTransport

	// mu serializes submitters. The read side is owned by at most one
	// receiver at a time (see checkUsable).
	mu sync.Mutex

	// broken latches after the first unrecoverable stream error. A broken
	// session fails every further operation without touching the wire.
	broken   atomic.Bool
	inflight atomic.Pointer[Tracker]
}

// --------------------------------------------------------------------------
// Session lifecycle
// --------------------------------------------------------------------------

// Connect opens a session using the connector matching the configuration:
// TLS when a TLS config is present, plain TCP otherwise.
func Connect(config common.ClientConfig) (*Client, error) {
	var connector transport.IConnector
	if config.TLS != nil {
		connector = tlsconn.NewConnector()
	} else {
		connector = tcp.NewConnector()
	}
	return ConnectWith(config, connector)
}

// ConnectWith opens a session over an explicitly chosen connector.
func ConnectWith(config common.ClientConfig, connector transport.IConnector) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stream, err := connector.Dial(config)
	if err != nil {
		return nil, err
	}

	Logger.Infof("connected to %s using %s transport", config.Endpoint(), connector.GetName())
	return &Client{config: config, stream: stream}, nil
}

// Close tears down the session. A receiver blocked on the stream is
// unblocked with an error.
func (c *Client) Close() error {
	c.broken.Store(true)
	return c.stream.Close()
}

// Config returns the configuration the session was opened with.
func (c *Client) Config() common.ClientConfig {
	return c.config
}

// --------------------------------------------------------------------------
// Synchronous operations
// --------------------------------------------------------------------------

// Get fetches the value stored under key. A missing key surfaces as an
// error carrying common.StatusNotFound.
func (c *Client) Get(key []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	slot, err := c.roundTrip(wire.CmdGet, key, nil, 0)
	if err != nil {
		return nil, err
	}
	if err := slot.Status.Err(); err != nil {
		return nil, err
	}
	return slot.Bytes, nil
}

// Insert stores value under key with the caller-supplied timestamp.
func (c *Client) Insert(key, value []byte, timestamp uint64) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if len(value) > wire.MaxValueSize {
		return common.Errorf(common.StatusParam, "value length %d exceeds %d", len(value), wire.MaxValueSize)
	}
	slot, err := c.roundTrip(wire.CmdInsert, key, value, timestamp)
	if err != nil {
		return err
	}
	return slot.Status.Err()
}

// Delete removes the entry stored under key.
func (c *Client) Delete(key []byte, timestamp uint64) error {
	if err := checkKey(key); err != nil {
		return err
	}
	slot, err := c.roundTrip(wire.CmdDelete, key, nil, timestamp)
	if err != nil {
		return err
	}
	return slot.Status.Err()
}

// RangeQuery returns all entries with startKey <= key <= endKey in key
// order. An empty result is not an error.
func (c *Client) RangeQuery(startKey, endKey []byte) ([]RangeEntry, error) {
	if err := checkKey(startKey); err != nil {
		return nil, err
	}
	if err := checkKey(endKey); err != nil {
		return nil, err
	}
	slot, err := c.roundTrip(wire.CmdRangeQuery, startKey, endKey, 0)
	if err != nil {
		return nil, err
	}
	if err := slot.Status.Err(); err != nil {
		return nil, err
	}
	return slot.Range, nil
}

// AtomicIncDec adds delta to the counter stored under key and returns the
// post-operation value.
func (c *Client) AtomicIncDec(key []byte, delta int64, timestamp uint64) (int64, error) {
	if err := checkKey(key); err != nil {
		return 0, err
	}
	payload := wire.AppendCounter(make([]byte, 0, wire.CounterSize), delta)
	slot, err := c.roundTrip(wire.CmdAtomicIncDec, key, payload, timestamp)
	if err != nil {
		return 0, err
	}
	if err := slot.Status.Err(); err != nil {
		return 0, err
	}
	return slot.Counter, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func checkKey(key []byte) error {
	if len(key) == 0 {
		return common.Errorf(common.StatusParam, "key must not be empty")
	}
	if len(key) > wire.MaxKeySize {
		return common.Errorf(common.StatusParam, "key length %d exceeds %d", len(key), wire.MaxKeySize)
	}
	return nil
}

// checkUsable gates every wire interaction. Caller holds c.mu.
func (c *Client) checkUsable() error {
	if c.broken.Load() {
		return common.Errorf(common.StatusIO, "session invalid after previous failure")
	}
	if t := c.inflight.Load(); t != nil && !t.completed.Load() {
		return common.Errorf(common.StatusBusy, "a batch is still in flight on this session")
	}
	return nil
}

// markBroken latches the session as unusable and passes the error through.
func (c *Client) markBroken(err error) error {
	if c.broken.CompareAndSwap(false, true) {
		Logger.Warningf("session to %s invalidated: %v", c.config.Endpoint(), err)
	}
	metricErrors.Inc()
	return err
}

// roundTrip sends one operation framed as a batch of size one and reads its
// response on the calling goroutine. The wire form is identical to the
// pipelined batch path.
func (c *Client) roundTrip(cmd uint16, key, value []byte, timestamp uint64) (OpResult, error) {
	start := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkUsable(); err != nil {
		return OpResult{}, err
	}

	head := wire.AppendBatchHeader(make([]byte, 0, wire.BatchHeaderSize), 1, wire.FlagPipeline|wire.FlagMore)
	head = wire.AppendOpHeader(head, wire.OpHeader{
		Command:   cmd,
		KeyLen:    uint16(len(key)),
		ValueLen:  uint32(len(value)),
		Timestamp: timestamp,
	})

	bufs := net.Buffers{head, key}
	if len(value) > 0 {
		bufs = append(bufs, value)
	}

	c.stream.EnableCoalesce()
	err := c.stream.SendvAll(bufs)
	c.stream.DisableCoalesce()
	if err != nil {
		return OpResult{}, c.markBroken(err)
	}

	var slot OpResult
	if err := readOpResult(c.stream, cmd, &slot); err != nil {
		return OpResult{}, c.markBroken(err)
	}

	countOp(cmd)
	observeOpDuration(cmd, start)
	return slot, nil
}
