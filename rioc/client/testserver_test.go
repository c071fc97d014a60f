package client

import (
	"encoding/binary"
	"io"
	"net"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hpkv-io/rioc-go/rioc/common"
	"github.com/hpkv-io/rioc-go/rioc/wire"
)

// testServer is a miniature in-process server speaking the rioc wire
// protocol over loopback TCP, backed by a plain map. It serves each
// connection on its own goroutine and answers each operation as soon as it
// is decoded.
type testServer struct {
	t  *testing.T
	ln net.Listener

	mu    sync.Mutex
	data  map[string][]byte
	conns []net.Conn

	// stall makes the server read requests but never answer them.
	stall atomic.Bool

	// opsServed counts operations fully read off the wire.
	opsServed atomic.Int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &testServer{t: t, ln: ln, data: make(map[string][]byte)}
	go s.acceptLoop()
	t.Cleanup(s.Close)
	return s
}

func (s *testServer) clientConfig() common.ClientConfig {
	return common.ClientConfig{
		Host:      "127.0.0.1",
		Port:      s.ln.Addr().(*net.TCPAddr).Port,
		TimeoutMs: 5000,
	}
}

// connect opens a client session against this server.
func (s *testServer) connect(t *testing.T) *Client {
	t.Helper()
	c, err := Connect(s.clientConfig())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func (s *testServer) Close() {
	s.ln.Close()
	s.closeConns()
}

// closeConns force-closes every accepted connection, unblocking any client
// receiver waiting on a response.
func (s *testServer) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

func (s *testServer) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.serveConn(conn)
	}
}

func (s *testServer) serveConn(conn net.Conn) {
	defer conn.Close()

	headerBuf := make([]byte, wire.BatchHeaderSize)
	opBuf := make([]byte, wire.OpHeaderSize)

	for {
		if _, err := io.ReadFull(conn, headerBuf); err != nil {
			return
		}
		batch, err := wire.ParseBatchHeader(headerBuf)
		if err != nil {
			s.t.Errorf("server: %v", err)
			return
		}
		if batch.Flags != wire.FlagPipeline|wire.FlagMore {
			s.t.Errorf("server: unexpected flags 0x%X", batch.Flags)
		}

		for i := uint16(0); i < batch.Count; i++ {
			if _, err := io.ReadFull(conn, opBuf); err != nil {
				return
			}
			op, err := wire.ParseOpHeader(opBuf)
			if err != nil {
				s.t.Errorf("server: %v", err)
				return
			}

			key := make([]byte, op.KeyLen)
			if _, err := io.ReadFull(conn, key); err != nil {
				return
			}
			var value []byte
			if op.ValueLen > 0 {
				value = make([]byte, op.ValueLen)
				if _, err := io.ReadFull(conn, value); err != nil {
					return
				}
			}

			s.opsServed.Add(1)
			if s.stall.Load() {
				continue
			}

			if _, err := conn.Write(s.execute(op.Command, key, value)); err != nil {
				return
			}
		}
	}
}

// execute applies one operation to the map and renders the full response,
// header plus payload.
func (s *testServer) execute(cmd uint16, key, value []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	headerOnly := func(status common.Status) []byte {
		return wire.AppendResponseHeader(nil, wire.ResponseHeader{Status: uint32(status)})
	}

	switch cmd {
	case wire.CmdInsert:
		s.data[string(key)] = append([]byte(nil), value...)
		return headerOnly(common.StatusSuccess)

	case wire.CmdDelete:
		if _, ok := s.data[string(key)]; !ok {
			return headerOnly(common.StatusNotFound)
		}
		delete(s.data, string(key))
		return headerOnly(common.StatusSuccess)

	case wire.CmdGet:
		v, ok := s.data[string(key)]
		if !ok {
			return headerOnly(common.StatusNotFound)
		}
		resp := wire.AppendResponseHeader(nil, wire.ResponseHeader{Status: 0, ValueLen: uint32(len(v))})
		return append(resp, v...)

	case wire.CmdAtomicIncDec:
		if len(value) != wire.CounterSize {
			return headerOnly(common.StatusParam)
		}
		delta := int64(binary.NativeEndian.Uint64(value))
		var current int64
		if v, ok := s.data[string(key)]; ok {
			if len(v) != wire.CounterSize {
				return headerOnly(common.StatusParam)
			}
			current = int64(binary.NativeEndian.Uint64(v))
		}
		next := current + delta
		s.data[string(key)] = wire.AppendCounter(nil, next)
		resp := wire.AppendResponseHeader(nil, wire.ResponseHeader{Status: 0, ValueLen: wire.CounterSize})
		return wire.AppendCounter(resp, next)

	case wire.CmdRangeQuery:
		start, end := string(key), string(value)
		var keys []string
		for k := range s.data {
			if k >= start && k <= end {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		resp := wire.AppendResponseHeader(nil, wire.ResponseHeader{Status: 0, ValueLen: uint32(len(keys))})
		for _, k := range keys {
			v := s.data[k]
			resp = binary.NativeEndian.AppendUint16(resp, uint16(len(k)))
			resp = append(resp, k...)
			resp = binary.NativeEndian.AppendUint64(resp, uint64(len(v)))
			resp = append(resp, v...)
		}
		return resp

	default:
		return headerOnly(common.StatusParam)
	}
}
