package base

import (
	"io"
	"net"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/hpkv-io/rioc-go/rioc/common"
)

var Logger = logger.GetLogger("rioc/transport")

// coalesceThreshold is the payload size below which a vectored send is
// flattened into one contiguous write instead of hitting writev. Small
// requests fit a single syscall this way.
const coalesceThreshold = 4096

// Stream implements transport.IStreamTransport over an arbitrary net.Conn.
type Stream struct {
	conn    net.Conn
	scratch [coalesceThreshold]byte
}

// NewStream wraps an established connection.
func NewStream(conn net.Conn) *Stream {
	return &Stream{conn: conn}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IStreamTransport)
// --------------------------------------------------------------------------

func (s *Stream) SendAll(p []byte) error {
	for len(p) > 0 {
		n, err := s.conn.Write(p)
		if err != nil {
			return common.Errorf(common.StatusIO, "send: %v", err)
		}
		p = p[n:]
	}
	return nil
}

func (s *Stream) SendvAll(bufs net.Buffers) error {
	total := 0
	for _, b := range bufs {
		total += len(b)
	}
	if total == 0 {
		return nil
	}

	// Small transfers: coalesce into the scratch buffer, one write.
	if total <= coalesceThreshold {
		p := s.scratch[:0]
		for _, b := range bufs {
			p = append(p, b...)
		}
		return s.SendAll(p)
	}

	// Large transfers: hand the vector to the kernel (writev). WriteTo
	// consumes the buffers until everything is out or a hard error occurs.
	if _, err := bufs.WriteTo(s.conn); err != nil {
		return common.Errorf(common.StatusIO, "sendv: %v", err)
	}
	return nil
}

func (s *Stream) RecvExact(p []byte) error {
	if _, err := io.ReadFull(s.conn, p); err != nil {
		return common.Errorf(common.StatusIO, "recv: %v", err)
	}
	return nil
}

// EnableCoalesce lets the kernel merge small segments pending further
// writes. Implemented by re-enabling Nagle on TCP connections; a no-op for
// anything else.
func (s *Stream) EnableCoalesce() {
	if tc, ok := s.conn.(*net.TCPConn); ok {
		if err := tc.SetNoDelay(false); err != nil {
			Logger.Debugf("enable coalesce: %v", err)
		}
	}
}

// DisableCoalesce releases withheld segments and restores immediate sends.
func (s *Stream) DisableCoalesce() {
	if tc, ok := s.conn.(*net.TCPConn); ok {
		if err := tc.SetNoDelay(true); err != nil {
			Logger.Debugf("disable coalesce: %v", err)
		}
	}
}

func (s *Stream) Close() error {
	return s.conn.Close()
}
