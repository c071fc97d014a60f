package tlsconn

import (
	"crypto/tls"
	"io"
	"net"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/hpkv-io/rioc-go/rioc/common"
	"github.com/hpkv-io/rioc-go/rioc/transport"
)

var Logger = logger.GetLogger("rioc/transport")

// recordChunk is the largest logical write handed to the record layer,
// slightly below the 16 KiB plaintext ceiling to leave room for overhead.
const recordChunk = 16000

// connector implements the IConnector interface for TLS sessions
type connector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IConnector)
// --------------------------------------------------------------------------

func (c *connector) GetName() string {
	return "tls"
}

func (c *connector) Dial(config common.ClientConfig) (transport.IStreamTransport, error) {
	tlsConf, err := buildTLSConfig(config)
	if err != nil {
		return nil, err
	}

	d := net.Dialer{Timeout: config.Timeout()}
	raw, err := d.Dial("tcp", config.Endpoint())
	if err != nil {
		return nil, common.Errorf(common.StatusIO, "dial %s: %v", config.Endpoint(), err)
	}
	if tc, ok := raw.(*net.TCPConn); ok {
		if err := tc.SetNoDelay(true); err != nil {
			raw.Close()
			return nil, common.Errorf(common.StatusIO, "socket setup: %v", err)
		}
	}

	conn := tls.Client(raw, tlsConf)
	if err := conn.Handshake(); err != nil {
		raw.Close()
		return nil, common.Errorf(common.StatusIO, "tls handshake with %s: %v", config.Endpoint(), err)
	}

	Logger.Infof("tls session established with %s (%s)", config.Endpoint(), tls.VersionName(conn.ConnectionState().Version))
	return &stream{conn: conn}, nil
}

// NewConnector creates a TLS connector
func NewConnector() transport.IConnector {
	return &connector{}
}

// --------------------------------------------------------------------------
// Stream implementation
// --------------------------------------------------------------------------

// stream implements transport.IStreamTransport over a tls.Conn.
type stream struct {
	conn  *tls.Conn
	chunk [recordChunk]byte
}

func (s *stream) SendAll(p []byte) error {
	for len(p) > 0 {
		n := len(p)
		if n > recordChunk {
			n = recordChunk
		}
		if _, err := s.conn.Write(p[:n]); err != nil {
			return common.Errorf(common.StatusIO, "tls send: %v", err)
		}
		p = p[n:]
	}
	return nil
}

// SendvAll emulates a vectored write by accumulating the buffers into
// record-sized chunks. The peer observes the exact concatenation.
func (s *stream) SendvAll(bufs net.Buffers) error {
	used := 0
	for _, b := range bufs {
		for len(b) > 0 {
			n := copy(s.chunk[used:], b)
			used += n
			b = b[n:]
			if used == recordChunk {
				if _, err := s.conn.Write(s.chunk[:used]); err != nil {
					return common.Errorf(common.StatusIO, "tls sendv: %v", err)
				}
				used = 0
			}
		}
	}
	if used > 0 {
		if _, err := s.conn.Write(s.chunk[:used]); err != nil {
			return common.Errorf(common.StatusIO, "tls sendv: %v", err)
		}
	}
	return nil
}

func (s *stream) RecvExact(p []byte) error {
	if _, err := io.ReadFull(s.conn, p); err != nil {
		return common.Errorf(common.StatusIO, "tls recv: %v", err)
	}
	return nil
}

// The record layer already batches small writes into records; the kernel
// hint has nothing further to add here.
func (s *stream) EnableCoalesce()  {}
func (s *stream) DisableCoalesce() {}

func (s *stream) Close() error {
	return s.conn.Close()
}
