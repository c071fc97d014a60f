package transport

import (
	"net"

	"github.com/hpkv-io/rioc-go/rioc/common"
)

// --------------------------------------------------------------------------
// Stream Transport
// --------------------------------------------------------------------------

// IStreamTransport is a reliable ordered byte stream. All send and receive
// methods loop internally until the full length is transferred or a hard
// error occurs; short transfers are never surfaced to the caller.
//
// A stream is owned by a single logical client. It is not safe for use by
// multiple concurrent submitters; the protocol engine serializes access.
type IStreamTransport interface {
	// SendAll writes all of p.
	SendAll(p []byte) error

	// SendvAll delivers the buffers as if concatenated, preserving order.
	// The full concatenation is on the wire when the call returns.
	SendvAll(bufs net.Buffers) error

	// RecvExact fills p completely.
	RecvExact(p []byte) error

	// EnableCoalesce hints that small segments may be withheld pending
	// further writes. DisableCoalesce releases them. Both are best-effort
	// and never affect correctness.
	EnableCoalesce()
	DisableCoalesce()

	// Close tears down the stream.
	Close() error
}

// --------------------------------------------------------------------------
// Connector
// --------------------------------------------------------------------------

// IConnector establishes a stream to the endpoint of a client configuration.
type IConnector interface {
	// GetName returns the name of the transport type (e.g. "tcp", "tls")
	GetName() string

	// Dial opens a stream to the configured endpoint.
	Dial(config common.ClientConfig) (IStreamTransport, error)
}
