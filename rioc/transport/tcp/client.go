package tcp

import (
	"net"

	"github.com/hpkv-io/rioc-go/rioc/common"
	"github.com/hpkv-io/rioc-go/rioc/transport"
	"github.com/hpkv-io/rioc-go/rioc/transport/base"
)

// socketBufferSize is applied to both socket directions. Large buffers keep
// pipelined batches from stalling on the kernel.
const socketBufferSize = 1024 * 1024

// connector implements the IConnector interface for TCP sockets
type connector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IConnector)
// --------------------------------------------------------------------------

func (c *connector) GetName() string {
	return "tcp"
}

func (c *connector) Dial(config common.ClientConfig) (transport.IStreamTransport, error) {
	d := net.Dialer{Timeout: config.Timeout()}
	conn, err := d.Dial("tcp", config.Endpoint())
	if err != nil {
		return nil, common.Errorf(common.StatusIO, "dial %s: %v", config.Endpoint(), err)
	}

	if err := upgradeConnection(conn); err != nil {
		conn.Close()
		return nil, common.Errorf(common.StatusIO, "socket setup: %v", err)
	}

	return base.NewStream(conn), nil
}

// upgradeConnection applies socket tuning to an established connection
func upgradeConnection(conn net.Conn) error {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	if err := tc.SetNoDelay(true); err != nil {
		return err
	}
	if err := tc.SetWriteBuffer(socketBufferSize); err != nil {
		return err
	}
	return tc.SetReadBuffer(socketBufferSize)
}

// --------------------------------------------------------------------------
// Connector Factory Method
// --------------------------------------------------------------------------

// NewConnector creates a plain TCP connector
func NewConnector() transport.IConnector {
	return &connector{}
}
