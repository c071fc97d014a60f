package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// TLS configuration struct
// --------------------------------------------------------------------------

// TLSConfig describes how to wrap the connection in TLS 1.3. A nil TLSConfig
// on the client config means plain TCP.
type TLSConfig struct {
	// CAPath is the path to the CA certificate used to verify the server
	CAPath string
	// CertPath and KeyPath are the client certificate and private key for
	// mutual authentication. Both must be set or both empty.
	CertPath string
	KeyPath  string
	// VerifyHostname overrides the hostname checked against the server
	// certificate. Empty means the configured host is used.
	VerifyHostname string
	// VerifyPeer enables certificate verification. When false the server
	// certificate is accepted without checking.
	VerifyPeer bool
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all parameters for a single client session.
type ClientConfig struct {
	Host      string
	Port      int
	TimeoutMs uint32
	TLS       *TLSConfig
}

// Endpoint returns the host:port dial target.
func (c *ClientConfig) Endpoint() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout returns the configured operation timeout as a duration.
// Zero means no timeout.
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Validate checks the config before any connection attempt is made.
func (c *ClientConfig) Validate() error {
	if c.Host == "" {
		return Errorf(StatusParam, "host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return Errorf(StatusParam, "port %d out of range", c.Port)
	}
	if c.TLS != nil && (c.TLS.CertPath == "") != (c.TLS.KeyPath == "") {
		return Errorf(StatusParam, "tls cert and key must be set together")
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Endpoint", c.Endpoint())
	addField("Timeout", fmt.Sprintf("%d ms", c.TimeoutMs))

	addSection("TLS")
	if c.TLS == nil {
		addField("Enabled", "false")
	} else {
		addField("Enabled", "true")
		addField("CA Certificate", c.TLS.CAPath)
		addField("Client Certificate", c.TLS.CertPath)
		addField("Client Key", c.TLS.KeyPath)
		addField("Verify Peer", fmt.Sprintf("%t", c.TLS.VerifyPeer))
		if c.TLS.VerifyHostname != "" {
			addField("Verify Hostname", c.TLS.VerifyHostname)
		}
	}

	return sb.String()
}
