package tlsconn

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/hpkv-io/rioc-go/rioc/common"
)

// buildTLSConfig translates the client TLS settings into a tls.Config.
// The protocol pins TLS 1.3 on both ends.
func buildTLSConfig(cfg common.ClientConfig) (*tls.Config, error) {
	tc := cfg.TLS
	if tc == nil {
		return nil, common.Errorf(common.StatusParam, "tls connector requires a tls config")
	}

	out := &tls.Config{
		MinVersion: tls.VersionTLS13,
		MaxVersion: tls.VersionTLS13,
		ServerName: cfg.Host,
	}
	if tc.VerifyHostname != "" {
		out.ServerName = tc.VerifyHostname
	}
	if !tc.VerifyPeer {
		out.InsecureSkipVerify = true
	}

	if tc.CAPath != "" {
		pem, err := os.ReadFile(tc.CAPath)
		if err != nil {
			return nil, common.Errorf(common.StatusParam, "read ca certificate: %v", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, common.Errorf(common.StatusParam, "no certificates in %s", tc.CAPath)
		}
		out.RootCAs = pool
	}

	if tc.CertPath != "" {
		cert, err := tls.LoadX509KeyPair(tc.CertPath, tc.KeyPath)
		if err != nil {
			return nil, common.Errorf(common.StatusParam, "load client certificate: %v", err)
		}
		out.Certificates = []tls.Certificate{cert}
	}

	return out, nil
}
