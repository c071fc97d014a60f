// Package base implements the generic stream transport over a net.Conn,
// independent of how the connection was established. The tcp connector
// builds on it; tlsconn has its own stream type over a tls.Conn.
package base
