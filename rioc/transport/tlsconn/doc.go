// Package tlsconn provides the TLS 1.3 connector for the rioc transport,
// with optional mutual authentication.
//
// The record layer has no scatter/gather, so vectored sends are funneled
// through chunks below the record size ceiling. The chunking is invisible to
// the peer: the byte stream is exactly the concatenation of the buffers.
package tlsconn
