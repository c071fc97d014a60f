// Package transport abstracts the reliable byte stream the rioc protocol
// engine runs on. A stream offers scalar and vectored full-length sends, an
// exact-length receive and an advisory coalesce hint.
//
// Two implementations exist: tcp (plain sockets) and tlsconn (TLS 1.3 with
// optional mutual authentication). Both expose identical semantics; the TLS
// variant funnels vectored writes through record-sized chunks internally.
package transport
