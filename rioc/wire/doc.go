// Package wire defines the on-wire framing of the rioc protocol: the batch,
// operation and response headers, the command and flag constants, and the
// size limits fixed by compatibility with the server.
//
// All multi-byte integers travel in the host's native byte order. This is a
// property of the established wire format, not a choice: the server does not
// byte-swap, so interoperability is tied to architectures sharing endianness.
package wire
