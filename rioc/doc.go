// Package rioc provides a client for the rioc key-value store protocol: a
// binary request/response protocol over a reliable stream, with batched,
// pipelined operation delivery and optional TLS 1.3 transport security.
//
// The package is organized into several subpackages:
//
//   - common: Status code taxonomy, client configuration structures and
//     logging, shared across the whole module.
//
//   - wire: The exact on-wire framing - batch, operation and response
//     headers, protocol constants and size limits.
//
//   - transport: Stream transport abstractions with pluggable
//     implementations (plain TCP, TLS 1.3).
//
//   - client: The protocol engine - synchronous single-operation calls,
//     pipelined batch assembly and submission, background response
//     demultiplexing and result tracking.
package rioc
