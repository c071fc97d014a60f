// Package tcp provides the plain-socket connector for the rioc transport.
package tcp
