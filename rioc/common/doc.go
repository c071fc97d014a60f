// Package common holds the pieces shared by every layer of the rioc client:
// the status code taxonomy the server speaks, the client configuration
// structs and the logger factory.
//
// Status codes cross the API boundary unchanged. A failed operation returns
// a *StatusError wrapping one of the Status constants; use CodeOf to recover
// the numeric code from any error returned by this module.
package common
