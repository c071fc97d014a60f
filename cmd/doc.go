// Package cmd implements the rioc command line interface.
package cmd
