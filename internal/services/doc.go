// Package services holds catalog use cases shared by the HTTP API and the
// command line: validated book creation and idempotent bulk import.
package services
