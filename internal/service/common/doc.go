// Package common holds helpers shared by the game controller clients.
//
// It provides a gRPC client wrapper with call timeouts that speaks the
// controller service in domain types, and detects the current actor
// (username@hostname) for the journal.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
