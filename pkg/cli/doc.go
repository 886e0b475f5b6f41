// Package cli holds helpers shared by the retentiond commands: error
// types, exit-code mapping, and signal-driven shutdown.
package cli
