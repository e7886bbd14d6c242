// Package application wires the resolved settings into storage, the
// inspection API and an HTTP server, keeping the main package focused on
// CLI parsing and orchestration.
package application
