// Package logging builds the zap logger described by the log settings section.
package logging
