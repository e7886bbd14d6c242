// Package storage holds the process-wide resolved settings. Settings are
// published once at startup and are read-only afterwards.
package storage
