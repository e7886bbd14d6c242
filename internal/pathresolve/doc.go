// Package pathresolve locates optional configuration files. Candidates are
// probed in priority order: an explicit path, the working directory, the
// ~/.fautil directory, and the platform configuration root (%APPDATA%\.fautil
// on Windows, /etc/fautil elsewhere). Finding nothing is a valid outcome.
package pathresolve
