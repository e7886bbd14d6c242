// Package api serves a read-only HTTP view of the resolved settings: the
// masked value tree, the source of every key and the environment variable
// names that configure each key.
package api
