// Package layer defines the untyped nested value tree produced by every
// configuration source, along with helpers to address leaves by key path and
// the Source enum used to report where a resolved value came from.
package layer
