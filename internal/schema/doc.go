// Package schema describes the shape of a settings tree: named fields that are
// either scalars (bool, int, float, string), string lists, or nested objects,
// each with an optional default. A Schema is built once, validated, and then
// shared read-only by the env mapper, the coercer and the settings builder.
package schema
