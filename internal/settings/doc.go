// Package settings resolves a schema into a typed settings value. A Builder
// locates and loads the optional config file and .env file, maps FAUTIL_
// variables from both the .env file and the process environment onto key
// paths, deep-merges the four layers (defaults < file < .env < environment),
// and walks the schema coercing every leaf. All coercion failures and missing
// required fields are reported together in a single *ValidationError, while
// file-level problems abort resolution immediately.
//
// Resolution only reads the filesystem and the environment, and building
// twice from the same state yields equal results. The returned values are
// meant to be constructed once at startup and then shared read-only.
package settings
