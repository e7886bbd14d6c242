// Package envname maps environment variable names onto settings key paths.
//
// Every recognised variable starts with the FAUTIL_ prefix. After the prefix a
// double underscore marks a nesting boundary (FAUTIL_DB__POOL_SIZE is
// db.pool_size) while the flat form joins segments with single underscores
// (FAUTIL_APP_TITLE is app.title). Matching is case-insensitive and resolved
// paths are lower case. Names that do not resolve to a leaf of the schema are
// ignored.
//
// When the flat and the nested form of the same key are both set, the nested
// form wins.
package envname
