// Package coerce converts raw configuration values into the kind a schema
// declares for them. Environment and .env values always arrive as strings;
// values parsed from YAML or JSON may already carry a native type and pass
// through when they match.
//
// Boolean coercion is deliberately lenient: a token outside the truthy set
// {true, 1, yes, y, t} (any case) resolves to false and never fails, so a
// misspelled flag silently reads as false.
package coerce
