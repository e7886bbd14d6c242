// Package document reads configuration documents into layers. YAML and JSON
// files become nested layers; .env files become flat KEY=VALUE maps. A missing
// path yields an empty result, while malformed content is always reported.
package document
