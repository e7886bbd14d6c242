// Package config defines fautil's settings (app, db, redis, kafka, minio and
// log sections) and loads them from multiple sources with precedence:
// Environment variables > .env file > YAML/JSON config file > Defaults.
// Variables use the FAUTIL_ prefix, e.g. FAUTIL_APP_TITLE or
// FAUTIL_DB__POOL_SIZE.
package config
