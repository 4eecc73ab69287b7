// Package db embeds the schema for the Postgres collection backend.
package db

import _ "embed"

// Schema creates the table holding one JSON document per collection.
//
//go:embed migrations/001_collections.sql
var Schema string
