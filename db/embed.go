// Package db provides the embedded database schema and seed fixtures.
package db

import _ "embed"

// Schema contains the DDL statements for all storefront tables.
//
//go:embed migrations/001_schema.sql
var Schema string
