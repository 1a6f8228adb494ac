// Package sqlite implements the web storage contracts on modernc.org/sqlite.
package sqlite
