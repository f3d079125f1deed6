// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests are skipped unless DATABASE_URL is set, and every test
// body runs inside a transaction that is rolled back afterwards.
package testdb
