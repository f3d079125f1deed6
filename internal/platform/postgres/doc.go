// Package postgres implements the repositories of internal/store on
// PostgreSQL through database/sql and the pgx driver.
//
// Referential rules live in the schema as foreign keys: project
// deletion is restricted while tasks exist, comment authors are
// restricted, and task comments cascade. Constraint violations are
// mapped to the store sentinels so callers never see driver errors.
// The schema is embedded and applied with goose by Migrate.
package postgres
