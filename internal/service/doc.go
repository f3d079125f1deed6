// Package service contains the application use cases for projects, tasks,
// comments, users and reports. It orchestrates domain objects and the
// repositories defined in internal/store.
//
// Every mutation runs inside store.Store.RunInTx, so a failed operation
// leaves no partial effect. Reference rules between entities are applied
// through internal/integrity, and the project performance report is built
// by internal/report from a snapshot loaded in a single transaction.
//
// Errors keep their cause chain. Callers classify them with KindOf, which
// the API layer maps to HTTP status codes.
package service
