// Package store defines the persistence contracts for projects, tasks,
// comments, team memberships and user references.
//
// Services never talk to a database directly. They receive a Store, ask
// it for a Repositories bundle, and run every mutation through RunInTx so
// that a failed operation leaves no partial effect. Implementations live
// under internal/platform.
package store
