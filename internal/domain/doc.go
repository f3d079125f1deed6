// Package domain contains the core business entities of the task management
// application: projects, tasks, comments, team memberships and the user
// references owned by the external identity provider.
//
// Entities carry foreign-key identifiers only. Relationships are resolved
// through the store package, never through pointers between entities.
package domain
