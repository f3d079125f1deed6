// Package memstore is an in-memory implementation of the store contracts.
//
// It mirrors the relational constraints of the PostgreSQL schema
// (restricted, cascading and set-null references, the unique team
// membership pair) so that services behave the same against either
// backend. Transactions work on a private copy of the data that replaces
// the live copy only on commit.
package memstore
