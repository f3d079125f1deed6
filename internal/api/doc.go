// Package api handles incoming HTTP requests, request validation and
// response formatting for projects, tasks, comments, users and reports.
// Handlers translate HTTP concerns into service calls and map service
// errors to status codes without leaking internal details.
package api
