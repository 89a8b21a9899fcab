// Package postgres provides PostgreSQL-backed persistence for completed
// bpmn process runs, for a server-backed sink shared across engine
// instances and deployments.
//
// New opens its own pool; NewWithPool accepts an existing pool (or a
// pgxmock.PgxPoolIface in tests) against the DBPool interface, so
// callers and tests never depend on a live Postgres instance directly.
package postgres
