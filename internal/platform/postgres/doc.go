// Package postgres contains the PostgreSQL-backed implementations of the
// store interfaces.
package postgres
