// Package store persists report templates, data sources, and connection
// strings.
//
// [Memory] keeps templates in process memory and suits tests and one-shot
// commands. [DB] maps the same [Repository] onto SQLite, PostgreSQL, MySQL,
// or SQL Server through gorm, and its [Sources] manage data sources and
// connection strings in the same database.
package store
