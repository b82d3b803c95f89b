// Package datasource describes external report data: connection strings,
// parameterized data sources, and the queries that read rows from them
// through gorm.
package datasource
