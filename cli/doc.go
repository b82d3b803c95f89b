// Package cli contains the command line interface for rptkit.
//
// [Run] builds the kong parser, reads the configuration files, configures
// the default logger, and dispatches to a command in package cmd.
//
// # Configuration
//
// Global flags may be set in <config dir>/rptkit/config.yaml. Nested
// mappings are flattened with hyphens and underscores match hyphens, so
// these are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// A JSON file at config.yaml.json is read as well. Flags on the command
// line override both. The init command writes the current global flags to
// config.yaml.
//
// # Template store
//
//   - --db-driver: sqlite, postgres, mysql, or sqlserver
//   - --db-dsn: driver DSN (default <config dir>/rptkit/templates.db)
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: json or text
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, or a Go layout)
//   - --[no-]log-caller: include the call site
//   - --[no-]log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o rptkit .
//
//   - --pprof-mode: enable profiling (cpu, mem, block, mutex, ...)
//   - --pprof-dir: profile output directory (default <cache dir>/rptkit/pprof)
//
// # Metrics
//
// --metrics-file writes the process metrics, including render timings, in
// the Prometheus text format when the command exits.
//
// # Examples
//
//	rptkit template new Invoice -d "Monthly invoice"
//	rptkit element add Invoice detail textfield
//	rptkit eval 'ROUND([Qty] * [Price], 2)' -s Qty=3 -s Price=9.99
//	rptkit render Invoice --data rows.yaml --format png --out pages
package cli
