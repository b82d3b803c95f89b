// Package log provides a concurrency-safe logging interface built on
// [log/slog].
//
// A [Logger] is an immutable value. Configuration is applied with
// functional options at creation time or by deriving a new Logger:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger = logger.With(slog.String("template", id.String()))
//	logger.Info("template loaded", slog.Int("sections", n))
//
// Attributes are typed [slog.Attr] values rather than alternating key/value
// arguments.
//
// # Levels
//
// In addition to the four slog levels, [LevelTrace] sits below
// [LevelDebug] and is used for per-row and per-token detail.
//
// # Zero value
//
// The zero Logger discards all messages. Library packages accept a Logger
// through an option and default to the zero value, so they are silent unless
// the caller opts in.
//
// # Package-level logging
//
// Functions such as [Info] and [Error] use a process-wide default Logger
// writing to standard error. [Config] reconfigures it; the CLI does so from
// its --log-* flags.
package log
