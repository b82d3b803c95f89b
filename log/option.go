package log

import "io"

// Option modifies the settings of a Logger.
type Option func(settings) settings

// WithOutput sets the destination of log messages. A nil writer discards
// all output.
func WithOutput(w io.Writer) Option {
	return func(s settings) settings {
		if w == nil {
			w = io.Discard
		}

		s.output = w

		return s
	}
}

// WithLevel sets the minimum level of messages that are written.
func WithLevel(level Level) Option {
	return func(s settings) settings {
		s.level = level

		return s
	}
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(s settings) settings {
		s.format = format

		return s
	}
}

// WithTimeLayout sets the timestamp layout. Named layouts such as "RFC3339"
// or "kitchen" are recognized case-insensitively; anything else is passed
// to [time.Time.Format] verbatim. A blank layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(s settings) settings {
		s.stamp = stampFunc(layout)

		return s
	}
}

// WithCaller controls whether the source location of the caller is logged.
func WithCaller(enable bool) Option {
	return func(s settings) settings {
		s.caller = enable

		return s
	}
}

// WithPretty controls colorized output. Text output drops quoting and
// colors keys and values; JSON output is indented over multiple lines.
func WithPretty(enable bool) Option {
	return func(s settings) settings {
		s.pretty = enable

		return s
	}
}
