package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ardnew/rptkit/log"
	"github.com/ardnew/rptkit/store"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Runtime holds the process-wide settings every command may need.
type Runtime struct {
	// Registry receives command metrics. It may be nil.
	Registry *prometheus.Registry
	Driver   string
	DSN      string
	CacheDir string
}

type runtimeKey struct{}

// WithRuntime returns a new context.Context containing rt.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// runtimeFrom returns the Runtime stored by WithRuntime, or one that uses
// an in-memory SQLite database.
func runtimeFrom(ctx context.Context) *Runtime {
	if rt, ok := ctx.Value(runtimeKey{}).(*Runtime); ok && rt != nil {
		return rt
	}

	return &Runtime{Driver: store.DefaultDriver, DSN: ":memory:"}
}

// openStore opens the template database.
func (rt *Runtime) openStore(ctx context.Context) (*store.DB, error) {
	log.DebugContext(ctx, "open store",
		slog.String("driver", rt.Driver),
		slog.String("dsn", rt.DSN))

	return store.Open(ctx, rt.Driver, rt.DSN, store.WithLogger(log.Default()))
}

// stdout returns the writer command output goes to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readYAML decodes the YAML file at path, or stdin for "-", into v.
func readYAML(path string, v any) error {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return ErrReadInput.With(slog.String("file", path)).Wrap(err)
	}

	if err := yaml.Unmarshal(data, v); err != nil {
		return ErrReadInput.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}

// assignments parses name=value pairs. Later pairs replace earlier ones.
func assignments(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))

	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ErrAssignment.With(slog.String("arg", p))
		}

		m[name] = value
	}

	return m, nil
}

// variables parses name=value pairs into formula variables. Each value is
// read as a YAML scalar, so numbers and booleans keep their type; anything
// that is not a scalar is kept as the literal text.
func variables(pairs []string) (map[string]any, error) {
	raw, err := assignments(pairs)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]any, len(raw))

	for name, text := range raw {
		var v any
		if err := yaml.Unmarshal([]byte(text), &v); err != nil {
			v = text
		}

		switch v.(type) {
		case map[string]any, []any:
			v = text
		}

		vars[name] = v
	}

	return vars, nil
}
