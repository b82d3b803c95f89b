package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestWriteMetrics(t *testing.T) {
	tests := []struct {
		name   string
		runErr error
		want   string
	}{
		{name: "ok", want: `rptkit_command_runs_total{command="template list",result="ok"} 1`},
		{name: "error", runErr: errors.New("boom"), want: `rptkit_command_runs_total{command="template list",result="error"} 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rptkit.prom")

			if err := writeMetrics(path, prometheus.NewRegistry(), "template list", tt.runErr); err != nil {
				t.Fatalf("writeMetrics() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			if !strings.Contains(string(data), tt.want) {
				t.Errorf("metrics file lacks %q:\n%s", tt.want, data)
			}
		})
	}
}

func TestWriteMetrics_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "rptkit.prom")

	err := writeMetrics(path, prometheus.NewRegistry(), "version", nil)
	if !errors.Is(err, ErrMetrics) {
		t.Errorf("error = %v, want ErrMetrics", err)
	}
}
