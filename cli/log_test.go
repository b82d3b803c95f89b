package cli

import "testing"

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		assigned bool
		want     bool
	}{
		{"--log-pretty", "", false, true},
		{"--no-log-pretty", "", false, false},
		{"--log-pretty", "false", true, false},
		{"--no-log-pretty", "false", true, true},
		{"--log-pretty", "maybe", true, true},
	}

	for _, tt := range tests {
		if got := flagValue(tt.name, tt.value, tt.assigned); got != tt.want {
			t.Errorf("flagValue(%q, %q, %t) = %t, want %t",
				tt.name, tt.value, tt.assigned, got, tt.want)
		}
	}
}

func TestLogConfigScan(t *testing.T) {
	var f logConfig

	f.scan([]string{
		"template", "list",
		"--log-level", "debug",
		"--log-format=text",
		"--no-log-pretty",
		"--log-caller",
	})

	if f.Level != "debug" || f.Format != "text" || f.Pretty || !f.Caller {
		t.Errorf("scan() = %+v", f)
	}

	f = logConfig{Level: "info"}
	f.scan([]string{"--log-level", "--log-caller"})

	if f.Level != "" || !f.Caller {
		t.Errorf("flag as level value: %+v", f)
	}
}
