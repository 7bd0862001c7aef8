package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/vouch/pkg/lifecycle"
)

type fixedCheck bool

func (f fixedCheck) Ready() bool { return bool(f) }

func TestLogReadiness(t *testing.T) {
	tests := []struct {
		name string
		db   bool
		want []string
	}{
		{"all ready", true, []string{"level=INFO", "ready=true", "database=true"}},
		{"database down", false, []string{"level=WARN", "ready=false", "database=false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			lc := lifecycle.New()
			lc.Register("database", fixedCheck(tt.db))
			lc.WaitForStartup()

			logReadiness(logger, lc)

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("log %q missing %q", out, w)
				}
			}
		})
	}
}
