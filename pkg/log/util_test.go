package log

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestToFields(t *testing.T) {
	now := time.Now()
	err := errors.New("boom")

	tests := []struct {
		name  string
		input []any
		want  int
	}{
		{"empty input", []any{}, 0},
		{"string pair", []any{"mode", "OFFBOARD"}, 1},
		{"bool and int pairs", []any{"armed", true, "cycles", 100}, 2},
		{"duration pair", []any{"cooldown", 5 * time.Second}, 1},
		{"time pair", []any{"at", now}, 1},
		{"bare error", []any{err}, 1},
		{"two bare errors", []any{err, errors.New("again")}, 2},
		{"passthrough zap field", []any{zap.String("x", "y")}, 1},
		{"odd number of args", []any{"key1", "val1", "key2"}, 2},
		{"non-string key", []any{123, "value"}, 1},
		{"nil value", []any{"a", nil}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := toFields(tt.input...)

			if got := len(fields); got != tt.want {
				t.Fatalf("toFields(%v) produced %d fields, want %d", tt.input, got, tt.want)
			}

			for _, f := range fields {
				if f.Key == "" {
					t.Errorf("field has empty key: %+v", f)
				}
			}
		})
	}
}
