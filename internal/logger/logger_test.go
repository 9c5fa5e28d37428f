package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "custom json config",
			config: &Config{
				Level:  "debug",
				Format: "json",
			},
		},
		{
			name: "console config",
			config: &Config{
				Level:  "info",
				Format: "console",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.config)
			assert.NotNil(t, l)
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	l.Info("report saved")

	var entry map[string]any
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "report saved", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	child := l.With().
		Str("service", "plotboard").
		Int("widgets", 3).
		Logger()

	child.Info("session ready")

	var entry map[string]any
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)

	assert.Equal(t, "plotboard", entry["service"])
	assert.Equal(t, float64(3), entry["widgets"])
}

func TestLogger_ErrorWith(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	l.ErrorWith("load failed", errors.New("boom"), map[string]any{
		"document": "q3-sales",
	})

	var entry map[string]any
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)

	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "q3-sales", entry["document"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "warn",
		Format: "json",
		Output: buf,
	})

	l.Info("should be dropped")
	assert.Empty(t, buf.Bytes())

	l.Warn("should appear")
	assert.NotEmpty(t, buf.Bytes())
}
