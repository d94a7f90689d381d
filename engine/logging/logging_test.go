package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.NoError(t, Init(tt.in, "", false))
			assert.Equal(t, tt.want, Get().GetLevel())
		})
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "life.log")
	require.NoError(t, Init("info", path, false))

	Infof("generation %d", 7)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "generation 7")
}

func TestWithFields(t *testing.T) {
	require.NoError(t, Init("debug", "", false))
	var buf bytes.Buffer
	SetOutput(&buf)

	WithFields(logrus.Fields{"generation": 3}).Debug("stepped")
	assert.Contains(t, buf.String(), "generation=3")
	assert.Contains(t, buf.String(), "stepped")
}
