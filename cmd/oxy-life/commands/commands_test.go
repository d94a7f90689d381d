package commands

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, verbose, cfg = "", false, nil

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const testConfig = `
grid:
  width: 16
  height: 16
simulation:
  step_interval: 0
  seed:
    provider: pattern
    pattern: blinker
logging:
  level: error
  console: false
`

func TestHeadless(t *testing.T) {
	path := writeConfig(t, testConfig)
	dump := filepath.Join(t.TempDir(), "final.png")

	out, err := execute(t, "headless", "--config", path, "--backend", "software", "-n", "4", "--show", "--dump", dump)
	require.NoError(t, err)
	assert.Contains(t, out, "generation: 4\n")
	assert.Contains(t, out, "grid: 16x16\n")
	assert.Contains(t, out, "alive: 3\n")
	assert.Contains(t, out, "passes: 4")
	assert.Contains(t, out, "###")

	f, err := os.Open(dump)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestHeadlessCopyStrategy(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "headless", "--config", path, "--backend", "software", "--strategy", "copy", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, "copy", cfg.Grid.Strategy)
	assert.Contains(t, out, "copies: 3")
}

func TestHeadlessInvalidConfig(t *testing.T) {
	path := writeConfig(t, "grid:\n  width: -4\n")
	_, err := execute(t, "headless", "--config", path, "--backend", "software")
	assert.Error(t, err)

	_, err = execute(t, "headless", "--config", writeConfig(t, testConfig), "--backend", "vulkan")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "config", "init", "--config", path, "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[grid]")
	assert.Contains(t, out, "width = 512")

	out, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "width: 16")
	assert.Contains(t, out, "pattern: blinker")

	_, err = execute(t, "config", "init", "--config", path, "--format", "ini")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--config", writeConfig(t, testConfig))
	require.NoError(t, err)
	assert.Equal(t, "oxy-life v0.1.0\n", out)
}
