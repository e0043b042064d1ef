package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "lispy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("output", "o", "", "")
	flags.Int("max-depth", 0, "")
	flags.String("extensions-dir", "", "")
	flags.String("state", "", "")
	flags.Bool("no-history", false, "")
	flags.Int("jobs", 0, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	root, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	projectRoot, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, root, projectRoot)

	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultEntry), cfg.Entry)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultExtensionsDir), cfg.ExtensionsDir)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
	assert.True(t, cfg.History)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, DefaultPrompt, cfg.REPL.Prompt)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileFoundUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
entry: main.lispy
max_depth: 42
history: false
watch:
  debounce: 1s
repl:
  prompt: "> "
`)
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "main.lispy", filepath.Base(cfg.Entry))
	assert.NotContains(t, cfg.Entry, "deep", "paths resolve against the project root")
	assert.Equal(t, 42, cfg.MaxDepth)
	assert.False(t, cfg.History)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "> ", cfg.REPL.Prompt)
	assert.Equal(t, "lispy.yaml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: 9\n"), 0o600))
	t.Chdir(t.TempDir())
	ResetConfig()

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Jobs)
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_depth: 100\njobs: 2\noutput: text\n")
	t.Chdir(dir)
	ResetConfig()

	t.Setenv("LISPY_MAX_DEPTH", "200")
	t.Setenv("LISPY_JOBS", "3")
	t.Setenv("LISPY_WATCH_DEBOUNCE", "75ms")
	t.Setenv("LISPY_REPL_PROMPT", "env> ")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--max-depth", "300", "--no-history", "--state", ":memory:"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.MaxDepth, "flag beats env and file")
	assert.Equal(t, 3, cfg.Jobs, "env beats file")
	assert.Equal(t, "text", cfg.OutputFormat, "file beats default")
	assert.Equal(t, 75*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "env> ", cfg.REPL.Prompt)
	assert.False(t, cfg.History)
	assert.Equal(t, ":memory:", cfg.StatePath)
}

func TestLoadConfig_FlagPathsRelativeToWorkingDir(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o750))
	t.Chdir(sub)
	ResetConfig()

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--extensions-dir", "ext", "--state", "run.db"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "ext"), cfg.ExtensionsDir)
	assert.Equal(t, filepath.Join(cwd, "run.db"), cfg.StatePath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative depth", "max_depth: -1\n", "max_depth must not be negative"},
		{"zero jobs", "jobs: 0\n", "jobs must be at least 1"},
		{"bad output", "output: html\n", "output must be one of"},
		{"bad duration", "watch:\n  debounce: soon\n", "unable to decode config"},
		{"bad yaml", "jobs: [\n", "error reading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			t.Chdir(dir)
			ResetConfig()

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, GetCurrentConfig())
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "max_depth", envKey("LISPY_MAX_DEPTH"))
	assert.Equal(t, "watch.debounce", envKey("LISPY_WATCH_DEBOUNCE"))
	assert.Equal(t, "repl.history_file", envKey("LISPY_REPL_HISTORY_FILE"))
}

func TestGetLogger_Fallback(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), -8))
}
