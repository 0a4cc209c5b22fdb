package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	defer ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSavesDir, cfg.SavesDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultHistoryFile, cfg.HistoryPath)
	assert.Empty(t, cfg.SavePath)
	assert.False(t, cfg.NoHistory)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	defer ResetConfig()

	content := `
saves_dir: /mnt/saves
output_dir: exports
tracked_entities:
  - Germany
  - France
collections:
  nation: Custom.NationState
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/saves", cfg.SavesDir)
	assert.Equal(t, "exports", cfg.OutputDir)
	assert.Equal(t, []string{"Germany", "France"}, cfg.TrackedEntities)
	assert.Equal(t, map[string]string{"nation": "Custom.NationState"}, cfg.Collections)
	assert.Equal(t, ConfigFileName, GetConfigFileUsed())

	// Keys the file does not set keep their defaults.
	assert.Equal(t, DefaultHistoryFile, cfg.HistoryPath)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	defer ResetConfig()

	_, err := LoadConfig("nope.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	defer ResetConfig()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("output_dir: from_file\n"), 0644))
	t.Setenv("TIDATA_OUTPUT_DIR", "from_env")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.OutputDir)
}

func TestLoadConfig_FlagsWinOverEverything(t *testing.T) {
	chdir(t, t.TempDir())
	defer ResetConfig()
	t.Setenv("TIDATA_OUTPUT_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "", "")
	flags.String("save", "", "")
	flags.String("history", "", "")
	require.NoError(t, flags.Parse([]string{
		"--output-dir", "from_flag",
		"--save", "saves/campaign.gz",
		"--history", "custom.db",
	}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.OutputDir)
	assert.Equal(t, "saves/campaign.gz", cfg.SavePath, "--save maps to save_path")
	assert.Equal(t, "custom.db", cfg.HistoryPath, "--history maps to history_path")
}

func TestLoadConfig_UnchangedFlagsIgnored(t *testing.T) {
	chdir(t, t.TempDir())
	defer ResetConfig()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "flag_default", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir, "unset flags do not mask other layers")
}
