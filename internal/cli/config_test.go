package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lexalign/lexalign/internal/model"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	configureViper()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	want := model.DefaultConfig()
	if cfg.Align.Mode != want.Align.Mode {
		t.Errorf("Mode = %q, want %q", cfg.Align.Mode, want.Align.Mode)
	}
	if cfg.Align.WindowRadius != want.Align.WindowRadius {
		t.Errorf("WindowRadius = %d, want %d", cfg.Align.WindowRadius, want.Align.WindowRadius)
	}
	if cfg.Corpus.MinSamplesPerClass != want.Corpus.MinSamplesPerClass {
		t.Errorf("MinSamplesPerClass = %d, want %d", cfg.Corpus.MinSamplesPerClass, want.Corpus.MinSamplesPerClass)
	}
	if !cfg.Align.EnforceOneToOne {
		t.Error("EnforceOneToOne default lost in merge")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `align:
  mode: global
  threshold: 0.6
cache:
  dir: ` + filepath.Join(dir, "cache") + `
llm:
  provider: openai
  model: gpt-4o
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	viper.SetConfigFile(path)
	configureViper()
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Align.Mode != model.ModeGlobal {
		t.Errorf("Mode = %q, want global from config file", cfg.Align.Mode)
	}
	if cfg.Align.Threshold != 0.6 {
		t.Errorf("Threshold = %v, want 0.6 from config file", cfg.Align.Threshold)
	}
	if cfg.Cache.Dir != filepath.Join(dir, "cache") {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o" {
		t.Errorf("LLM = %q/%q, want file values", cfg.LLM.Provider, cfg.LLM.Model)
	}

	// Keys the file does not mention keep their defaults.
	if cfg.Align.WindowRadius != 10 {
		t.Errorf("WindowRadius = %d, want default 10", cfg.Align.WindowRadius)
	}
	if cfg.Corpus.MinSamplesPerClass != 50 {
		t.Errorf("MinSamplesPerClass = %d, want default 50", cfg.Corpus.MinSamplesPerClass)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("align:\n  threshold: 0.6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LEXALIGN_ALIGN_THRESHOLD", "0.9")
	t.Setenv("LEXALIGN_ALIGN_WINDOW_RADIUS", "4")
	t.Setenv("LEXALIGN_CACHE_ENABLED", "false")

	viper.SetConfigFile(path)
	configureViper()
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Align.Threshold != 0.9 {
		t.Errorf("Threshold = %v, want env value 0.9 over file's 0.6", cfg.Align.Threshold)
	}
	if cfg.Align.WindowRadius != 4 {
		t.Errorf("WindowRadius = %d, want env value 4", cfg.Align.WindowRadius)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want env value false")
	}
}

func TestApplyAlignFlags_OnlyChangedFlagsOverride(t *testing.T) {
	resetViper(t)
	configureViper()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Align.Threshold = 0.6 // as if it came from the config file
	cfg.Align.WindowRadius = 7

	cmd := alignCmd
	if err := cmd.Flags().Set("window-radius", "3"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = cmd.Flags().Set("window-radius", "10")
		cmd.Flags().Lookup("window-radius").Changed = false
	})

	applyAlignFlags(cmd, cfg)

	if cfg.Align.WindowRadius != 3 {
		t.Errorf("WindowRadius = %d, want flag value 3", cfg.Align.WindowRadius)
	}
	if cfg.Align.Threshold != 0.6 {
		t.Errorf("Threshold = %v, an unset flag must not clobber the config value", cfg.Align.Threshold)
	}
}
