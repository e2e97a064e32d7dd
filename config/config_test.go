package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults(viper.GetViper())
}

func TestDefaults(t *testing.T) {
	resetViper(t)

	if Indent() != 2 {
		t.Errorf("indent %d", Indent())
	}
	if Format() != "json" || Mode() != "fail-fast" {
		t.Errorf("format %q mode %q", Format(), Mode())
	}
	if Jobs() < 1 {
		t.Errorf("jobs %d", Jobs())
	}
	if ServeAddress() != ":8000" {
		t.Errorf("address %q", ServeAddress())
	}
	if HasOutputDirectory() {
		t.Errorf("no output directory expected")
	}
	if exts := InputExtensions(); len(exts) != 1 || exts[0] != ".gpx" {
		t.Errorf("extensions %v", exts)
	}
	if MaxUploadBytes() != 32<<20 {
		t.Errorf("max upload %d", MaxUploadBytes())
	}
}

func TestConfigFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), ".coordextract.yaml")
	content := "output:\n  indent: 4\n  format: yaml\nbuild:\n  mode: best-effort\nbatch:\n  jobs: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
		t.Fatalf("write: %v", err)
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	if Indent() != 4 || Format() != "yaml" || Mode() != "best-effort" || Jobs() != 3 {
		t.Errorf("config not applied: indent=%d format=%q mode=%q jobs=%d", Indent(), Format(), Mode(), Jobs())
	}
}

func TestJobsFallsBackOnNonPositive(t *testing.T) {
	resetViper(t)
	viper.Set(KeyJobs, 0)
	if Jobs() != DefaultJobs() {
		t.Errorf("jobs %d", Jobs())
	}
}
