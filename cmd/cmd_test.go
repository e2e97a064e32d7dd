package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bgraf/coordextract/gpx"
	"github.com/bgraf/coordextract/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const sampleGPX = "../pipeline/testdata/sample.gpx"

// resetFlags restores every flag to its default; cobra keeps flag values
// between executions of the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseLatLon(t *testing.T) {
	tests := []struct {
		in       string
		lat, lon float64
		wantErr  bool
	}{
		{in: "34.6195,-117.8319", lat: 34.6195, lon: -117.8319},
		{in: " 1.5 , 2.5 ", lat: 1.5, lon: 2.5},
		{in: "900,-900", lat: 900, lon: -900},
		{in: "34.6195", wantErr: true},
		{in: "abc,1", wantErr: true},
		{in: "1,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lat, lon, err := parseLatLon(tt.in)
			if tt.wantErr {
				if !errors.Is(err, gpx.ErrInvalidCoordinateValue) {
					t.Fatalf("expected ErrInvalidCoordinateValue, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if lat != tt.lat || lon != tt.lon {
				t.Errorf("got %v,%v", lat, lon)
			}
		})
	}
}

func TestMGRSCommand(t *testing.T) {
	out, err := execute(t, "mgrs", "37.65815587109628,-101.45319156731206")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "14SKG8360370719\n" {
		t.Errorf("got %q", out)
	}

	out, err = execute(t, "mgrs", "--precision", "3", "37.65815587109628,-101.45319156731206")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "14SKG836707\n" {
		t.Errorf("got %q", out)
	}
}

func TestMGRSCommand_Errors(t *testing.T) {
	tests := []struct {
		arg  string
		want pipeline.ErrorKind
	}{
		{"900,-900", pipeline.KindConversion},
		{"north,east", pipeline.KindInvalidCoordinateValue},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			_, err := execute(t, "mgrs", "--", tt.arg)
			if got := pipeline.Classify(err); got != tt.want {
				t.Errorf("got %v (%v), want %v", got, err, tt.want)
			}
		})
	}
}

func TestLatLonCommand(t *testing.T) {
	out, err := execute(t, "latlon", "14SKG8360370719")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	latText, lonText, ok := strings.Cut(strings.TrimSpace(out), ",")
	if !ok {
		t.Fatalf("unexpected output %q", out)
	}
	lat, _ := strconv.ParseFloat(latText, 64)
	lon, _ := strconv.ParseFloat(lonText, 64)
	if math.Abs(lat-37.65815587109628) > 1e-4 || math.Abs(lon+101.45319156731206) > 1e-4 {
		t.Errorf("got %v,%v", lat, lon)
	}

	_, err = execute(t, "latlon", "not-a-grid-ref")
	if got := pipeline.Classify(err); got != pipeline.KindInvalidMGRS {
		t.Errorf("got %v (%v)", got, err)
	}
}

func TestConvertCommand_Single(t *testing.T) {
	out, err := execute(t, "convert", sampleGPX)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 records, got %d", len(rows))
	}
	if rows[0]["gpxpoint"] != "waypoint" || rows[0]["name"] != "Trailhead" {
		t.Errorf("first record %v", rows[0])
	}
}

func TestConvertCommand_OutputFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "points.yaml")

	out, err := execute(t, "convert", "--format", "yaml", "-o", dest, sampleGPX)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "" {
		t.Errorf("expected no stdout, got %q", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "gpxpoint: waypoint") {
		t.Errorf("unexpected yaml:\n%s", data)
	}
}

func TestConvertCommand_Batch(t *testing.T) {
	sample, err := os.ReadFile(sampleGPX)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	in := t.TempDir()
	for _, name := range []string{"a.gpx", "b.GPX", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(in, name), sample, 0o666); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	outDir := filepath.Join(t.TempDir(), "out")

	_, err = execute(t, "convert", "--progress=false", "--jobs", "2", "--output-dir", outDir, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, name := range []string{"a.json", "b.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "notes.json")); err == nil {
		t.Errorf("notes.txt should not be converted")
	}
}

func TestConvertCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.gpx")
	if err := os.WriteFile(empty, nil, 0o666); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := execute(t, "convert", empty)
	if got := pipeline.Classify(err); got != pipeline.KindEmptyDocument {
		t.Errorf("got %v (%v)", got, err)
	}

	_, err = execute(t, "convert", "-o", filepath.Join(dir, "out.csv"), sampleGPX)
	if got := pipeline.Classify(err); got != pipeline.KindUnsupportedFile {
		t.Errorf("got %v (%v)", got, err)
	}

	_, err = execute(t, "convert", "--format", "yaml", "-o", filepath.Join(dir, "out.json"), sampleGPX)
	if got := pipeline.Classify(err); got != pipeline.KindUnsupportedFile {
		t.Errorf("format mismatch: got %v (%v)", got, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.json")); !os.IsNotExist(err) {
		t.Errorf("format mismatch should write nothing")
	}

	_, err = execute(t, "convert", "-o", filepath.Join(dir, "missing", "out.json"), sampleGPX)
	if got := pipeline.Classify(err); got != pipeline.KindWrite {
		t.Errorf("got %v (%v)", got, err)
	}
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info", sampleGPX)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var info map[string]any
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for key, want := range map[string]float64{"waypoints": 2, "trackPoints": 3, "routePoints": 1, "points": 6, "extracted": 6} {
		if info[key] != want {
			t.Errorf("%s = %v, want %v", key, info[key], want)
		}
	}
	if info["schemaVersion"] != "1.1" {
		t.Errorf("schemaVersion = %v", info["schemaVersion"])
	}
}
