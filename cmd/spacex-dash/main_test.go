package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = "../../internal/dataset/testdata/launches.csv"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SPACEX_DASH_CONFIG", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	out, err := execute(t, "summary", "--dataset", fixture)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{
		"Records:  21",
		"Payload:  0 - 15600 kg",
		"Sites:    CCAFS LC-40, VAFB SLC-4E, KSC LC-39A, CCAFS SLC-40",
		"Total Successful Launches per Site",
		"SITE",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "render", "--dataset", fixture, "--out", dir,
		"--site", "KSC LC-39A", "--low", "2000", "--high", "8000", "--format", "svg")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"pie.svg", "scatter.svg"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Contains(data, []byte("<svg")) {
			t.Fatalf("%s is not an svg document", name)
		}
		if !strings.Contains(out, "Wrote "+path) {
			t.Fatalf("output does not mention %s:\n%s", path, out)
		}
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "render", "--dataset", fixture, "--out", t.TempDir(), "--format", "gif")
	if err == nil {
		t.Fatal("expected error for gif format")
	}
}

func TestMissingDatasetFails(t *testing.T) {
	_, err := execute(t, "summary", "--dataset", filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil || !strings.Contains(err.Error(), "dataset.load") {
		t.Fatalf("expected dataset.load error, got %v", err)
	}
}
