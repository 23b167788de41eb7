package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"

	"github.com/imagebatch/imagebatch/internal/mapping"
	"github.com/imagebatch/imagebatch/internal/report"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeCSV(t *testing.T, path string, rows ...string) {
	t.Helper()
	data := "store,name,category,price,stock,code,product\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := imaging.Save(image.NewNRGBA(image.Rect(0, 0, w, h)), path); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommand_ProcessesCodeDirectories(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "photos")
	dir := filepath.Join(root, "1234")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, filepath.Join(dir, "tall.png"), 80, 120)
	writeImage(t, filepath.Join(dir, "wide.jpg"), 160, 90)
	if err := os.MkdirAll(filepath.Join(root, "abcd"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "5678"), 0755); err != nil {
		t.Fatal(err)
	}

	mappingPath := filepath.Join(tmp, "map.csv")
	writeCSV(t, mappingPath, "s,n,c,p,1,1234,PR-001")
	reportPath := filepath.Join(tmp, "run.yaml")

	out, errOut, err := execute(t, "--root", root, "-m", mappingPath, "--output-subdir", "web", "--report", reportPath)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	wantOut := "1234/tall.png → web/PR-001_001.png\n" +
		"1234/wide.jpg → web/PR-001_002.jpg\n" +
		"Processing complete.\n"
	if out != wantOut {
		t.Errorf("stdout:\n%s\nwant:\n%s", out, wantOut)
	}
	if !strings.Contains(errOut, "[WARN] code not found in mapping: 5678") {
		t.Errorf("stderr missing unmapped warning: %q", errOut)
	}
	if strings.Contains(errOut, "abcd") {
		t.Errorf("non-code directory should not be mentioned: %q", errOut)
	}

	img, err := imaging.Open(filepath.Join(dir, "web", "PR-001_001.png"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	if img.Bounds().Dx() != 1050 || img.Bounds().Dy() != 1400 {
		t.Errorf("portrait output is %v, want 1050x1400", img.Bounds().Size())
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var rep report.Report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not YAML: %v", err)
	}
	if rep.Totals.Written != 2 || rep.Totals.UnmappedDirs != 1 {
		t.Errorf("unexpected report totals %+v", rep.Totals)
	}
}

func TestRootCommand_FatalStartupErrors(t *testing.T) {
	tmp := t.TempDir()
	mappingPath := filepath.Join(tmp, "map.csv")
	writeCSV(t, mappingPath, "s,n,c,p,1,1234,PR-001")
	notADir := filepath.Join(tmp, "file.txt")
	if err := os.WriteFile(notADir, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	narrow := filepath.Join(tmp, "narrow.csv")
	if err := os.WriteFile(narrow, []byte("code,product\n1234,P\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing root", []string{"--root", filepath.Join(tmp, "nope"), "--mapping", mappingPath}, ErrMissingRoot},
		{"root is a file", []string{"--root", notADir, "--mapping", mappingPath}, ErrMissingRoot},
		{"missing mapping", []string{"--root", tmp, "--mapping", filepath.Join(tmp, "nope.xlsx")}, mapping.ErrFileNotFound},
		{"malformed mapping", []string{"--root", tmp, "--mapping", narrow}, mapping.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if strings.Contains(out, "Processing complete.") {
				t.Error("fatal errors must stop before processing")
			}
		})
	}

	if _, _, err := execute(t, "--mapping", mappingPath); err == nil {
		t.Error("Expected error when --root is not given")
	}
	if _, _, err := execute(t, "--root", tmp, "--mapping", mappingPath, "--output-subdir", "a/b"); err == nil {
		t.Error("Expected error for nested output subdir")
	}
}

func TestRootCommand_EnvironmentDefaults(t *testing.T) {
	tmp := t.TempDir()
	mappingPath := filepath.Join(tmp, "map.csv")
	writeCSV(t, mappingPath, "s,n,c,p,1,1234,PR-001")

	t.Setenv("IMAGEBATCH_ROOT", tmp)
	t.Setenv("IMAGEBATCH_MAPPING", mappingPath)

	out, _, err := execute(t)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "Processing complete.\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestMappingCommand(t *testing.T) {
	tmp := t.TempDir()
	mappingPath := filepath.Join(tmp, "map.csv")
	writeCSV(t, mappingPath,
		"s,n,c,p,1,5678,PR-002",
		"s,n,c,p,1,1234,PR-OLD",
		"s,n,c,p,1,1234,PR-001",
	)

	out, _, err := execute(t, "mapping", "--mapping", mappingPath)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "1234\tPR-001\n5678\tPR-002\n2 codes\n"
	if out != want {
		t.Errorf("text output = %q, want %q", out, want)
	}

	out, _, err = execute(t, "mapping", "-m", mappingPath, "--format", "csv")
	if err != nil {
		t.Fatalf("execute csv: %v", err)
	}
	if out != "code,product_no\n1234,PR-001\n5678,PR-002\n" {
		t.Errorf("csv output = %q", out)
	}

	out, _, err = execute(t, "mapping", "-m", mappingPath, "--format", "yaml")
	if err != nil {
		t.Fatalf("execute yaml: %v", err)
	}
	var entries []mapping.Entry
	if err := yaml.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("yaml output invalid: %v", err)
	}
	if len(entries) != 2 || entries[0].ProductNo != "PR-001" {
		t.Errorf("yaml entries = %+v", entries)
	}

	if _, _, err := execute(t, "mapping", "-m", mappingPath, "--format", "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
