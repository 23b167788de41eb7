package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func collectCodes(t *testing.T, s *Scanner) []string {
	t.Helper()
	var codes []string
	for d, err := range s.CodeDirs() {
		if err != nil {
			t.Fatalf("CodeDirs: %v", err)
		}
		codes = append(codes, d.Code)
	}
	return codes
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"abcd", false},
		{"12a4", false},
		{" 1234", false},
		{"1234 ", false},
		{"１２３４", true}, // full-width
		{"٠١٢٣", true},    // Arabic-Indic
		{"12３4", true},
		{"１２３", false},
		{"Ⅻ１２３", false}, // letter number, not a decimal digit
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCode(tt.name); got != tt.want {
			t.Errorf("IsCode(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCodeDirs_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "5678")
	mkdir(t, root, "1234")
	mkdir(t, root, "abcd")
	mkdir(t, root, "123")
	mkdir(t, root, "12345")
	mkdir(t, root, "0042")
	mkdir(t, root, "１２３４")
	mkdir(t, root, "１２３")
	touch(t, root, "9999") // a file with a code name is not a directory

	got := collectCodes(t, New(root, nil))
	want := []string{"0042", "1234", "5678", "１２３４"}
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCodeDirs_Restartable(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "1111")
	s := New(root, nil)

	first := collectCodes(t, s)
	mkdir(t, root, "2222")
	second := collectCodes(t, s)

	if len(first) != 1 || len(second) != 2 {
		t.Errorf("expected re-iteration to re-read root, got %v then %v", first, second)
	}
}

func TestCodeDirs_EarlyStop(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "1111")
	mkdir(t, root, "2222")

	n := 0
	for range New(root, nil).CodeDirs() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("expected one iteration, got %d", n)
	}
}

func TestCodeDirs_MissingRoot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"), nil)
	var gotErr error
	for _, err := range s.CodeDirs() {
		gotErr = err
	}
	if gotErr == nil {
		t.Error("expected error for missing root")
	}
}

func TestImages_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.JPG")
	touch(t, dir, "a.png")
	touch(t, dir, "c.jpeg")
	touch(t, dir, "d.Bmp")
	touch(t, dir, "e.gif")
	touch(t, dir, "notes.txt")
	touch(t, dir, "photo.webp")
	touch(t, dir, "noext")
	mkdir(t, dir, "nested.jpg")
	nested := mkdir(t, dir, "resize")
	touch(t, nested, "old.jpg")

	s := New("", map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".gif": true})
	files, err := s.Images(dir)
	if err != nil {
		t.Fatalf("Images: %v", err)
	}

	want := []string{"a.png", "b.JPG", "c.jpeg", "d.Bmp", "e.gif"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
