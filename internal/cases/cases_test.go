package cases

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmcdonald/dfircase/internal/adapters/osfs"
	"github.com/jmcdonald/dfircase/internal/mocks"
)

func TestListReturnsSortedDirectories(t *testing.T) {
	workDir := t.TempDir()
	for _, d := range []string{"CaseBeta", "CaseAlpha", ".hidden-case"} {
		if err := os.Mkdir(filepath.Join(workDir, d), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	if err := os.WriteFile(filepath.Join(workDir, "case_config.txt"), []byte("/backups"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := NewService(osfs.New(), workDir).List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	expected := []string{".hidden-case", "CaseAlpha", "CaseBeta"}
	if len(got) != len(expected) {
		t.Fatalf("List = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("List[%d] = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestListEmpty(t *testing.T) {
	got, err := NewService(osfs.New(), t.TempDir()).List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List = %v, expected empty", got)
	}
}

func TestListReadError(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Errors["/work"] = errors.New("permission denied")

	if _, err := NewService(fs, "/work").List(); err == nil {
		t.Error("expected ReadDir error to propagate")
	}
}

func TestCreateBuildsLayout(t *testing.T) {
	workDir := t.TempDir()

	root, err := NewService(osfs.New(), workDir).Create("  IR-2024-017  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if root != filepath.Join(workDir, "IR-2024-017") {
		t.Errorf("root = %q, expected trimmed case name", root)
	}

	expected := []string{
		"01 - Evidence",
		"02 - Case",
		"03 - Malware",
		"04 - Extracted Evidence",
		"04 - Extracted Evidence/01 - Axiom",
		"04 - Extracted Evidence/02 - XWays",
		"04 - Extracted Evidence/03 - Thor",
		"04 - Extracted Evidence/04 - Hayabusa",
	}
	for _, dir := range expected {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir)))
		if err != nil {
			t.Errorf("missing %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	info, err := os.Stat(filepath.Join(root, KeywordsFile))
	if err != nil {
		t.Fatalf("missing %s: %v", KeywordsFile, err)
	}
	if info.Size() != 0 {
		t.Errorf("%s size = %d, expected empty", KeywordsFile, info.Size())
	}
}

func TestCreateExistingCaseKeepsKeywords(t *testing.T) {
	workDir := t.TempDir()
	svc := NewService(osfs.New(), workDir)

	root, err := svc.Create("CaseAlpha")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	keywords := filepath.Join(root, KeywordsFile)
	if err := os.WriteFile(keywords, []byte("cobaltstrike\n"), 0644); err != nil {
		t.Fatalf("Failed to write keywords: %v", err)
	}

	if _, err := svc.Create("CaseAlpha"); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	data, err := os.ReadFile(keywords)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "cobaltstrike\n" {
		t.Errorf("keywords = %q, expected existing content kept", data)
	}
}

func TestCreateInvalidNames(t *testing.T) {
	tests := []string{"", "   ", ".", "..", "a/b", `a\b`, "../escape"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			fs := mocks.NewMockFileSystem()
			_, err := NewService(fs, "/work").Create(name)
			if !errors.Is(err, ErrInvalidCaseName) {
				t.Errorf("Create(%q) error = %v, expected ErrInvalidCaseName", name, err)
			}
			if paths := fs.Paths(); len(paths) != 0 {
				t.Errorf("nothing should be created, got %v", paths)
			}
		})
	}
}

func TestCreateMkdirError(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Errors[filepath.Join("/work", "CaseAlpha", "02 - Case")] = errors.New("disk full")

	if _, err := NewService(fs, "/work").Create("CaseAlpha"); err == nil {
		t.Error("expected MkdirAll error to propagate")
	}
}

func TestCreateTouchError(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Errors[filepath.Join("/work", "CaseAlpha", KeywordsFile)] = errors.New("read-only")

	if _, err := NewService(fs, "/work").Create("CaseAlpha"); err == nil {
		t.Error("expected Touch error to propagate")
	}
}

func TestCreateWithMockFileSystem(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	root, err := NewService(fs, "/work").Create("CaseAlpha")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, ok := fs.Files[filepath.Join(root, KeywordsFile)]; !ok {
		t.Error("keywords file not created")
	}
	for _, dir := range Layout {
		if _, err := fs.Stat(filepath.Join(root, dir)); err != nil {
			t.Errorf("missing %s", dir)
		}
	}
}
