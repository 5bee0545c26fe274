package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func createTestZip(t *testing.T, files map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	defer w.Close()

	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := createTestZip(t, map[string]string{
		"themes/dark.yaml":  "name: dark",
		"themes/light.yaml": "name: light",
		"fonts/deco.woff2":  "wOF2",
		"fonts/mono.woff2":  "wOF2",
		"extra.css":         "p { margin: 0 }",
	})

	t.Run("walk with themes prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "themes/", func(archive string, fsys fs.FS, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 2 {
			t.Errorf("visited %d files, want 2", len(visited))
		}

		expected := map[string]bool{
			"themes/dark.yaml":  true,
			"themes/light.yaml": true,
		}
		for _, name := range visited {
			if !expected[name] {
				t.Errorf("unexpected file visited: %s", name)
			}
		}
	})

	t.Run("walk with no matching prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "nonexistent/", func(archive string, fsys fs.FS, file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 0 {
			t.Errorf("visited %d files, want 0", len(visited))
		}
	})

	t.Run("walk with empty prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "", func(archive string, fsys fs.FS, file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 5 {
			t.Errorf("visited %d files, want 5", len(visited))
		}
	})

	t.Run("sibling entries reachable through fsys", func(t *testing.T) {
		err := Walk(zipPath, "themes/dark.yaml", func(archive string, fsys fs.FS, file *zip.File) error {
			data, err := fs.ReadFile(fsys, "fonts/deco.woff2")
			if err != nil {
				return err
			}
			if string(data) != "wOF2" {
				t.Errorf("sibling content = %q, want wOF2", data)
			}
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
	})

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, "themes/", func(archive string, fsys fs.FS, file *zip.File) error {
			return expectedErr
		})

		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", func(archive string, fsys fs.FS, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}

		err := Walk(invalidZip, "", func(archive string, fsys fs.FS, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	// Add directory entries (usually created by zip utilities)
	dirHeader := &zip.FileHeader{
		Name: "themes/",
	}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	fw, err := w.Create("themes/storm.yaml")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("name: storm"))

	w.Close()
	zipFile.Close()

	// Walk should not call walkFn for directories
	var visited []string
	err = Walk(zipPath, "themes/", func(archive string, fsys fs.FS, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}

	if len(visited) != 1 {
		t.Errorf("visited %d entries, want 1 (file only, not directory)", len(visited))
	}

	if len(visited) > 0 && visited[0] != "themes/storm.yaml" {
		t.Errorf("visited %s, want themes/storm.yaml", visited[0])
	}
}

func TestWalk_UnsafeEntry(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: "../escape.yaml"})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	fw.Write([]byte("name: escape"))
	w.Close()
	zipFile.Close()

	err = Walk(zipPath, "", func(archive string, fsys fs.FS, file *zip.File) error {
		t.Errorf("walkFn called for unsafe entry %s", file.Name)
		return nil
	})

	if err == nil {
		t.Error("Expected error for archive with path traversal entry")
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 5; i++ {
		files["themes/theme"+string(rune('0'+i))+".yaml"] = "name: x"
	}
	zipPath := createTestZip(t, files)

	// Walk should stop when walkFn returns error
	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "themes/", func(archive string, fsys fs.FS, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}

	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := []byte("name: storm\npalette:\n  ink: \"#222\"\n")
	zipPath := createTestZip(t, map[string]string{"storm.yaml": string(content)})

	err := Walk(zipPath, "", func(archive string, fsys fs.FS, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}

		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("content = %s, want %s", buf.Bytes(), content)
		}

		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"relative", "themes/dark.yaml", true},
		{"bare name", "dark.yaml", true},
		{"dot segment", "./dark.yaml", true},
		{"absolute", "/etc/passwd", false},
		{"backslash root", `\evil`, false},
		{"traversal", "../dark.yaml", false},
		{"nested traversal", "themes/../../dark.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSafePath(tt.path); got != tt.want {
				t.Errorf("isSafePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
