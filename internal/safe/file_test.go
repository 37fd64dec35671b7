package safe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFile(t *testing.T) {
	t.Run("reads regular file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "dw.json")
		content := []byte(`{"hostname": "example.com"}`)

		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatal(err)
		}

		got, err := ReadFile(path, nil)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}

		if string(got) != string(content) {
			t.Errorf("got %q, want %q", got, content)
		}
	})

	t.Run("missing file is IsNotExist", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		if !os.IsNotExist(err) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
	})

	t.Run("rejects symlink by default", func(t *testing.T) {
		tmpDir := t.TempDir()
		src := filepath.Join(tmpDir, "config.yaml")
		link := filepath.Join(tmpDir, "link.yaml")

		if err := os.WriteFile(src, []byte("version: 1"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(src, link); err != nil {
			t.Fatal(err)
		}

		if _, err := ReadFile(link, nil); err == nil {
			t.Fatal("expected error for symlink, got nil")
		}

		got, err := ReadFile(link, &ReadOptions{AllowSymlinks: true})
		if err != nil {
			t.Fatalf("ReadFile with AllowSymlinks failed: %v", err)
		}
		if string(got) != "version: 1" {
			t.Errorf("got %q, want %q", got, "version: 1")
		}
	})

	t.Run("rejects directory", func(t *testing.T) {
		if _, err := ReadFile(t.TempDir(), nil); err == nil {
			t.Fatal("expected error for directory, got nil")
		}
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "big.yaml")

		if err := os.WriteFile(path, make([]byte, 64), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := ReadFile(path, &ReadOptions{MaxSize: 32}); err == nil {
			t.Fatal("expected error for oversized file, got nil")
		}
	})
}
