package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteLinesAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "books.txt")
		lines := []string{"Dune|Herbert|X1|1965|1", "Emma|Austen|X2|1815|0"}

		n, err := writeLinesAtomic(filename, lines, 0644)
		if err != nil {
			t.Fatalf("writeLinesAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		want := "Dune|Herbert|X1|1965|1\nEmma|Austen|X2|1815|0\n"
		if string(got) != want {
			t.Errorf("Expected content %q, got %q", want, got)
		}
		if n != int64(len(want)) {
			t.Errorf("Expected %d bytes written, got %d", len(want), n)
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "users.txt")

		if err := os.WriteFile(filename, []byte("Old|1\nOlder|2\n"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if _, err := writeLinesAtomic(filename, []string{"Ada|7|X1"}, 0644); err != nil {
			t.Fatalf("writeLinesAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "Ada|7|X1\n" {
			t.Errorf("Expected content %q, got %q", "Ada|7|X1\n", got)
		}
	})

	t.Run("Empty Collection Truncates", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "books.txt")
		if err := os.WriteFile(filename, []byte("Dune|Herbert|X1|1965|1\n"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		n, err := writeLinesAtomic(filename, nil, 0644)
		if err != nil {
			t.Fatalf("writeLinesAtomic failed: %v", err)
		}
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 || info.Size() != 0 {
			t.Errorf("Expected empty file, got %d bytes (reported %d)", info.Size(), n)
		}
	})

	t.Run("Applies Permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "users.txt")

		if _, err := writeLinesAtomic(filename, []string{"Ada|7"}, 0600); err != nil {
			t.Fatalf("writeLinesAtomic failed: %v", err)
		}

		info, err := os.Stat(filename)
		if err != nil {
			t.Fatal(err)
		}
		// Windows only honours the read-only bit.
		t.Logf("File permissions: %v", info.Mode())
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "missing_folder", "books.txt")

		if _, err := writeLinesAtomic(filename, []string{"fail"}, 0644); err == nil {
			t.Error("Expected error when directory is missing, got nil")
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "books.txt")
		for i := 0; i < 3; i++ {
			if _, err := writeLinesAtomic(filename, []string{"x"}, 0644); err != nil {
				t.Fatalf("writeLinesAtomic failed: %v", err)
			}
		}

		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only books.txt, found %d entries", len(entries))
		}
	})
}
