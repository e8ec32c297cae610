package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

// stores builds one of each backend over a temp location.
func stores(t *testing.T) map[string]BlobStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "saves"))
	if err != nil {
		t.Fatal(err)
	}
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]BlobStore{"file": fs, "sqlite": db}
}

func TestRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			blob := []byte(`{"room":"hinterhof"}`)
			if err := s.Save("schattennetz", "mara", blob); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Load("schattennetz", "mara")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if string(got) != string(blob) {
				t.Errorf("Load = %q", got)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load("schattennetz", "nobody"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save("schattennetz", "mara", []byte("alt")); err != nil {
				t.Fatal(err)
			}
			if err := s.Save("schattennetz", "mara", []byte("neu")); err != nil {
				t.Fatal(err)
			}
			got, err := s.Load("schattennetz", "mara")
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "neu" {
				t.Errorf("Load after overwrite = %q", got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save("schattennetz", "mara", []byte("x")); err != nil {
				t.Fatal(err)
			}
			if err := s.Delete("schattennetz", "mara"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Load("schattennetz", "mara"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("after delete err = %v, want ErrNotFound", err)
			}
			// Deleting again stays quiet.
			if err := s.Delete("schattennetz", "mara"); err != nil {
				t.Fatalf("second Delete: %v", err)
			}
		})
	}
}

func TestUsersIsolated(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save("schattennetz", "mara", []byte("m")); err != nil {
				t.Fatal(err)
			}
			if err := s.Save("schattennetz", "kai", []byte("k")); err != nil {
				t.Fatal(err)
			}
			got, err := s.Load("schattennetz", "mara")
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "m" {
				t.Errorf("mara's save = %q", got)
			}
		})
	}
}
