package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDir_SetGetDelete(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "nested", "data"))

	if _, ok, err := d.Get("k"); err != nil || ok {
		t.Fatalf("Get on empty dir: ok=%v err=%v", ok, err)
	}

	if err := d.Set("k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := d.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(b) != `{"a":1}` {
		t.Errorf("Get: got %q", b)
	}
	if _, err := os.Stat(filepath.Join(d.Path, "k.json")); err != nil {
		t.Errorf("expected k.json on disk: %v", err)
	}

	if err := d.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := d.Get("k"); ok {
		t.Error("key still present after Delete")
	}
	if err := d.Delete("k"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestDir_InvalidKey(t *testing.T) {
	d := New(t.TempDir())
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := d.Set(key, []byte("x")); err == nil {
			t.Errorf("Set(%q): expected error", key)
		}
	}
}
