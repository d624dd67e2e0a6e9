package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpen_MissingFileUsesDefaults(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got := s.Get()
	if got != Defaults() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

func TestUpdate_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = s.Update(func(st *Settings) {
		st.CollectorPath = "inbox/trash.md"
		st.AddTimestamp = true
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// A fresh store must see the persisted values.
	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reloaded.Get()
	if got.CollectorPath != "inbox/trash.md" {
		t.Errorf("collector path = %q", got.CollectorPath)
	}
	if !got.AddTimestamp {
		t.Error("add_timestamp not persisted")
	}
	// Untouched fields keep their defaults.
	if got.TimestampFormat != Defaults().TimestampFormat {
		t.Errorf("timestamp format = %q", got.TimestampFormat)
	}
}

func TestUpdate_ValidationFailureLeavesStoreUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	err = s.Update(func(st *Settings) {
		st.CollectorPath = "../outside.md"
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if s.Get().CollectorPath != "" {
		t.Errorf("collector path mutated to %q despite validation failure", s.Get().CollectorPath)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("settings file written despite validation failure")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"defaults valid", func(*Settings) {}, ""},
		{"relative collector", func(s *Settings) { s.CollectorPath = "notes/c.md" }, ""},
		{"absolute collector", func(s *Settings) { s.CollectorPath = "/etc/c.md" }, "vault-relative"},
		{"traversal collector", func(s *Settings) { s.CollectorPath = "../c.md" }, "escape"},
		{"collector without extension", func(s *Settings) { s.CollectorPath = "c.txt" }, ".md"},
		{"relative folder", func(s *Settings) { s.DestinationFolder = "archive/2024" }, ""},
		{"absolute folder", func(s *Settings) { s.DestinationFolder = "/archive" }, "vault-relative"},
		{"traversal folder", func(s *Settings) { s.DestinationFolder = "a/../../b" }, "escape"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st := Defaults()
			c.mutate(&st)
			err := st.Validate()
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("error = %v, want substring %q", err, c.wantErr)
			}
		})
	}
}
