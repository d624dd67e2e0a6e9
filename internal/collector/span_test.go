package collector

import (
	"errors"
	"testing"

	"github.com/ujupatipanno/trash-note/internal/apperr"
)

func TestResolveLine(t *testing.T) {
	content := "alpha\nbeta\ngamma"

	tests := []struct {
		name      string
		line      int
		wantStart int
		wantEnd   int
		wantText  string
	}{
		{"first line cuts its newline", 0, 0, 6, "alpha"},
		{"middle line", 1, 6, 11, "beta"},
		{"last line without trailing newline", 2, 11, 16, "gamma"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := resolveLine(content, tt.line)
			if err != nil {
				t.Fatalf("resolveLine: %v", err)
			}
			if sp.start != tt.wantStart || sp.end != tt.wantEnd || sp.text != tt.wantText {
				t.Errorf("span = (%d, %d, %q), want (%d, %d, %q)",
					sp.start, sp.end, sp.text, tt.wantStart, tt.wantEnd, tt.wantText)
			}
		})
	}
}

func TestResolveLineTrailingNewline(t *testing.T) {
	// "a\n" has a phantom empty second line, the way editors count.
	sp, err := resolveLine("a\n", 1)
	if err != nil {
		t.Fatalf("resolveLine: %v", err)
	}
	if sp.start != 2 || sp.end != 2 || sp.text != "" {
		t.Errorf("span = (%d, %d, %q), want (2, 2, \"\")", sp.start, sp.end, sp.text)
	}
}

func TestResolveLineOutOfRange(t *testing.T) {
	for _, line := range []int{-1, 2, 10} {
		_, err := resolveLine("a\nb", line)
		if !errors.Is(err, apperr.ErrInvalidSpan) {
			t.Errorf("resolveLine(%d) error = %v, want ErrInvalidSpan", line, err)
		}
	}
}

func TestResolveSelection(t *testing.T) {
	content := "alpha\nbeta\ngamma"

	tests := []struct {
		name     string
		from, to Position
		want     string
	}{
		{"within a line", Position{0, 1}, Position{0, 4}, "lph"},
		{"across lines", Position{0, 2}, Position{1, 2}, "pha\nbe"},
		{"reversed endpoints", Position{1, 2}, Position{0, 2}, "pha\nbe"},
		{"whole first line without newline", Position{0, 0}, Position{0, 5}, "alpha"},
		{"ch clamps to line end", Position{0, 0}, Position{0, 99}, "alpha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := resolveSelection(content, tt.from, tt.to)
			if err != nil {
				t.Fatalf("resolveSelection: %v", err)
			}
			if sp.text != tt.want {
				t.Errorf("text = %q, want %q", sp.text, tt.want)
			}
			if content[sp.start:sp.end] != tt.want {
				t.Errorf("span [%d, %d) = %q, want %q", sp.start, sp.end, content[sp.start:sp.end], tt.want)
			}
		})
	}
}

func TestResolveSelectionMultibyte(t *testing.T) {
	// Positions count runes, not bytes.
	content := "héllo wörld"
	sp, err := resolveSelection(content, Position{0, 1}, Position{0, 4})
	if err != nil {
		t.Fatalf("resolveSelection: %v", err)
	}
	if sp.text != "éll" {
		t.Errorf("text = %q, want %q", sp.text, "éll")
	}
}

func TestResolveSelectionInvalid(t *testing.T) {
	tests := []struct {
		name     string
		from, to Position
	}{
		{"empty selection", Position{0, 1}, Position{0, 1}},
		{"line out of range", Position{5, 0}, Position{6, 0}},
		{"negative ch", Position{0, -1}, Position{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveSelection("alpha\nbeta", tt.from, tt.to)
			if !errors.Is(err, apperr.ErrInvalidSpan) {
				t.Errorf("error = %v, want ErrInvalidSpan", err)
			}
		})
	}
}
