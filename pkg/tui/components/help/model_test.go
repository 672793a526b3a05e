package help

import (
	"strings"
	"testing"
)

func TestHelpRendersKeyReference(t *testing.T) {
	m := New(60, 40)
	if err := m.Err(); err != nil {
		t.Fatalf("render: %v", err)
	}
	view := m.View()
	for _, want := range []string{"Filter strip", "More panel", "tab", "ctrl+c"} {
		if !strings.Contains(view, want) {
			t.Fatalf("help missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "\x1b[") {
		t.Fatalf("expected markdown styling stripped:\n%q", view)
	}
}

func TestHelpReflowsParagraphs(t *testing.T) {
	// the intro paragraph breaks its source lines mid-sentence; glamour
	// reflows it to the wrap width
	m := New(120, 40)
	if !strings.Contains(m.View(), "in the order the balance") {
		t.Fatalf("paragraph kept its source line breaks:\n%s", m.View())
	}
}

func TestSetSizeClampsToMinimum(t *testing.T) {
	m := New(1, 1)
	if m.width != 24 || m.height != 5 {
		t.Fatalf("size = %dx%d, want 24x5", m.width, m.height)
	}
}
