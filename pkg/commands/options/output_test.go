package options

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/tokenbar/pkg/app"
)

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	saved := color.Output
	color.Output = &buf
	t.Cleanup(func() { color.Output = saved })

	plain := &OutputOptions{}
	boom := errors.New("boom")
	if err := plain.HandleError(boom); err != boom {
		t.Fatalf("expected error passed through, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}

	asJSON := &OutputOptions{JSON: true}
	if err := asJSON.HandleError(nil); err != nil {
		t.Fatalf("nil error: %v", err)
	}
	err := fmt.Errorf("record DOT: %w", app.ErrInsufficientBalance)
	if got := asJSON.HandleError(err); got != nil {
		t.Fatalf("expected error swallowed, got %v", got)
	}
	out := strings.TrimSpace(buf.String())
	if !strings.Contains(out, `"kind":"insufficient_balance"`) || !strings.Contains(out, `"error":"record DOT:`) {
		t.Fatalf("unexpected json %s", out)
	}

	buf.Reset()
	_ = asJSON.HandleError(ErrNoAddress)
	if !strings.Contains(buf.String(), `"kind":"address"`) {
		t.Fatalf("unexpected json %s", buf.String())
	}
}
