//go:build !windows

package clipboard

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestFyneClipboardSetText(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := a.NewWindow("clip")

	c := NewClipboard(w.Clipboard())
	if err := c.SetText("/tmp/drawing.png"); err != nil {
		t.Fatal(err)
	}
	if got := w.Clipboard().Content(); got != "/tmp/drawing.png" {
		t.Errorf("clipboard content = %q", got)
	}
}

func TestNilClipboardUnavailable(t *testing.T) {
	c := NewClipboard(nil)
	if err := c.SetText("x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SetText = %v, want ErrUnavailable", err)
	}
}
