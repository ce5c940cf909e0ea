package output

import (
	"bytes"
	"testing"
)

func TestPrinterRoutesClasses(t *testing.T) {
	var terminal, diagnosis bytes.Buffer
	p := NewPrinterTo(&terminal, &diagnosis, []Class{Required, Error}, false)

	p.Out(Required, "requested %d\n", 1)
	p.Out(Normal, "noteworthy\n")
	p.Out(Verbose, "chatty\n")
	p.Out(Error, "broken\n")

	if got := terminal.String(); got != "requested 1\n" {
		t.Errorf("unexpected terminal output: %q", got)
	}
	if got := diagnosis.String(); got != "broken\n" {
		t.Errorf("unexpected diagnosis output: %q", got)
	}
}

func TestPrinterEscapes(t *testing.T) {
	plain := NewPrinterTo(nil, nil, nil, false)
	fancy := NewPrinterTo(nil, nil, nil, true)

	if got := plain.Colorize(Red, "x"); got != "x" {
		t.Errorf("plain printer must drop escapes, got %q", got)
	}
	if got := fancy.Colorize(Red, "x"); got != string(Red)+"x"+string(Reset) {
		t.Errorf("fancy printer must keep escapes, got %q", got)
	}
	if got := plain.Sprintf("%s%d%s", Green, 7, "!"); got != "7!" {
		t.Errorf("only modifiers may be dropped, got %q", got)
	}
}
