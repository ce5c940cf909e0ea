package output

import (
	"fmt"
	"io"
	"os"
)

type Class int

const (
	Required Class = iota //explicitly requested information
	Error
	Normal //noteworthy facts
	Verbose
)

// Printer routes output by class, classes not included are dropped.
type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
}

func NewPrinter(include []Class, allowEscapes bool) Printer {
	return NewPrinterTo(os.Stdout, os.Stderr, include, allowEscapes)
}

// NewPrinterTo writes errors to diagnosis and everything else to terminal.
func NewPrinterTo(terminal io.Writer, diagnosis io.Writer, include []Class, allowEscapes bool) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   terminal,
		diagnosis:  diagnosis,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := p.terminal
	if class == Error {
		target = p.diagnosis
	}
	fmt.Fprintf(target, format, values...)
}

// Sprintf formats like fmt.Sprintf but drops all SgrModifier arguments unless escapes are allowed.
func (p Printer) Sprintf(format string, values ...interface{}) string {
	if !p.useEscapes {
		for i, value := range values {
			if _, isModifier := value.(SgrModifier); isModifier {
				values[i] = ""
			}
		}
	}
	return fmt.Sprintf(format, values...)
}

// Colorize wraps the text in the modifier if escapes are allowed.
func (p Printer) Colorize(modifier SgrModifier, text string) string {
	return p.Sprintf("%s%s%s", modifier, text, Reset)
}

func (p Printer) UsesEscapes() bool {
	return p.useEscapes
}
