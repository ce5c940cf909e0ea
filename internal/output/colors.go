package output

import "fmt"

// SgrModifier is a "Select Graphic Rendition" terminal control sequence.
type SgrModifier string

const (
	Reset   SgrModifier = "\x1B[0m"
	Bold    SgrModifier = "\x1B[1m"
	Dim     SgrModifier = "\x1B[2m"
	Invert  SgrModifier = "\x1B[7m"
	Red     SgrModifier = "\x1B[31m"
	Green   SgrModifier = "\x1B[32m"
	Yellow  SgrModifier = "\x1B[33m"
	Magenta SgrModifier = "\x1B[35m"
	Cyan    SgrModifier = "\x1B[36m"
)

func TerminalFormatAsDim(text string) string {
	return fmt.Sprintf("%s%s%s", Dim, text, Reset)
}

