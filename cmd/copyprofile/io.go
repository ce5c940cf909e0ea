package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"unicode"

	"golang.org/x/term"

	"github.com/n2code/copyprofile"
)

const ctrlC = 3

func PromptUser(allowEscapeSequences bool) copyprofile.RequestChoice {
	return func(request string, options []string, cleanup bool) (choice string) {
		letterToChoice, displayOptions := shortcutOptions(options, allowEscapeSequences)

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		defer signal.Stop(interrupt)

		rawMode := false
		if allowEscapeSequences {
			if oldTermState, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
				rawMode = true
				defer term.Restore(int(os.Stdin.Fd()), oldTermState)
			} // else ENTER is required to confirm input -> acceptable fallback
		}
		say := func(text string, onlyRaw bool) {
			if rawMode || !onlyRaw {
				fmt.Fprint(os.Stdout, text)
			}
		}

		input := bufio.NewReader(os.Stdin)
		keys := make(chan rune, 1) //a read still pending when the prompt returns must be able to finish
		waitForKey := func() {
			key, ok := readKey(input, rawMode)
			if !ok {
				select {
				case interrupt <- os.Interrupt:
				default: //already interrupted
				}
				return
			}
			keys <- key
		}

		prompt := fmt.Sprintf("%s (%s): ", request, strings.Join(displayOptions, " / "))
		say(prompt, false)
		for {
			go waitForKey()
			select {
			case key := <-keys:
				if selection, found := letterToChoice[key]; found {
					say(string(unicode.ToUpper(key)), true)
					if cleanup {
						say("\033[2K\r", true) //clear line
					} else {
						say("\r\n", true)
					}
					return selection
				}
				say("\a", true) //bell
				if !rawMode {
					say(prompt, false)
				}
			case <-interrupt:
				say("<CANCELLED>\r\n", false)
				return copyprofile.ChoiceAborted
			}
		}
	}
}

// shortcutOptions assigns each option the first of its letters not claimed by an earlier option,
// in either case. The display labels highlight that letter.
func shortcutOptions(options []string, allowEscapeSequences bool) (letterToChoice map[rune]string, display []string) {
	letterToChoice = make(map[rune]string)
	for _, option := range options {
		for i, letter := range option {
			if _, taken := letterToChoice[letter]; taken {
				continue
			}
			letterToChoice[unicode.ToUpper(letter)] = option
			letterToChoice[unicode.ToLower(letter)] = option
			marked := fmt.Sprintf("\x1B[1m\x1B[4m%c\x1B[0m", letter)
			if !allowEscapeSequences {
				marked = fmt.Sprintf("[%c]", letter)
			}
			display = append(display, option[:i]+marked+option[i+len(string(letter)):])
			break
		}
	}
	return
}

// readKey yields the next answer. In raw mode every key press counts, otherwise an answer is
// a single character followed by the line end and everything else yields '?'.
// ok is false if the input is exhausted or Ctrl+C was pressed.
func readKey(input *bufio.Reader, rawMode bool) (key rune, ok bool) {
	first, _, err := input.ReadRune()
	if err != nil {
		return 0, false
	}
	if rawMode {
		return first, first != ctrlC
	}
	if first == '\n' || first == '\r' {
		return '?', true
	}
	rest, err := input.ReadString('\n')
	if strings.TrimRight(rest, "\r\n") != "" {
		return '?', true
	}
	if err != nil && err != io.EOF {
		return 0, false
	}
	return first, true
}

// AutoChooseDefaultOption answers every request with the first option, echoing the decision unless quiet.
func AutoChooseDefaultOption(out io.Writer, quiet bool) copyprofile.RequestChoice {
	return func(request string, options []string, cleanup bool) string {
		defaultChoice := options[0] //by definition of type RequestChoice
		if !cleanup && !quiet {
			fmt.Fprintf(out, "%s => [%s]\n", request, strings.ToUpper(defaultChoice))
		}
		return defaultChoice
	}
}
