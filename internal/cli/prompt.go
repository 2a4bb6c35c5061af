package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompter asks init questions on out and reads answers from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// answer returns the next trimmed line. eof is set once input is exhausted.
func (p *prompter) answer() (line string, eof bool, err error) {
	raw, err := p.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
		return strings.TrimSpace(raw), true, nil
	case err != nil:
		return "", false, err
	}
	return strings.TrimSpace(raw), false, nil
}

// text asks for a value. An empty answer takes fallback when one is set.
func (p *prompter) text(label, fallback string) (string, error) {
	for {
		if fallback == "" {
			fmt.Fprintf(p.out, "%s: ", label)
		} else {
			fmt.Fprintf(p.out, "%s [%s]: ", label, fallback)
		}
		line, eof, err := p.answer()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		if fallback != "" {
			return fallback, nil
		}
		if eof {
			return "", fmt.Errorf("no answer for %s", strings.ToLower(label))
		}
	}
}

// confirm asks a yes/no question, re-asking on anything else.
func (p *prompter) confirm(label string, fallback bool) (bool, error) {
	hint := "y/N"
	if fallback {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", label, hint)
		line, eof, err := p.answer()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return fallback, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if eof {
			return false, fmt.Errorf("expected yes or no, got %q", line)
		}
		fmt.Fprintln(p.out, "Answer y or n.")
	}
}
