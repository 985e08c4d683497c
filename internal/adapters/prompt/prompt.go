// Package prompt gathers interactive operator input from a terminal.
// It implements domain.Prompter.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminal reads operator answers line by line from in, writing prompt text
// to out. Both are injected so tests can script a conversation.
type Terminal struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewTerminal creates a Terminal over the given reader and writer.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Confirm asks a yes/no question. Only an answer beginning with "y"
// (case-insensitive) counts as yes.
func (t *Terminal) Confirm(msg string) (bool, error) {
	answer, err := t.read(msg + " (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

// Ask prompts for a free-form line of input, trimmed of whitespace.
func (t *Terminal) Ask(msg string) (string, error) {
	return t.read(msg)
}

func (t *Terminal) read(prompt string) (string, error) {
	if _, err := fmt.Fprint(t.out, prompt); err != nil {
		return "", err
	}
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.scanner.Text()), nil
}
