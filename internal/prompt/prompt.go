// Package prompt asks the questions needed to create a project. Free-text
// questions show their default in parentheses; choices are presented as a
// numbered menu. A non-interactive Prompter answers every question with its
// default without reading input.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter reads answers from r and writes questions to w.
type Prompter struct {
	reader      *bufio.Reader
	w           io.Writer
	interactive bool
	eof         bool
}

// New returns a Prompter. When interactive is false, r is never read.
func New(r io.Reader, w io.Writer, interactive bool) *Prompter {
	return &Prompter{
		reader:      bufio.NewReader(r),
		w:           w,
		interactive: interactive,
	}
}

// Interactive reports whether the prompter reads answers.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Input asks a free-text question. An empty answer selects def.
func (p *Prompter) Input(label, def string) (string, error) {
	if !p.interactive {
		return def, nil
	}

	if def != "" {
		fmt.Fprintf(p.w, "%s (%s): ", label, def)
	} else {
		fmt.Fprintf(p.w, "%s: ", label)
	}

	line, err := p.readLine()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Required asks a free-text question until a non-empty answer is given.
// Non-interactive prompters fail when def is empty.
func (p *Prompter) Required(label, def string) (string, error) {
	for {
		answer, err := p.Input(label, def)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if !p.interactive || p.eof {
			return "", fmt.Errorf("%s is required", strings.ToLower(label))
		}
		fmt.Fprintf(p.w, "%s is required.\n", label)
	}
}

// Select presents items as a numbered menu and returns the chosen item. The
// answer is a menu number or an item typed exactly. An empty answer selects
// def; def must be one of items or empty, in which case the first item is
// the default.
func (p *Prompter) Select(label string, items []string, def string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no choices available for %s", strings.ToLower(label))
	}
	defIdx := 0
	for i, item := range items {
		if item == def {
			defIdx = i
			break
		}
	}
	if !p.interactive {
		return items[defIdx], nil
	}

	fmt.Fprintf(p.w, "\n%s\n", label)
	for i, item := range items {
		fmt.Fprintf(p.w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(p.w, "Enter number [1-%d] (%d): ", len(items), defIdx+1)

	line, err := p.readLine()
	if err != nil {
		return "", fmt.Errorf("reading selection: %w", err)
	}
	if line == "" {
		return items[defIdx], nil
	}

	for _, item := range items {
		if line == item {
			return item, nil
		}
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(items) {
		return "", fmt.Errorf("invalid selection %q: choose 1-%d", line, len(items))
	}
	return items[num-1], nil
}

// readLine returns the next trimmed line. A final line without a newline is
// accepted; EOF with no data is an empty answer.
func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		p.eof = true
	} else if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
