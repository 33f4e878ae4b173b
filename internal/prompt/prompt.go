// Package prompt asks the startup questions on a console.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrNoAnswer = errors.New("prompt: input closed before an answer was given")

// Answers holds the startup choices.
type Answers struct {
	RefreshMs int
	FromFile  bool
	Path      string
}

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Refresh asks for a positive refresh interval in milliseconds, asking again on bad input.
func (p *Prompter) Refresh() (int, error) {
	for {
		line, err := p.ask("Enter RAM refresh frequency in milliseconds: ")
		if err != nil {
			return 0, err
		}
		ms, convErr := strconv.Atoi(line)
		if convErr == nil && ms > 0 {
			return ms, nil
		}
		fmt.Fprintf(p.out, "Invalid refresh frequency: %q. Please enter a positive integer.\n", line)
	}
}

// YesNo reports whether the answer is y or Y.
func (p *Prompter) YesNo(question string) (bool, error) {
	line, err := p.ask(question)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "y"), nil
}

func (p *Prompter) Path() (string, error) {
	for {
		line, err := p.ask("Path to rows file (.txt): ")
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// Startup runs the full question sequence. When askPath is false the caller
// supplies the path itself, e.g. from a file dialog.
func (p *Prompter) Startup(askPath bool) (Answers, error) {
	var a Answers
	var err error
	if a.RefreshMs, err = p.Refresh(); err != nil {
		return a, err
	}
	if a.FromFile, err = p.YesNo("Do you want to initialize rows from a file? (y/n): "); err != nil {
		return a, err
	}
	if a.FromFile && askPath {
		if a.Path, err = p.Path(); err != nil {
			return a, err
		}
	}
	return a, nil
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrNoAnswer
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
