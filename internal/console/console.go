// Package console reads validated operator input from a terminal session.
//
// Every read blocks until a usable answer arrives: blank lines are asked again and a role that
// does not parse is rejected and asked again. The only way out without an answer is a closed
// input stream, reported as [shared.ErrInputClosed].
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
	"golang.org/x/term"
)

const (
	ConfirmPrompt = "Y[es]/N[o]"
	RoleRejected  = "Error setting role. Please choose one of the possible roles."
)

// Prompter writes prompts to out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// Option configures a [Prompter].
type Option func(*Prompter)

// WithTerminal enables hidden secret input when fd refers to a terminal.
func WithTerminal(fd int) Option {
	return func(p *Prompter) {
		p.fd = fd
	}
}

// New creates a [Prompter]. Without [WithTerminal], secrets are read as plain lines.
func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadLine prints prompt and returns the first non-blank answer, trimmed.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	return p.retry(prompt, p.readLine)
}

// ReadSecret is [Prompter.ReadLine] with terminal echo turned off.
func (p *Prompter) ReadSecret(prompt string) (string, error) {
	return p.retry(prompt, p.readSecret)
}

// ReadRole asks until the answer is one of [models.Roles].
func (p *Prompter) ReadRole(prompt string) (models.Role, error) {
	for {
		answer, err := p.ReadLine(prompt)
		if err != nil {
			return "", err
		}

		role, err := models.ParseRole(answer)
		if err == nil {
			return role, nil
		}
		fmt.Fprintln(p.out, RoleRejected)
	}
}

// Confirm asks once and reports whether the answer starts with "y" or "Y".
//
// Anything else, including no answer at all, is a decline.
func (p *Prompter) Confirm() (bool, error) {
	fmt.Fprintln(p.out, ConfirmPrompt)

	answer, err := p.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("%w: %v", shared.ErrInputClosed, err)
	}

	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y"), nil
}

func (p *Prompter) retry(prompt string, read func() (string, error)) (string, error) {
	for {
		fmt.Fprintln(p.out, prompt)

		answer, err := read()
		if answer = strings.TrimSpace(answer); answer != "" {
			return answer, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrInputClosed, err)
		}
	}
}

// readLine returns one line without its terminator. A final unterminated line comes back with [io.EOF].
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func (p *Prompter) readSecret() (string, error) {
	if p.fd < 0 || !term.IsTerminal(p.fd) {
		return p.readLine()
	}

	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	return string(secret), err
}
