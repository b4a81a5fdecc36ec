package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

// Prompter reads answers from the terminal. It satisfies listing.Confirmer.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes func() bool
}

// NewPrompter reads from in and writes prompts to out. assumeYes may be nil.
func NewPrompter(in io.Reader, out io.Writer, assumeYes func() bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm asks a yes/no question. Anything but y or yes declines.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.assumeYes != nil && p.assumeYes() {
		return true, nil
	}
	answer, err := p.Ask(ctx, prompt+" [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask prints label and returns the trimmed line typed in response.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", appErrors.Clone(appErrors.ErrCancelled, "no answer given")
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Value returns current when set, otherwise asks for it.
func (p *Prompter) Value(ctx context.Context, current, label string) (string, error) {
	if current != "" {
		return current, nil
	}
	return p.Ask(ctx, label)
}
