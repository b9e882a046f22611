package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Confirmer asks the user to approve a destructive or expensive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// PromptConfirmer reads a y/N answer from a reader.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm returns true only for "y" or "yes". EOF counts as no.
func (p *PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprint(p.out, FormatPrompt(prompt)); err != nil {
		return false, err
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return false, ErrInputCancelled
	case res := <-ch:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", res.err)
		}
		switch strings.ToLower(strings.TrimSpace(res.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// AutoConfirmer approves everything; used for --yes.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(context.Context, string) (bool, error) {
	return true, nil
}
