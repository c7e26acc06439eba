package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"finadvisor/pkg/errors"
)

// ErrCancelled is returned when input ends or the context is cancelled
// while waiting for an answer.
var ErrCancelled = errors.ErrCancelled

const ruleWidth = 80

// Prompter asks questions on a line-oriented terminal.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	lines chan string
	done  chan struct{}
	once  sync.Once
	stop  sync.Once
}

// NewPrompter reads answers from in and writes prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, lines: make(chan string), done: make(chan struct{})}
}

// Ask prints prompt and returns the trimmed answer, or def when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, prompt, def string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskChoice accepts a 1-based index or the case-insensitive text of a choice
// and asks again until one matches. A negative defaultIndex means no default.
func (p *Prompter) AskChoice(ctx context.Context, prompt string, choices []string, defaultIndex int) (string, error) {
	if len(choices) == 0 {
		return "", errors.NewValidationError("choices", "at least one choice is required", prompt)
	}
	if defaultIndex >= len(choices) {
		defaultIndex = -1
	}

	opts := make([]string, len(choices))
	for i, c := range choices {
		opts[i] = fmt.Sprintf("%d) %s", i+1, c)
	}
	question := fmt.Sprintf("%s [%s]", prompt, strings.Join(opts, ", "))
	if defaultIndex >= 0 {
		question += fmt.Sprintf(" (default: %s)", choices[defaultIndex])
	}
	question += ": "

	for {
		raw, err := p.Ask(ctx, question, "")
		if err != nil {
			return "", err
		}
		if raw == "" && defaultIndex >= 0 {
			return choices[defaultIndex], nil
		}
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		for _, c := range choices {
			if strings.EqualFold(raw, c) {
				return c, nil
			}
		}
		fmt.Fprintf(p.out, "Please pick 1..%d or type one of %s.\n", len(choices), quoteList(choices))
	}
}

// Header prints title between two rules.
func (p *Prompter) Header(title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(p.out, "\n%s\n%s\n%s\n", rule, title, rule)
}

// Println writes a line of output.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted output.
func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Close stops the background reader. Later questions return ErrCancelled.
func (p *Prompter) Close() {
	p.stop.Do(func() { close(p.done) })
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return "", ErrCancelled
	default:
	}
	p.once.Do(func() { go p.scan() })

	select {
	case <-p.done:
		return "", ErrCancelled
	case <-ctx.Done():
		return "", ErrCancelled
	case line, ok := <-p.lines:
		if !ok {
			return "", ErrCancelled
		}
		return line, nil
	}
}

func (p *Prompter) scan() {
	defer close(p.lines)
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		select {
		case p.lines <- scanner.Text():
		case <-p.done:
			return
		}
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
