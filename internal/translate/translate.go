// Package translate wraps text translation backends behind one interface
// and makes the failure path an explicit value.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Target is the language every backend translates into.
const Target = "en"

// ErrEmptyTranslation is reported when a backend answers with no text.
var ErrEmptyTranslation = errors.New("empty translation")

// Translator maps text in any language to English.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Result is either a translation or a recorded failure. Callers choose
// their fallback by checking Failed.
type Result struct {
	Text string
	Err  error
}

// Failed reports whether the translation attempt did not produce text.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Or returns the translated text, or fallback when the attempt failed.
func (r Result) Or(fallback string) string {
	if r.Failed() {
		return fallback
	}
	return r.Text
}

// Attempt runs one translation and folds every failure mode, including a
// panicking backend and blank output, into the Result.
func Attempt(ctx context.Context, t Translator, text string) (r Result) {
	if t == nil {
		return Result{Err: errors.New("no translator configured")}
	}
	defer func() {
		if p := recover(); p != nil {
			r = Result{Err: fmt.Errorf("translator panic: %v", p)}
		}
	}()

	out, err := t.Translate(ctx, text)
	if err != nil {
		return Result{Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return Result{Err: ErrEmptyTranslation}
	}
	return Result{Text: out}
}

type timeoutTranslator struct {
	next    Translator
	timeout time.Duration
}

// WithTimeout bounds every call to next. A zero timeout returns next as is.
func WithTimeout(next Translator, timeout time.Duration) Translator {
	if timeout <= 0 {
		return next
	}
	return &timeoutTranslator{next: next, timeout: timeout}
}

func (t *timeoutTranslator) Translate(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type answer struct {
		text string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		out, err := t.next.Translate(ctx, text)
		done <- answer{out, err}
	}()

	select {
	case a := <-done:
		return a.text, a.err
	case <-ctx.Done():
		return "", fmt.Errorf("translation timed out after %s: %w", t.timeout, ctx.Err())
	}
}
