package tui

import (
	"errors"
	"fmt"

	"github.com/pders01/slyde/internal/slideshow"
)

var errNoSlideshow = errors.New("no slideshow loaded")

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// loadError marks failures of the slideshow pipeline so the status bar
// shows the same message the HTTP API would return.
type loadError struct {
	err error
}

func (e loadError) Error() string { return e.err.Error() }
func (e loadError) Unwrap() error { return e.err }

func userMessage(err error) string {
	var le loadError
	if errors.As(err, &le) {
		return slideshow.Message(le.err)
	}
	return err.Error()
}
