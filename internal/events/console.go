package events

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ConsoleSink renders events to a writer, colorized by kind. Grounded
// on cmd/vc/event_display.go's glyph-and-color idiom from the teacher.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink wraps w as a colorized event renderer.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Emit(ev Event) {
	switch ev.Kind {
	case KindIterationStart:
		color.New(color.FgCyan).Fprintf(c.w, "▶ iteration %d\n", ev.Iteration)
	case KindOutput:
		if ev.IsStderr {
			color.New(color.FgYellow).Fprintf(c.w, "  %s\n", ev.Content)
		} else {
			fmt.Fprintf(c.w, "  %s\n", ev.Content)
		}
	case KindPausing:
		color.New(color.FgYellow).Fprintf(c.w, "⏸ pausing after iteration %d\n", ev.Iteration)
	case KindPaused:
		color.New(color.FgYellow).Fprintf(c.w, "⏸ paused at iteration %d\n", ev.Iteration)
	case KindResumed:
		color.New(color.FgGreen).Fprintf(c.w, "▶ resumed at iteration %d\n", ev.Iteration)
	case KindCompleted:
		color.New(color.FgGreen).Fprintf(c.w, "✓ completed at iteration %d\n", ev.Iteration)
	case KindMaxIterations:
		color.New(color.FgYellow).Fprintf(c.w, "✗ max iterations reached (%d)\n", ev.Iteration)
	case KindError:
		color.New(color.FgRed).Fprintf(c.w, "✗ error at iteration %d: %s\n", ev.Iteration, ev.Reason)
	case KindStopped:
		color.New(color.FgRed).Fprintf(c.w, "■ stopped\n")
	default:
		fmt.Fprintf(c.w, "%s\n", ev.Kind)
	}
}
