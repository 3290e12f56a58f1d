// Package demux implements C3: reading a child process's two byte
// streams concurrently, splitting them into lines, handing each line
// to the adapter, and forwarding the parsed records to the engine.
//
// Grounded on internal/executor/agent.go's captureOutput (two
// goroutines over StdoutPipe/StderrPipe, bufio.Scanner line framing),
// rewritten around golang.org/x/sync/errgroup for structured
// concurrent fan-in instead of a bare sync.WaitGroup.
package demux

import (
	"bufio"
	"io"

	"github.com/ralphloop/ralph/internal/agent"
	"golang.org/x/sync/errgroup"
)

// Line is one parsed line of output together with which stream it
// came from. No ordering is guaranteed between stdout- and
// stderr-origin lines; within a stream, lines arrive in the order the
// child produced them.
type Line struct {
	Parsed   agent.ParsedLine
	IsStderr bool
}

// Run reads stdout and stderr concurrently until both are exhausted
// (EOF, or the underlying process is killed), sending one Line per
// completed line of output to out. Run closes out once both streams
// are exhausted, so the caller can simply range over it.
func Run(stdout, stderr io.Reader, ad agent.Adapter, out chan<- Line) error {
	defer close(out)

	var g errgroup.Group
	g.Go(func() error { return scanInto(stdout, ad, false, out) })
	g.Go(func() error { return scanInto(stderr, ad, true, out) })
	return g.Wait()
}

func scanInto(r io.Reader, ad agent.Adapter, isStderr bool, out chan<- Line) error {
	scanner := bufio.NewScanner(r)
	// Agent output lines (e.g. a full diff echoed by a tool) can
	// exceed bufio.Scanner's 64KiB default; raise the cap generously.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		parsed := ad.ParseOutputLine(line)
		out <- Line{Parsed: parsed, IsStderr: isStderr}
	}
	// A read failure on one stream is treated as that stream closing;
	// the other stream's goroutine proceeds independently (errgroup
	// still reports the error for logging, but does not cancel its
	// sibling goroutine since no shared context is used here).
	return scanner.Err()
}
