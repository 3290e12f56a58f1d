//go:build windows

package main

import "os"

// noSignal never arrives from signal.Notify; it stands in for
// pauseResumeSignal on platforms with no SIGUSR1 equivalent so the
// switch in runProject still type-checks.
type noSignal struct{}

func (noSignal) String() string { return "no-signal" }
func (noSignal) Signal()        {}

// pauseResumeSignal has no Windows equivalent; pause/resume on Windows
// is unreachable until a named-pipe or console-event control surface
// is added.
var pauseResumeSignal os.Signal = noSignal{}

func controlSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
