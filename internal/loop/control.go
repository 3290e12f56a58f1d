package loop

import "sync/atomic"

// controlSignals is the C6 control surface embedded in Engine: two
// level-triggered flags plus a one-shot wake primitive, rather than a
// generic cancellation token, because pause/resume/stop have distinct
// observable effects the gate and stream phases must react to
// differently (spec.md §3, §9).
type controlSignals struct {
	pauseRequested atomic.Bool
	stopRequested  atomic.Bool
	// resumeNotice wakes a blocked paused wait. It is buffered so a
	// signal sent before the engine starts waiting isn't lost, and
	// sends are non-blocking so repeated requests never pile up.
	resumeNotice chan struct{}
}

func newControlSignals() *controlSignals {
	return &controlSignals{resumeNotice: make(chan struct{}, 1)}
}

func (c *controlSignals) wake() {
	select {
	case c.resumeNotice <- struct{}{}:
	default:
	}
}

// drainResumeNotice discards any stale wake token left over from a
// RequestResume/RequestStop call that wasn't actually waited on by a
// paused gate (e.g. a speculative or repeated RequestResume while the
// engine wasn't paused). Called right before a gate starts its paused
// wait, so a leftover token can't cause that wait to self-resume
// without a fresh request (spec.md Invariant 4).
func (c *controlSignals) drainResumeNotice() {
	select {
	case <-c.resumeNotice:
	default:
	}
}

// RequestPause asks the engine to pause at its next gate. Idempotent.
func (e *Engine) RequestPause() {
	e.signals.pauseRequested.Store(true)
}

// RequestResume clears a pending or in-effect pause and wakes a
// blocked paused wait, if any. Idempotent; a no-op if the engine isn't
// paused or about to pause.
func (e *Engine) RequestResume() {
	e.signals.pauseRequested.Store(false)
	e.signals.wake()
}

// RequestStop asks the engine to end the run at the next opportunity:
// the next gate, or immediately if currently blocked in a paused wait.
// Idempotent.
func (e *Engine) RequestStop() {
	e.signals.stopRequested.Store(true)
	e.signals.wake()
}
