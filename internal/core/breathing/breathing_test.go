package breathing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"zentime/internal/core/clock"
	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

var epoch = time.Date(2025, 8, 30, 7, 30, 0, 0, time.UTC)

const tick = 100 * time.Millisecond

type impacts struct {
	mu    sync.Mutex
	kinds []timing.ImpactKind
	stops int
	plays []model.AmbientSound
}

func (rec *impacts) Impact(kind timing.ImpactKind) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.kinds = append(rec.kinds, kind)
	return nil
}

func (rec *impacts) Success() error { return nil }

func (rec *impacts) Play(sound model.AmbientSound) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.plays = append(rec.plays, sound)
	return nil
}

func (rec *impacts) Stop() error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.stops++
	return nil
}

func (rec *impacts) count(kind timing.ImpactKind) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	n := 0
	for _, k := range rec.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T) (*Engine, *clock.Manual, *impacts) {
	t.Helper()
	manual := clock.NewManual(epoch)
	rec := &impacts{}
	engine := New(model.BreathingConfig{}, Deps{Clock: manual, Feedback: rec, Ambient: rec})
	t.Cleanup(engine.Close)
	return engine, manual, rec
}

func advanceTicks(manual *clock.Manual, n int) {
	for i := 0; i < n; i++ {
		manual.Advance(tick)
	}
}

func TestPhaseOrderIsCyclic(t *testing.T) {
	assert.Equal(t, PhaseHoldIn, PhaseIn.Next())
	assert.Equal(t, PhaseOut, PhaseHoldIn.Next())
	assert.Equal(t, PhaseHoldOut, PhaseOut.Next())
	assert.Equal(t, PhaseIn, PhaseHoldOut.Next())
	assert.Equal(t, "Breathe In", PhaseIn.Label())
	assert.Equal(t, "Hold", PhaseHoldOut.Label())
	assert.Equal(t, "hold_in", PhaseHoldIn.String())
}

func TestStartEntersPhaseIn(t *testing.T) {
	engine, manual, rec := newTestEngine(t)

	engine.Start()

	snapshot := engine.Snapshot()
	assert.Equal(t, timing.StateRunning, snapshot.State)
	assert.Equal(t, PhaseIn, snapshot.Phase)
	assert.Equal(t, 5*time.Second, snapshot.PhaseRemaining)
	assert.Equal(t, 0.0, snapshot.PhaseProgress)
	assert.Equal(t, 1, rec.count(timing.ImpactMedium))
	assert.Equal(t, 1, manual.Active())
	assert.Equal(t, 20*time.Second, engine.CycleDuration())
}

func TestSubSecondProgress(t *testing.T) {
	engine, manual, _ := newTestEngine(t)
	engine.Start()

	advanceTicks(manual, 25)

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseIn, snapshot.Phase)
	assert.Equal(t, 2500*time.Millisecond, snapshot.PhaseRemaining)
	assert.InDelta(t, 0.5, snapshot.PhaseProgress, 1e-9)
	assert.Equal(t, 2500*time.Millisecond, snapshot.TotalElapsed)
}

func TestFullCycleAfterTwentySeconds(t *testing.T) {
	engine, manual, rec := newTestEngine(t)
	events := engine.Subscribe(512)
	engine.Start()

	advanceTicks(manual, 200)

	snapshot := engine.Snapshot()
	assert.Equal(t, 1, snapshot.CompletedCycles)
	assert.Equal(t, PhaseIn, snapshot.Phase)
	assert.Equal(t, 5*time.Second, snapshot.PhaseRemaining)
	assert.Equal(t, 0.0, snapshot.PhaseProgress)
	assert.Equal(t, 20*time.Second, snapshot.TotalElapsed)
	assert.Equal(t, 4, rec.count(timing.ImpactLight))
	assert.Equal(t, 1, rec.count(timing.ImpactMedium))

	var phases []Phase
	for len(events) > 0 {
		if event := <-events; event.Type == EventPhaseChange {
			phases = append(phases, event.Snapshot.Phase)
		}
	}
	assert.Equal(t, []Phase{PhaseHoldIn, PhaseOut, PhaseHoldOut, PhaseIn}, phases)
}

func TestCycleCountsOnlyAfterHoldOut(t *testing.T) {
	engine, manual, _ := newTestEngine(t)
	engine.Start()

	advanceTicks(manual, 150)
	snapshot := engine.Snapshot()
	assert.Equal(t, 0, snapshot.CompletedCycles)
	assert.Equal(t, PhaseHoldOut, snapshot.Phase)

	advanceTicks(manual, 250)
	snapshot = engine.Snapshot()
	assert.Equal(t, 2, snapshot.CompletedCycles)
	assert.Equal(t, PhaseIn, snapshot.Phase)
}

func TestTotalElapsedIsMonotonic(t *testing.T) {
	engine, manual, _ := newTestEngine(t)
	engine.Start()

	previous := engine.Snapshot().TotalElapsed
	for i := 0; i < 450; i++ {
		manual.Advance(tick)
		current := engine.Snapshot().TotalElapsed
		require.GreaterOrEqual(t, current, previous)
		previous = current
	}
	assert.Equal(t, 45*time.Second, previous)
}

func TestResumeContinuesFromPausePoint(t *testing.T) {
	engine, manual, _ := newTestEngine(t)
	engine.Start()
	advanceTicks(manual, 30)

	engine.Pause()
	paused := engine.Snapshot()
	require.Equal(t, timing.StatePaused, paused.State)
	require.Equal(t, 2*time.Second, paused.PhaseRemaining)
	assert.Equal(t, 0, manual.Active())

	manual.Advance(100 * time.Second)
	assert.Equal(t, paused, engine.Snapshot())

	engine.Resume()
	assert.Equal(t, 2*time.Second, engine.Snapshot().PhaseRemaining)

	manual.Advance(tick)
	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseIn, snapshot.Phase)
	assert.Equal(t, 1900*time.Millisecond, snapshot.PhaseRemaining)
	assert.Equal(t, 3100*time.Millisecond, snapshot.TotalElapsed)
}

func TestStartWhilePausedResumes(t *testing.T) {
	engine, manual, rec := newTestEngine(t)
	engine.Start()
	advanceTicks(manual, 60)
	engine.Pause()

	engine.Start()

	snapshot := engine.Snapshot()
	assert.Equal(t, timing.StateRunning, snapshot.State)
	assert.Equal(t, PhaseHoldIn, snapshot.Phase)
	assert.Equal(t, 4*time.Second, snapshot.PhaseRemaining)
	assert.Equal(t, 1, rec.count(timing.ImpactMedium))
	assert.Equal(t, 1, manual.Active())
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	engine, manual, _ := newTestEngine(t)
	engine.Start()
	advanceTicks(manual, 10)

	engine.Start()

	assert.Equal(t, 1, manual.Active())
	assert.Equal(t, 4*time.Second, engine.Snapshot().PhaseRemaining)
}

func TestResetIsIdempotent(t *testing.T) {
	engine, manual, rec := newTestEngine(t)
	engine.Start()
	advanceTicks(manual, 230)

	engine.Reset()
	once := engine.Snapshot()
	engine.Reset()

	assert.Equal(t, once, engine.Snapshot())
	assert.Equal(t, Snapshot{
		State:          timing.StateIdle,
		Phase:          PhaseIn,
		PhaseDuration:  5 * time.Second,
		PhaseRemaining: 5 * time.Second,
		Ambient:        model.AmbientNone,
	}, once)
	assert.Equal(t, 0, manual.Active())
	assert.Equal(t, 0, rec.stops, "no ambient sound was started")
}

func TestStaleTickAfterResetIsIgnored(t *testing.T) {
	engine, manual, _ := newTestEngine(t)
	engine.Start()

	engine.mu.Lock()
	inFlight := engine.generation
	engine.mu.Unlock()

	engine.Reset()
	engine.Start()
	engine.tick(inFlight, manual.Now().Add(10*time.Second))

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseIn, snapshot.Phase)
	assert.Equal(t, 5*time.Second, snapshot.PhaseRemaining)
}

func TestAmbientFollowsSession(t *testing.T) {
	manual := clock.NewManual(epoch)
	rec := &impacts{}
	engine := New(model.BreathingConfig{Ambient: model.AmbientBrownNoise}, Deps{Clock: manual, Feedback: rec, Ambient: rec})

	engine.Start()
	engine.SetAmbientSound(model.AmbientRain)
	engine.Close()

	assert.Equal(t, []model.AmbientSound{model.AmbientBrownNoise, model.AmbientRain}, rec.plays)
	assert.Equal(t, 2, rec.stops)
	assert.Equal(t, 0, manual.Active())
}

func TestCustomPhaseDuration(t *testing.T) {
	manual := clock.NewManual(epoch)
	engine := New(model.BreathingConfig{PhaseDuration: 4 * time.Second, TickInterval: 250 * time.Millisecond}, Deps{Clock: manual})
	defer engine.Close()

	engine.Start()
	manual.Advance(16 * time.Second)

	snapshot := engine.Snapshot()
	assert.Equal(t, 1, snapshot.CompletedCycles)
	assert.Equal(t, 16*time.Second, snapshot.TotalElapsed)
}

func TestCloseStopsSystemTicks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	engine := New(model.BreathingConfig{TickInterval: 5 * time.Millisecond}, Deps{})
	events := engine.Subscribe(64)
	engine.Start()

	require.Eventually(t, func() bool {
		return engine.Snapshot().TotalElapsed > 0
	}, time.Second, 5*time.Millisecond)

	engine.Close()
	for range events {
	}
}

func TestMissedTicksAdvanceOnePhaseAndReanchor(t *testing.T) {
	engine, manual, rec := newTestEngine(t)
	engine.Start()

	manual.Set(epoch.Add(12 * time.Second))
	manual.Advance(tick)

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseHoldIn, snapshot.Phase)
	assert.Equal(t, 5*time.Second, snapshot.PhaseRemaining)
	assert.Equal(t, 0, snapshot.CompletedCycles)
	assert.Equal(t, 1, rec.count(timing.ImpactLight))

	engine.mu.Lock()
	anchor := engine.phaseStart
	engine.mu.Unlock()
	assert.Equal(t, manual.Now(), anchor)

	manual.Advance(time.Second)
	snapshot = engine.Snapshot()
	assert.Equal(t, PhaseHoldIn, snapshot.Phase)
	assert.Equal(t, 4*time.Second, snapshot.PhaseRemaining)
	assert.Equal(t, 6*time.Second, snapshot.TotalElapsed)
}

type failingFeedback struct{}

func (failingFeedback) Impact(timing.ImpactKind) error { return errors.New("haptics unavailable") }
func (failingFeedback) Success() error                 { return errors.New("haptics unavailable") }

func TestFeedbackFailureDoesNotStallCycle(t *testing.T) {
	manual := clock.NewManual(epoch)
	engine := New(model.BreathingConfig{}, Deps{Clock: manual, Feedback: failingFeedback{}})
	defer engine.Close()

	engine.Start()
	manual.Advance(5 * time.Second)
	assert.Equal(t, PhaseHoldIn, engine.Snapshot().Phase)

	manual.Advance(15 * time.Second)
	snapshot := engine.Snapshot()
	assert.Equal(t, timing.StateRunning, snapshot.State)
	assert.Equal(t, PhaseIn, snapshot.Phase)
	assert.Equal(t, 1, snapshot.CompletedCycles)
	assert.Equal(t, 20*time.Second, snapshot.TotalElapsed)
}
