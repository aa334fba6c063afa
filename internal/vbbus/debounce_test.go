package vbbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterics/flipcore/internal/vbmodel"
)

func newTestDebouncer(cfg DebounceConfig) *Debouncer {
	d := New(cfg, 16, nil)
	go d.Run()
	return d
}

func TestDebouncerPressPropagatesAfterDelay(t *testing.T) {
	d := newTestDebouncer(DebounceConfig{Press: 10 * time.Millisecond})
	d.In() <- vbmodel.VbEvent{VB: vbmodel.VBUp, Kind: vbmodel.Press}

	select {
	case ev := <-d.Out():
		assert.Equal(t, vbmodel.VBUp, ev.VB)
		assert.Equal(t, vbmodel.Press, ev.Kind)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("press never propagated")
	}
}

func TestDebouncerReleaseBeforeTimerCancelsPress(t *testing.T) {
	d := newTestDebouncer(DebounceConfig{Press: 100 * time.Millisecond, Release: time.Millisecond})
	d.In() <- vbmodel.VbEvent{VB: vbmodel.VBDown, Kind: vbmodel.Press}
	time.Sleep(5 * time.Millisecond)
	d.In() <- vbmodel.VbEvent{VB: vbmodel.VBDown, Kind: vbmodel.Release}

	select {
	case ev := <-d.Out():
		t.Fatalf("unexpected event delivered: %+v", ev)
	case <-time.After(150 * time.Millisecond):
		// expected: the press was cancelled and no release timer was armed
		// since a pending press timer suppresses arming one.
	}
}

func TestDebouncerIdleLockoutBlocksRetrigger(t *testing.T) {
	d := newTestDebouncer(DebounceConfig{Press: time.Millisecond, Idle: 100 * time.Millisecond})
	d.In() <- vbmodel.VbEvent{VB: vbmodel.VBLeft, Kind: vbmodel.Press}
	require.Equal(t, vbmodel.VBLeft, (<-d.Out()).VB)

	d.In() <- vbmodel.VbEvent{VB: vbmodel.VBLeft, Kind: vbmodel.Press}
	select {
	case ev := <-d.Out():
		t.Fatalf("event delivered during idle lockout: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncerCancelAllDropsPendingTimers(t *testing.T) {
	d := newTestDebouncer(DebounceConfig{Press: 100 * time.Millisecond})
	d.In() <- vbmodel.VbEvent{VB: vbmodel.VBRight, Kind: vbmodel.Press}
	time.Sleep(5 * time.Millisecond)
	d.CancelAll()

	select {
	case ev := <-d.Out():
		t.Fatalf("event delivered after CancelAll: %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}
