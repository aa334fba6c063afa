package dispatch

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterics/flipcore/internal/binding"
	"github.com/asterics/flipcore/internal/eventgroup"
	"github.com/asterics/flipcore/internal/transport"
	"github.com/asterics/flipcore/internal/vbmodel"
)

type fakeSink struct {
	enabled bool
	sent    [][3]byte
}

func (s *fakeSink) Enabled() bool { return s.enabled }
func (s *fakeSink) Send(ctx context.Context, cmd [3]byte) bool {
	s.sent = append(s.sent, cmd)
	return true
}

type fakeCollaborator struct {
	calls []string
}

func (c *fakeCollaborator) Execute(ctx context.Context, cmdType binding.VbCmdType, param string) error {
	c.calls = append(c.calls, cmdType.String()+":"+param)
	return nil
}

const testVBMax = 20

func TestDispatchGatedWithoutStableOrEmptyQueue(t *testing.T) {
	hid := binding.NewHidBindingTable(testVBMax)
	vb := binding.NewVbBindingTable(testVBMax)
	events := eventgroup.New()
	sink := &fakeSink{enabled: true}
	d := New(hid, vb, events, nil, nil, slog.Default())
	require.NoError(t, hid.Add(binding.HidCmd{VBID: 2, HalfVal: vbmodel.Press, Cmd: [3]byte{1, 2, 3}}, true))
	_ = sink

	d.Dispatch(context.Background(), vbmodel.VbEvent{VB: 2, Kind: vbmodel.Press})
	assert.Empty(t, sink.sent)
}

func TestDispatchHidEmitsToEnabledSinks(t *testing.T) {
	hid := binding.NewHidBindingTable(testVBMax)
	vb := binding.NewVbBindingTable(testVBMax)
	events := eventgroup.New()
	events.Set(eventgroup.SystemStableConfig)
	sinkA := &fakeSink{enabled: true}
	sinkB := &fakeSink{enabled: false}

	require.NoError(t, hid.Add(binding.HidCmd{VBID: 3, HalfVal: vbmodel.Press, Cmd: [3]byte{0x01, 0x04, 0x00}}, true))
	d := New(hid, vb, events, []transport.HidSink{sinkA, sinkB}, nil, slog.Default())

	d.Dispatch(context.Background(), vbmodel.VbEvent{VB: 3, Kind: vbmodel.Press})

	assert.Equal(t, [][3]byte{{0x01, 0x04, 0x00}}, sinkA.sent)
	assert.Empty(t, sinkB.sent)
}

func TestDispatchVbInvokesCollaborator(t *testing.T) {
	hid := binding.NewHidBindingTable(testVBMax)
	vb := binding.NewVbBindingTable(testVBMax)
	events := eventgroup.New()
	events.Set(eventgroup.SystemEmptyCmdQueue)
	collab := &fakeCollaborator{}

	require.NoError(t, vb.Add(binding.VbCmd{VBID: 5, HalfVal: vbmodel.Press, CmdType: binding.Calibrate}, true))
	d := New(hid, vb, events, nil, collab, slog.Default())

	d.Dispatch(context.Background(), vbmodel.VbEvent{VB: 5, Kind: vbmodel.Press})

	assert.Equal(t, []string{"calibrate:"}, collab.calls)
}

func TestDispatchIgnoresUnboundVB(t *testing.T) {
	hid := binding.NewHidBindingTable(testVBMax)
	vb := binding.NewVbBindingTable(testVBMax)
	events := eventgroup.New()
	events.Set(eventgroup.SystemStableConfig)
	collab := &fakeCollaborator{}
	d := New(hid, vb, events, nil, collab, slog.Default())

	d.Dispatch(context.Background(), vbmodel.VbEvent{VB: 9, Kind: vbmodel.Press})
	assert.Empty(t, collab.calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	hid := binding.NewHidBindingTable(testVBMax)
	vb := binding.NewVbBindingTable(testVBMax)
	events := eventgroup.New()
	d := New(hid, vb, events, nil, nil, slog.Default())

	in := make(chan vbmodel.VbEvent)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx, in)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRunStopsWhenChannelClosed(t *testing.T) {
	hid := binding.NewHidBindingTable(testVBMax)
	vb := binding.NewVbBindingTable(testVBMax)
	events := eventgroup.New()
	d := New(hid, vb, events, nil, nil, slog.Default())

	in := make(chan vbmodel.VbEvent)
	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), in)
		close(done)
	}()
	close(in)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after input channel closed")
	}
}
