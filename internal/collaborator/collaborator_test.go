package collaborator

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterics/flipcore/internal/atcmd"
	"github.com/asterics/flipcore/internal/binding"
	"github.com/asterics/flipcore/internal/eventgroup"
	"github.com/asterics/flipcore/internal/transport"
)

type fakeSink struct {
	sent [][3]byte
}

func (s *fakeSink) Enabled() bool { return true }
func (s *fakeSink) Send(ctx context.Context, cmd [3]byte) bool {
	s.sent = append(s.sent, cmd)
	return true
}

type fakeIR struct {
	codes []string
}

func (f *fakeIR) Transmit(ctx context.Context, code string) error {
	f.codes = append(f.codes, code)
	return nil
}

func newTestParser() (*atcmd.Parser, *fakeSink) {
	hid := binding.NewHidBindingTable(20)
	vb := binding.NewVbBindingTable(20)
	events := eventgroup.New()
	sink := &fakeSink{}
	p := atcmd.NewParser(hid, vb, nil, events, []transport.HidSink{sink}, nil, nil, slog.Default())
	return p, sink
}

func TestExecuteMacroReplaysLine(t *testing.T) {
	parser, sink := newTestParser()
	d := &Dispatcher{Parser: parser, Logger: slog.Default()}

	err := d.Execute(context.Background(), binding.MacroExec, "AT CL")
	require.NoError(t, err)
	assert.Len(t, sink.sent, 1)
}

func TestExecuteMacroPropagatesBadOutcome(t *testing.T) {
	parser, _ := newTestParser()
	d := &Dispatcher{Parser: parser, Logger: slog.Default()}

	err := d.Execute(context.Background(), binding.MacroExec, "AT ZZ")
	assert.Error(t, err)
}

func TestExecuteMacroKeyWriteTagTypesText(t *testing.T) {
	sink := &fakeSink{}
	d := &Dispatcher{Sinks: []transport.HidSink{sink}, Logger: slog.Default()}

	err := d.Execute(context.Background(), binding.MacroExec, "KW:Hi")
	require.NoError(t, err)
	require.Len(t, sink.sent, 3) // shift press+release for 'H', then 'i'
}

func TestExecuteMacroMultiLineReplaysEachLine(t *testing.T) {
	parser, sink := newTestParser()
	d := &Dispatcher{Parser: parser, Logger: slog.Default()}

	err := d.Execute(context.Background(), binding.MacroExec, "AT CL\nAT CR")
	require.NoError(t, err)
	assert.Len(t, sink.sent, 2)
}

func TestExecuteIRNoopLogsWithoutError(t *testing.T) {
	d := &Dispatcher{Logger: slog.Default()}
	err := d.Execute(context.Background(), binding.SendIR, "0xFF00")
	assert.NoError(t, err)
}

func TestExecuteIRWithBackend(t *testing.T) {
	ir := &fakeIR{}
	d := &Dispatcher{IR: ir, Logger: slog.Default()}
	require.NoError(t, d.Execute(context.Background(), binding.SendIR, "0xFF00"))
	assert.Equal(t, []string{"0xFF00"}, ir.codes)
}

func TestMqttHostAndTopicTagsConfigureWithoutPublishing(t *testing.T) {
	mqttClient := NewMqttClient(slog.Default())
	d := &Dispatcher{MQTT: mqttClient, Logger: slog.Default()}

	require.NoError(t, d.Execute(context.Background(), binding.MqttPublish, "host:tcp://broker.example:1883"))
	require.NoError(t, d.Execute(context.Background(), binding.MqttPublish, "topic:flipcore/events"))
}

func TestMqttPublishWithoutHostFails(t *testing.T) {
	mqttClient := NewMqttClient(slog.Default())
	d := &Dispatcher{MQTT: mqttClient, Logger: slog.Default()}

	err := d.Execute(context.Background(), binding.MqttPublish, "publish:hello")
	assert.Error(t, err)
}

func TestRestUrlAndTokenTagsConfigureWithoutCalling(t *testing.T) {
	rest := NewRestClient()
	d := &Dispatcher{REST: rest, Logger: slog.Default()}

	require.NoError(t, d.Execute(context.Background(), binding.RestCall, "url:https://example.com/hook"))
	require.NoError(t, d.Execute(context.Background(), binding.RestCall, "token:secret"))
}

func TestRestCallWithoutURLFails(t *testing.T) {
	rest := NewRestClient()
	d := &Dispatcher{REST: rest, Logger: slog.Default()}

	err := d.Execute(context.Background(), binding.RestCall, "call:{}")
	assert.Error(t, err)
}

func TestConfigChangeIsNoop(t *testing.T) {
	d := &Dispatcher{Logger: slog.Default()}
	err := d.Execute(context.Background(), binding.ConfigChange, "")
	assert.NoError(t, err)
}
