package collaborator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MqttClient lazily connects to a broker configured at runtime by the "IP"/
// "IH" AT commands (host/topic), and publishes whatever the "IC" command's
// payload is to that topic. A fresh client is dialed whenever the host
// changes; an established connection is reused across publishes.
type MqttClient struct {
	mu         sync.Mutex
	client     mqtt.Client
	host       string
	topic      string
	credential string
	logger     *slog.Logger
}

// NewMqttClient returns a client with no broker configured; SetHost must be
// called (via an "IP" AT line) before the first Publish.
func NewMqttClient(logger *slog.Logger) *MqttClient {
	return &MqttClient{logger: logger}
}

func (m *MqttClient) SetHost(host string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if host == m.host {
		return
	}
	if m.client != nil {
		m.client.Disconnect(250)
		m.client = nil
	}
	m.host = host
}

func (m *MqttClient) SetTopic(topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topic = topic
}

// SetCredential stores "user:pass" for the next (re)connect.
func (m *MqttClient) SetCredential(credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = credential
}

func (m *MqttClient) connectLocked() (mqtt.Client, error) {
	if m.client != nil {
		return m.client, nil
	}
	if m.host == "" {
		return nil, fmt.Errorf("collaborator: mqtt host not configured")
	}
	opts := mqtt.NewClientOptions().AddBroker(m.host).SetConnectTimeout(5 * time.Second)
	if user, pass, ok := strings.Cut(m.credential, ":"); ok {
		opts.SetUsername(user)
		opts.SetPassword(pass)
	}
	client := mqtt.NewClient(opts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("collaborator: mqtt connect: %w", tok.Error())
	}
	m.client = client
	return client, nil
}

// Publish sends payload to the configured topic, dialing the broker first
// if no connection is established yet.
func (m *MqttClient) Publish(ctx context.Context, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	client, err := m.connectLocked()
	if err != nil {
		return err
	}
	if m.topic == "" {
		return fmt.Errorf("collaborator: mqtt topic not configured")
	}
	tok := client.Publish(m.topic, 0, false, payload)
	if tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("collaborator: mqtt publish: %w", tok.Error())
	}
	return nil
}

func (d *Dispatcher) execMqtt(ctx context.Context, param string) error {
	if d.MQTT == nil {
		d.logWarn("mqtt has no backend, dropping", "param", param)
		return nil
	}
	tag, rest, ok := strings.Cut(param, ":")
	if !ok {
		return d.MQTT.Publish(ctx, param)
	}
	switch tag {
	case "host":
		d.MQTT.SetHost(rest)
		return nil
	case "topic":
		d.MQTT.SetTopic(rest)
		return nil
	case "cred":
		d.MQTT.SetCredential(rest)
		return nil
	case "publish":
		return d.MQTT.Publish(ctx, rest)
	default:
		return d.MQTT.Publish(ctx, param)
	}
}
