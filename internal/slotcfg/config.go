// Package slotcfg owns the published GeneralConfig handle, its copy-on-write
// staging copy, and the slot switcher that commits staged edits and loads
// persisted slots (spec §4.5, §3.1, §3.2).
package slotcfg

import (
	"time"

	"github.com/asterics/flipcore/internal/adcengine"
	"github.com/asterics/flipcore/internal/vbbus"
)

// MaxSlotNameLen is the slot_name field's bound (spec §3.1: "string(<=32)").
const MaxSlotNameLen = 32

// Config is the per-slot GeneralConfig record (spec §3.1). It is immutable
// while published; mutation always happens through a staging copy.
type Config struct {
	Adc adcengine.Config

	BLEActive bool
	USBActive bool

	WheelStepSize int8 // 1..127

	Locale  string
	Country string

	Debounce vbbus.DebounceConfig

	SlotName string

	// MQTT/RESTCredential hold the connection secrets the MqttPublish/RestCall
	// VbCmd actions need (SPEC_FULL supplement: encrypted at rest in the slot
	// file, see credential.go).
	MQTTBrokerURL string
	RESTBaseURL   string
}

// DefaultConfig returns the factory-default GeneralConfig (selector
// "__DEFAULT" / "__RESTOREFACTORY", spec §4.5).
func DefaultConfig() Config {
	return Config{
		Adc:           adcengine.DefaultConfig(),
		BLEActive:     true,
		USBActive:     true,
		WheelStepSize: 1,
		Locale:        "en",
		Country:       "US",
		Debounce: vbbus.DebounceConfig{
			Press:   0,
			Release: 0,
			Idle:    0,
		},
		SlotName: "default",
	}
}

// Clone returns a deep-enough copy for copy-on-write staging: every field is
// value-typed except the per-VB debounce slices, which are copied
// explicitly so mutating the staging copy never aliases the published one.
func (c Config) Clone() Config {
	cp := c
	cp.Debounce.PressVB = append([]time.Duration(nil), c.Debounce.PressVB...)
	cp.Debounce.ReleaseVB = append([]time.Duration(nil), c.Debounce.ReleaseVB...)
	cp.Debounce.IdleVB = append([]time.Duration(nil), c.Debounce.IdleVB...)
	return cp
}
