package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/asterics/flipcore/internal/adcengine"
	"github.com/asterics/flipcore/internal/atcmd"
	"github.com/asterics/flipcore/internal/binding"
	"github.com/asterics/flipcore/internal/collaborator"
	"github.com/asterics/flipcore/internal/configpaths"
	"github.com/asterics/flipcore/internal/dispatch"
	"github.com/asterics/flipcore/internal/eventgroup"
	"github.com/asterics/flipcore/internal/gpio"
	"github.com/asterics/flipcore/internal/log"
	"github.com/asterics/flipcore/internal/slotcfg"
	"github.com/asterics/flipcore/internal/transport"
	"github.com/asterics/flipcore/internal/transport/usbbridge"
	"github.com/asterics/flipcore/internal/vbbus"
	"github.com/asterics/flipcore/internal/vbmodel"

	serial "github.com/daedaluz/goserial"
)

// adcTickInterval matches the firmware's own ~100Hz ADC sample cadence.
const adcTickInterval = 10 * time.Millisecond

// Serve wires every built package into the running daemon: the I2C ADC/HID
// bridge, the AT command serial surface, the debounced VB bus, the two
// binding tables, the slot switcher/store, and the non-HID collaborator
// actions (spec §2's dataflow end to end).
type Serve struct {
	SerialDevice string `help:"AT-command UART device" default:"/dev/ttyUSB0" env:"FLIPCORE_SERIAL_DEVICE"`
	I2CBus       string `help:"I2C bus name for the ADC/HID bridge chip" env:"FLIPCORE_I2C_BUS"`
	DeviceModel  string `help:"Device model" enum:"flipmouse,fabi" default:"flipmouse" env:"FLIPCORE_DEVICE_MODEL"`

	SlotDir     string `help:"Directory slot files are persisted under (defaults under the config dir)" env:"FLIPCORE_SLOT_DIR"`
	DefaultSlot string `help:"Slot loaded at startup" default:"default" env:"FLIPCORE_DEFAULT_SLOT"`

	MQTTBrokerURL string `help:"Default MQTT broker URL, overridable per-slot via the AT IP command" env:"FLIPCORE_MQTT_BROKER"`
	RESTBaseURL   string `help:"Default REST base URL, overridable per-slot via the AT IW command" env:"FLIPCORE_REST_URL"`

	GpioChip string `help:"gpiochip device for auxiliary buttons (empty disables GPIO polling)" env:"FLIPCORE_GPIO_CHIP"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.start(ctx, logger, rawLogger)
}

func (s *Serve) start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	model := parseDeviceModel(s.DeviceModel)
	vbMax := model.VBMax()

	slotDir := s.SlotDir
	if slotDir == "" {
		dir, err := configpaths.DefaultSlotDir()
		if err != nil {
			return fmt.Errorf("resolve slot dir: %w", err)
		}
		slotDir = dir
	}
	store, err := slotcfg.NewFileStore(slotDir)
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}

	bridge, err := usbbridge.OpenI2CBridge(s.I2CBus)
	if err != nil {
		return fmt.Errorf("open i2c bridge: %w", err)
	}
	defer bridge.Close()

	events := eventgroup.New()
	hidTable := binding.NewHidBindingTable(vbMax)
	vbTable := binding.NewVbBindingTable(vbMax)

	debouncer := vbbus.New(vbbus.DebounceConfig{}, 64, logger)
	go debouncer.Run()

	// switcher is assigned below, once engine/debouncer exist; the sinks'
	// enabled closures only run after start() has finished wiring, so the
	// forward reference is safe.
	var switcher *slotcfg.Switcher
	usbSink := usbbridge.NewI2CHidSink(bridge, func() bool { return switcher.Current().USBActive }, logger, rawLogger)
	bleSink := transport.NewNoopBleSink(func() bool { return switcher.Current().BLEActive }, logger)
	sinks := []transport.HidSink{usbSink, bleSink}

	engine := adcengine.New(bridge, sinks, logger, func(ps vbmodel.PressureState) bool {
		return hasStrongBinding(hidTable, vbTable, ps)
	})

	switcher = slotcfg.NewSwitcher(events, engine, debouncer, logger)

	mqttClient := collaborator.NewMqttClient(logger)
	if s.MQTTBrokerURL != "" {
		mqttClient.SetHost(s.MQTTBrokerURL)
	}
	restClient := collaborator.NewRestClient()
	if s.RESTBaseURL != "" {
		restClient.SetBaseURL(s.RESTBaseURL)
	}

	parser := atcmd.NewParser(hidTable, vbTable, switcher, events, sinks, nil, store, logger)
	collab := &collaborator.Dispatcher{Parser: parser, Engine: engine, MQTT: mqttClient, REST: restClient, Sinks: sinks, Logger: logger}
	parser.Collab = collab

	if cred, err := loadPairedCredential(); err != nil {
		logger.Warn("no paired credential loaded", "error", err)
	} else if cred != "" {
		mqttClient.SetCredential(cred)
		restClient.SetToken(cred)
	}

	switcher.Commit()
	if err := loadSlot(parser, switcher, store, s.DefaultSlot); err != nil {
		logger.Warn("failed to load default slot, continuing on factory defaults", "slot", s.DefaultSlot, "error", err)
	}
	if names, err := store.List(); err == nil {
		switcher.SetSlotNames(names)
	}
	events.Set(eventgroup.SystemEmptyCmdQueue)

	disp := dispatch.New(hidTable, vbTable, events, sinks, collab, logger)
	go disp.Run(ctx, debouncer.Out())

	if s.GpioChip != "" {
		gpioSrc := gpio.New(buttonLines(s.GpioChip, vbMax), debouncer.In(), logger)
		go func() {
			if err := gpioSrc.Run(ctx); err != nil {
				logger.Error("gpio source stopped", "error", err)
			}
		}()
	}

	atPort, err := usbbridge.OpenATSerial(s.SerialDevice)
	if err != nil {
		return fmt.Errorf("open at serial device: %w", err)
	}
	defer atPort.Close()

	atErrCh := make(chan error, 1)
	go runATLoop(ctx, atPort, parser, rawLogger, atErrCh)

	logger.Info("flipcore daemon started", "device_model", s.DeviceModel, "serial", s.SerialDevice, "slot_dir", slotDir)

	ticker := time.NewTicker(adcTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("flipcore: shutting down")
			return nil
		case err := <-atErrCh:
			return fmt.Errorf("at serial surface: %w", err)
		case <-ticker.C:
			engine.Tick(ctx, debouncer.In())
		}
	}
}

// runATLoop reads AT command lines off the serial surface, dispatches each
// through the parser, and writes the outcome reply back (spec §4.4, §7).
func runATLoop(ctx context.Context, port *serial.Port, parser *atcmd.Parser, rawLogger log.RawLogger, errCh chan<- error) {
	reader := usbbridge.NewATLineReader(port)
	parser.Writer = func(line string) {
		rawLogger.Log(false, []byte(line))
		_, _ = port.Write([]byte(line + "\r\n"))
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line, ok := reader.Next()
		if !ok {
			errCh <- fmt.Errorf("at serial reader closed")
			return
		}
		rawLogger.Log(true, []byte(line))
		outcome := parser.HandleLine(ctx, line)
		reply := outcome.Reply(line)
		if _, err := port.Write([]byte(reply + "\r\n")); err != nil {
			errCh <- fmt.Errorf("write at reply: %w", err)
			return
		}
	}
}

// loadSlot replays a persisted slot's AT text through the parser (as bound
// commands normally arrive) and commits the result, mirroring the "AT LI"
// load_slot handler's own replay-then-commit shape (spec §4.5).
func loadSlot(parser *atcmd.Parser, switcher *slotcfg.Switcher, store slotcfg.Store, name string) error {
	text, err := store.Load(name)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if outcome := parser.HandleLine(context.Background(), line); outcome != atcmd.Success {
			return fmt.Errorf("replay slot %q line %q: %s", name, line, outcome)
		}
	}
	switcher.Staging().SlotName = name
	switcher.Commit()
	return nil
}

// buttonLines assigns the device model's positional button VBs (spec
// §3.1's note that VBs beyond the fixed set are "purely positional") to
// sequential offsets on a single gpiochip.
func buttonLines(chip string, vbMax int) []gpio.Line {
	const fixedVBCount = 16
	var lines []gpio.Line
	for i := 0; i < vbMax-fixedVBCount; i++ {
		lines = append(lines, gpio.Line{VB: vbmodel.VB(fixedVBCount + i), Chip: chip, Offset: uint32(i)})
	}
	return lines
}

// hasStrongBinding reports whether any of a strong pressure state's four
// directional VBs has a binding in either table, the signal the pressure
// state machine uses to decide whether to open the direction-resolution
// delay window at all (spec §4.1/§9, adcengine.pressureMachine.enterStrong).
func hasStrongBinding(hid *binding.HidBindingTable, vb *binding.VbBindingTable, ps vbmodel.PressureState) bool {
	var dirs []vbmodel.VB
	switch ps {
	case vbmodel.PressureStrongSip:
		dirs = []vbmodel.VB{vbmodel.VBStrongSipUp, vbmodel.VBStrongSipDown, vbmodel.VBStrongSipLeft, vbmodel.VBStrongSipRight}
	case vbmodel.PressureStrongPuff:
		dirs = []vbmodel.VB{vbmodel.VBStrongPuffUp, vbmodel.VBStrongPuffDown, vbmodel.VBStrongPuffLeft, vbmodel.VBStrongPuffRight}
	default:
		return false
	}
	for _, v := range dirs {
		if hid.IsActive(v, vbmodel.Press) || vb.IsActive(v, vbmodel.Press) {
			return true
		}
	}
	return false
}

func parseDeviceModel(s string) vbmodel.DeviceModel {
	if strings.EqualFold(s, "fabi") {
		return vbmodel.ModelFABI
	}
	return vbmodel.ModelFLipMouse
}
