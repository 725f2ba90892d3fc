//go:build linux
// +build linux

package midirtmidi

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/leandrodaf/ewibreath/internal/midi/midimsg"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
)

// Ports matching these are ALSA/JACK plumbing, never a player's instrument.
var excludedPorts = []string{"Midi Through", "Through Port"}

// ClientMid reads MIDI input through rtmidi (ALSA).
type ClientMid struct {
	logger contracts.Logger
	drv    *rtmididrv.Driver
	filter *contracts.MIDIEventFilter
	sink   *midimsg.Sink

	mu     sync.Mutex
	inPort drivers.In
	stopFn func()
}

// NewMIDIClient initialises the rtmidi driver.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Info("rtmidi client created")
	return &ClientMid{
		logger: options.Logger,
		drv:    drv,
		filter: options.MIDIEventFilter,
		sink:   midimsg.NewSink(options.Logger),
	}, nil
}

func (m *ClientMid) inputs() ([]drivers.In, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	out := make([]drivers.In, 0, len(ins))
	for _, in := range ins {
		if excluded(in.String()) {
			m.logger.Debug("Input excluded", m.logger.Field().String("device", in.String()))
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range excludedPorts {
		if strings.Contains(lower, strings.ToLower(pat)) {
			return true
		}
	}
	return false
}

// ListDevices lists the ALSA input ports.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	ins, err := m.inputs()
	if err != nil {
		return nil, err
	}
	if len(ins) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{
			ID:         i,
			Name:       in.String(),
			EntityName: in.String(),
		}
	}
	return devices, nil
}

// SelectDevice opens an input port and, if a capture channel is set, starts listening.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ins, err := m.inputs()
	if err != nil {
		return err
	}
	if len(ins) == 0 {
		return ErrNoMIDIDevices
	}
	if deviceID < 0 || deviceID >= len(ins) {
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	m.closePort()

	in := ins[deviceID]
	if err := in.Open(); err != nil {
		return fmt.Errorf("open %q: %w", in.String(), err)
	}
	m.inPort = in
	m.logger.Info("MIDI device connected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", in.String()))

	if m.sink.Attached() {
		return m.listen()
	}
	return nil
}

// StartCapture forwards decoded messages to eventChannel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	m.sink.Attach(eventChannel)

	if m.inPort == nil {
		m.logger.Warn("No MIDI device selected; capture starts once one is opened")
		return
	}
	if err := m.listen(); err != nil {
		m.logger.Error("Failed to start MIDI capture", m.logger.Field().Error("error", err))
	}
}

func (m *ClientMid) listen() error {
	if m.stopFn != nil {
		return nil
	}
	name := m.inPort.String()
	stop, err := midi.ListenTo(m.inPort, m.handleMessage, midi.HandleError(func(err error) {
		m.logger.Warn("MIDI listener error",
			m.logger.Field().String("device", name),
			m.logger.Field().Error("error", err))
	}))
	if err != nil {
		return fmt.Errorf("listen %q: %w", name, err)
	}
	m.stopFn = stop
	m.logger.Info("MIDI capture started")
	return nil
}

func (m *ClientMid) handleMessage(msg midi.Message, _ int32) {
	m.sink.Deliver(midimsg.Split([]byte(msg), time.Now(), m.filter))
}

func (m *ClientMid) closePort() {
	if m.stopFn != nil {
		m.stopFn()
		m.stopFn = nil
	}
	if m.inPort != nil {
		_ = m.inPort.Close()
		m.inPort = nil
	}
}

// Stop closes the input port and the driver.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sink.Detach()
	m.closePort()
	if m.drv != nil {
		if err := m.drv.Close(); err != nil {
			return fmt.Errorf("close rtmidi driver: %w", err)
		}
		m.drv = nil
	}
	m.logger.Info("MIDI capture stopped")
	return nil
}
