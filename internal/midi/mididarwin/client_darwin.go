//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/ewibreath/internal/midi/midimsg"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

type internalPortConnection interface {
	Disconnect()
}

// ClientMid reads MIDI input through CoreMIDI.
// The CoreMIDI callback runs on its own thread; events reach the caller only
// through the channel handed to StartCapture. The input port is created once
// and reconnected to whichever source is selected.
type ClientMid struct {
	logger    contracts.Logger
	sink      *midimsg.Sink
	client    coremidi.Client
	inputPort coremidi.InputPort
	portReady bool
	portConn  internalPortConnection
	filter    *contracts.MIDIEventFilter
	config    *contracts.DriverConfig
	mu        sync.Mutex
	capturing bool
}

// NewMIDIClient registers a CoreMIDI client named after the driver configuration.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.DriverConfig.ClientName)
	if err != nil {
		return nil, fmt.Errorf("create CoreMIDI client: %w", err)
	}
	options.Logger.Info("CoreMIDI client created",
		options.Logger.Field().String("client", options.DriverConfig.ClientName))

	return &ClientMid{
		logger: options.Logger,
		sink:   midimsg.NewSink(options.Logger),
		client: client,
		filter: options.MIDIEventFilter,
		config: options.DriverConfig,
	}, nil
}

// ListDevices returns the CoreMIDI sources.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects the input port to a source, replacing any previous connection.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		return ErrNoMIDIDevices
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	if !m.portReady {
		m.inputPort, err = coremidi.NewInputPort(m.client, m.config.PortName, m.handlePacket)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
		}
		m.portReady = true
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device connected")
	return nil
}

// handlePacket decodes a CoreMIDI packet and forwards its messages without blocking.
func (m *ClientMid) handlePacket(_ coremidi.Source, packet coremidi.Packet) {
	m.sink.Deliver(midimsg.Split(packet.Data, time.Now(), m.filter))
}

// StartCapture starts forwarding events to eventChannel. A running capture is
// redirected to the new channel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	if m.capturing {
		m.logger.Warn("Capture already started; switching event channel")
	}

	m.sink.Attach(eventChannel)
	m.capturing = true
	m.logger.Info("MIDI capture started")
}

// Stop disconnects from the source and waits for in-flight callbacks. It is
// safe to call more than once.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}
	if !m.capturing {
		return nil
	}

	m.capturing = false
	m.sink.Detach()

	m.logger.Info("MIDI capture stopped")
	return nil
}
