package midimsg

import (
	"sync"
	"testing"

	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newSink() (*Sink, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSink(logger.NewZapLoggerWithCore(core)), logs
}

func cc(value byte) contracts.MIDI {
	return contracts.MIDI{Command: byte(contracts.ControlChange), Data1: 7, Data2: value}
}

func TestSinkDropsWithoutChannel(t *testing.T) {
	s, _ := newSink()
	assert.False(t, s.Attached())
	assert.Zero(t, s.Deliver([]contracts.MIDI{cc(1)}))
}

func TestSinkDropsWhenFull(t *testing.T) {
	s, logs := newSink()
	ch := make(chan contracts.MIDI, 2)
	s.Attach(ch)
	assert.True(t, s.Attached())

	dropped := s.Deliver([]contracts.MIDI{cc(1), cc(2), cc(3)})

	assert.Equal(t, 1, dropped)
	assert.Len(t, ch, 2)
	assert.Equal(t, 1, logs.FilterMessage("Event buffer full; dropping MIDI events").Len())
}

func TestSinkDetachWaitsForDeliveries(t *testing.T) {
	s, _ := newSink()
	ch := make(chan contracts.MIDI, 10000)
	s.Attach(ch)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 200; j++ {
				s.Deliver([]contracts.MIDI{cc(byte(j % 128))})
			}
		}()
	}

	close(start)
	s.Detach()
	settled := len(ch)
	assert.False(t, s.Attached())

	wg.Wait()
	assert.Equal(t, settled, len(ch), "no event may arrive after Detach returned")
}
