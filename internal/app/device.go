package app

import (
	"time"
)

// scanDevices keeps the input connected: it opens the configured device when
// none is open and notices when the open one disappears.
func (a *App) scanDevices(now time.Time) {
	a.lastScan = now
	log := a.logger

	devices, err := a.client.ListDevices()
	if err != nil || len(devices) == 0 {
		if a.connected {
			log.Warn("MIDI device lost", log.Field().String("device", a.device))
			a.session.Note(now, "Device disconnected: %s", a.device)
		}
		a.connected, a.device = false, ""
		a.session.SetDevice("", false)
		if err != nil {
			log.Debug("No MIDI input available", log.Field().Error("error", err))
		}
		return
	}

	if a.connected {
		for _, d := range devices {
			if d.Name == a.device {
				return
			}
		}
		log.Warn("MIDI device lost", log.Field().String("device", a.device))
		a.session.Note(now, "Device disconnected: %s", a.device)
		a.connected, a.device = false, ""
		a.session.SetDevice("", false)
	}

	target := devices[0]
	if i := a.cfg.DeviceIndex; i >= 0 {
		if i >= len(devices) {
			log.Debug("Configured MIDI device not present",
				log.Field().Int("deviceIndex", i),
				log.Field().Int("available", len(devices)))
			return
		}
		target = devices[i]
	}

	if err := a.client.SelectDevice(target.ID); err != nil {
		log.Warn("Failed to open MIDI device",
			log.Field().String("device", target.Name),
			log.Field().Error("error", err))
		return
	}

	a.connected, a.device = true, target.Name
	a.session.SetDevice(target.Name, true)
	a.session.Note(now, "Connected to %s", target.Name)
	log.Info("MIDI device connected", log.Field().String("device", target.Name))
}
