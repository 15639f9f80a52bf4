package main

import (
	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/andresousadotpt/kbdecode"
)

// Monitor owns one Decoder per input device and keeps them on the same
// keyboard identity. It is driven by a single goroutine.
type Monitor struct {
	log      zerolog.Logger
	identity kbdecode.Identity
	decoders map[string]*kbdecode.Decoder
}

// NewMonitor checks that id compiles and returns a monitor without devices.
func NewMonitor(id kbdecode.Identity, log zerolog.Logger) (*Monitor, error) {
	if _, err := kbdecode.New(id); err != nil {
		return nil, err
	}
	return &Monitor{
		log:      log,
		identity: id,
		decoders: make(map[string]*kbdecode.Decoder),
	}, nil
}

// Identity returns the identity the decoders use.
func (m *Monitor) Identity() kbdecode.Identity {
	return m.identity
}

func (m *Monitor) decoder(device string) *kbdecode.Decoder {
	if d, ok := m.decoders[device]; ok {
		return d
	}
	// NewMonitor or Reload already compiled this identity
	d, err := kbdecode.New(m.identity, kbdecode.WithLogger(m.deviceLog(device)))
	if err != nil {
		panic(err)
	}
	m.decoders[device] = d
	return d
}

func (m *Monitor) deviceLog(device string) zerolog.Logger {
	return m.log.With().Str("device", device).Logger()
}

// HandleEvent decodes one event. The second result is false when the event
// produced nothing worth reporting, e.g. the release of a key that was
// already held when monitoring started. When the inferred direction
// disagrees with the device, the code is decoded once more so that the
// decoder agrees with the device again.
func (m *Monitor) HandleEvent(ev KeyEvent) (kbdecode.Keystroke, bool) {
	if ev.Value != 0 && ev.Value != 1 {
		return kbdecode.Keystroke{}, false
	}

	d := m.decoder(ev.Device)
	code := uint32(ev.Code)
	k := d.Decode(code)

	want := kbdecode.Up
	if ev.Pressed() {
		want = kbdecode.Down
	}
	if k.Direction != want {
		m.log.Warn().
			Str("device", ev.Device).
			Str("key", evdev.CodeName(evdev.EV_KEY, ev.Code)).
			Stringer("inferred", k.Direction).
			Stringer("actual", want).
			Msg("missed key transition")
		// a second transition of the same code undoes the wrong one and
		// leaves every other held key alone
		k = d.Decode(code)
		if want == kbdecode.Up {
			return kbdecode.Keystroke{}, false
		}
	}

	m.log.Debug().
		Str("device", ev.Device).
		Str("key", evdev.CodeName(evdev.EV_KEY, ev.Code)).
		Stringer("keystroke", k).
		Strs("modifiers", k.Modifiers().Names()).
		Msg("decoded")
	return k, true
}

// Reload moves every decoder to id. When only the layout differs the
// decoders switch layout in place and keep their held keys; otherwise they
// are rebuilt. On error the previous identity stays active.
func (m *Monitor) Reload(id kbdecode.Identity) error {
	if id == m.identity {
		return nil
	}
	if _, err := kbdecode.New(id); err != nil {
		m.log.Error().Err(err).Str("identity", id.String()).Msg("keeping previous keymap")
		return err
	}

	if sameExceptLayout(id, m.identity) {
		for device, d := range m.decoders {
			if err := d.SetLayout(id.Layout); err != nil {
				m.log.Error().Err(err).Str("device", device).Msg("layout switch failed")
				return err
			}
		}
		m.identity = id
		m.log.Info().Str("layout", id.Layout).Int("devices", len(m.decoders)).Msg("layout switched")
		return nil
	}

	m.identity = id
	old := m.decoders
	m.decoders = make(map[string]*kbdecode.Decoder, len(old))
	for device := range old {
		m.decoder(device)
	}
	m.log.Info().Str("identity", id.String()).Msg("keyboard identity reloaded")
	return nil
}

func sameExceptLayout(a, b kbdecode.Identity) bool {
	a.Layout, b.Layout = "", ""
	return a == b
}
