package main

import (
	"fmt"
	"slices"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"
)

// KeyEvent is a key press (Value 1) or release (Value 0) read from one
// device. Repeats never leave MonitorKeyboard.
type KeyEvent struct {
	Device string
	Code   evdev.EvCode
	Value  int32
}

func (ev KeyEvent) Pressed() bool {
	return ev.Value == 1
}

// isKeyboard reports whether the capabilities look like a physical keyboard
// rather than a mouse, power button or media remote.
func isKeyboard(codes []evdev.EvCode) bool {
	return slices.Contains(codes, evdev.KEY_A) && slices.Contains(codes, evdev.KEY_ENTER)
}

// Keyboard is an opened keyboard device.
type Keyboard struct {
	*evdev.InputDevice
	Path string
	Name string
}

// FindKeyboards opens every input device whose name passes match and that
// has both KEY_A and KEY_ENTER capabilities.
func FindKeyboards(match func(name string) bool, log zerolog.Logger) ([]Keyboard, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var kbds []Keyboard
	for _, p := range paths {
		if !match(p.Name) {
			log.Debug().Str("device", p.Path).Str("name", p.Name).Msg("filtered out")
			continue
		}

		dev, err := evdev.Open(p.Path)
		if err != nil {
			log.Debug().Err(err).Str("device", p.Path).Msg("cannot open")
			continue
		}

		if isKeyboard(dev.CapableEvents(evdev.EV_KEY)) {
			kbds = append(kbds, Keyboard{InputDevice: dev, Path: p.Path, Name: p.Name})
		} else {
			dev.Close()
		}
	}

	return kbds, nil
}

// isRepeat reports whether ev is an autorepeat of a held key.
func isRepeat(ev *evdev.InputEvent) bool {
	return ev.Value == 2
}

// MonitorKeyboard reads events from a single keyboard device and sends
// presses and releases on the channel. Exits when the device is closed or
// errors.
func MonitorKeyboard(kb Keyboard, ch chan<- KeyEvent, wg *sync.WaitGroup, log zerolog.Logger) {
	defer wg.Done()
	for {
		ev, err := kb.ReadOne()
		if err != nil {
			log.Debug().Err(err).Msg("device closed")
			return
		}
		if ev.Type != evdev.EV_KEY || isRepeat(ev) {
			continue
		}
		ch <- KeyEvent{Device: kb.Path, Code: ev.Code, Value: ev.Value}
	}
}
