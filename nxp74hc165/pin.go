// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc165

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Pin is one of the parallel inputs D0-D7.
type Pin struct {
	dev    *Dev
	name   string
	number int
}

// Halt implements conn.Resource.
func (pin *Pin) Halt() error {
	return nil
}

// Name returns the name of the GPIO pin.
func (pin *Pin) Name() string {
	return pin.name
}

// Number returns the input number of the pin.
func (pin *Pin) Number() int {
	return pin.number
}

// Deprecated: returns "In"
func (pin *Pin) Function() string {
	return "In"
}

// In is a no-op since the inputs are always inputs. The chip has no pull
// resistors and can't detect edges.
func (pin *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return ErrNotImplemented
	}
	return nil
}

// Read reads the whole register and returns the level of this input. On
// error, gpio.Low is returned.
func (pin *Pin) Read() gpio.Level {
	value, err := pin.dev.Read()
	if err != nil {
		return gpio.Low
	}
	return value&(1<<pin.number) != 0
}

// WaitForEdge always returns false. Use a Watcher to get notified of changes.
func (pin *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull returns gpio.PullNoChange; the pull is set by the external circuit.
func (pin *Pin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// DefaultPull returns gpio.PullNoChange.
func (pin *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

func (pin *Pin) String() string {
	return pin.name
}

var _ gpio.PinIn = &Pin{}
