// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc165

import (
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// Group implements gpio.Group and provides a way to read multiple inputs in
// a single transaction.
type Group struct {
	dev  *Dev
	pins []*Pin
}

// Pins returns the parallel inputs of the group, in group order.
func (gr *Group) Pins() []pin.Pin {
	result := make([]pin.Pin, len(gr.pins))
	for ix, p := range gr.pins {
		result[ix] = p
	}
	return result
}

// ByOffset returns the input at offset in the group, or nil past the end.
func (gr *Group) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(gr.pins) {
		return nil
	}
	return gr.pins[offset]
}

// ByName returns the input named name, like "74HC165_GPI3", or nil.
func (gr *Group) ByName(name string) pin.Pin {
	for _, p := range gr.pins {
		if p.name == name {
			return p
		}
	}
	return nil
}

// ByNumber returns the input Dn of the group, or nil if it isn't a member.
func (gr *Group) ByNumber(number int) pin.Pin {
	for _, p := range gr.pins {
		if p.number == number {
			return p
		}
	}
	return nil
}

// Out is not available for this device.
func (gr *Group) Out(value, mask gpio.GPIOValue) error {
	return ErrNotImplemented
}

// Read reads the register and returns the group's inputs. Bit n of the
// result is the pin at offset n. If mask is 0, all pins of the group are
// returned.
func (gr *Group) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(gr.pins)) - 1
	}
	raw, err := gr.dev.Read()
	if err != nil {
		return 0, err
	}
	raw &= devMask
	result := gpio.GPIOValue(0)
	for ix, p := range gr.pins {
		currentBit := gpio.GPIOValue(1 << ix)
		if mask&currentBit == 0 {
			continue
		}
		if raw&(1<<p.number) != 0 {
			result |= currentBit
		}
	}
	return result, nil
}

// WaitForEdge is not available for this device.
func (gr *Group) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, ErrNotImplemented
}

// Halt frees the group's resources and prevents it from being used again.
func (gr *Group) Halt() error {
	gr.pins = nil
	return nil
}

func (gr *Group) String() string {
	var sb strings.Builder
	sb.WriteString(gr.dev.String())
	sb.WriteString("[ ")
	for _, p := range gr.pins {
		fmt.Fprintf(&sb, "%d ", p.number)
	}
	sb.WriteString("]")
	return sb.String()
}

var _ gpio.Group = &Group{}
