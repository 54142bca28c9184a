// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nxp74hc165 reads the 74HC165 shift register. It converts a parallel
// input to a serial stream, which makes it a cheap way to add 8 digital
// inputs using only three GPIO lines.
//
// The register is bit-banged: the latch (PL, chip pin 1) is pulsed low to
// capture D0-D7, then the clock (CP, chip pin 2) is pulsed eight times while
// the serial output (Q7, chip pin 9) is sampled. The clock enable (CE, chip
// pin 15) may be tied to ground or handed to the driver, which holds it low.
//
// # Datasheet
//
// https://www.nexperia.com/product/74HC165D
//
// There's a nice tutorial on the device here:
//
// https://docs.arduino.cc/tutorials/communication/guide-to-shift-in/
package nxp74hc165

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

const (
	devMask = 0xff
	devName = "74HC165"
	numPins = 8
)

var (
	ErrNotImplemented = errors.New("nxp74hc165: not implemented")
	ErrHalted         = errors.New("nxp74hc165: device halted")
	ErrInvalidPin     = errors.New("nxp74hc165: invalid pin")
)

// Opts holds the optional wiring and timing of the device.
type Opts struct {
	// ClockEnable is the pin wired to CE. It's driven low on New and left
	// there. Leave nil if CE is tied to ground.
	ClockEnable gpio.PinOut
	// PulseWidth is how long the latch and clock lines are held in their
	// active state. The chip needs ~20ns at 5V, most GPIO drivers are far
	// slower than that, so the default is generous.
	PulseWidth time.Duration
	// Pull is applied to the serial data line.
	Pull gpio.Pull
}

// DefaultOpts is used when nil is passed to New.
var DefaultOpts = Opts{
	PulseWidth: 2 * time.Microsecond,
	Pull:       gpio.PullDown,
}

// Dev represents a 74HC165 device.
type Dev struct {
	// Pins are the parallel inputs D0-D7. Reading a pin reads the whole
	// register.
	Pins []gpio.PinIn

	mu     sync.Mutex
	clk    gpio.PinOut
	latch  gpio.PinOut
	data   gpio.PinIn
	ce     gpio.PinOut
	pulse  time.Duration
	halted bool
}

// New configures the pins and returns a 74HC165 device ready to be read.
//
// clk is wired to CP, latch to PL and data to Q7.
func New(clk, latch gpio.PinOut, data gpio.PinIn, opts *Opts) (*Dev, error) {
	if clk == nil || latch == nil || data == nil {
		return nil, fmt.Errorf("%w: clock, latch and data are required", ErrInvalidPin)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	dev := &Dev{
		clk:   clk,
		latch: latch,
		data:  data,
		ce:    opts.ClockEnable,
		pulse: opts.PulseWidth,
		Pins:  make([]gpio.PinIn, numPins),
	}
	for ix := range numPins {
		dev.Pins[ix] = &Pin{number: ix, name: fmt.Sprintf("%s_GPI%d", devName, ix), dev: dev}
	}
	if err := data.In(opts.Pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("nxp74hc165: data pin %s: %w", data, err)
	}
	if err := clk.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("nxp74hc165: clock pin %s: %w", clk, err)
	}
	if dev.ce != nil {
		if err := dev.ce.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("nxp74hc165: clock enable pin %s: %w", dev.ce, err)
		}
	}
	// PL is active low, idle high.
	if err := latch.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("nxp74hc165: latch pin %s: %w", latch, err)
	}
	return dev, nil
}

// ReadByte loads the parallel inputs into the register and shifts them out.
// Bit n of the returned value is the level of input Dn.
func (dev *Dev) ReadByte() (byte, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.halted {
		return 0, ErrHalted
	}
	if err := dev.load(); err != nil {
		return 0, err
	}
	// After the load Q7 holds D7, so the first bit sampled is the MSB.
	var value byte
	for range numPins {
		value <<= 1
		if dev.data.Read() == gpio.High {
			value |= 1
		}
		if err := dev.pulseClock(); err != nil {
			return 0, err
		}
	}
	return value, nil
}

// Read returns the state of the parallel inputs as a gpio.GPIOValue.
func (dev *Dev) Read() (gpio.GPIOValue, error) {
	b, err := dev.ReadByte()
	return gpio.GPIOValue(b), err
}

// Levels returns the state of the parallel inputs, indexed by input number.
func (dev *Dev) Levels() ([]gpio.Level, error) {
	b, err := dev.ReadByte()
	if err != nil {
		return nil, err
	}
	levels := make([]gpio.Level, numPins)
	for ix := range numPins {
		levels[ix] = gpio.Level(b&(1<<ix) != 0)
	}
	return levels, nil
}

// Group returns a subset of the inputs as a gpio.Group. Reading the group
// reads the register once.
func (dev *Dev) Group(pins ...int) (gpio.Group, error) {
	gr := Group{dev: dev, pins: make([]*Pin, len(pins))}
	for ix, pinNumber := range pins {
		if pinNumber < 0 || pinNumber >= len(dev.Pins) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPin, pinNumber)
		}
		p, ok := dev.Pins[pinNumber].(*Pin)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPin, pinNumber)
		}
		gr.pins[ix] = p
	}
	return &gr, nil
}

// Halt returns the control lines to their idle state. The device can't be
// read afterward.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.halted {
		return nil
	}
	dev.halted = true
	err := dev.clk.Out(gpio.Low)
	if err2 := dev.latch.Out(gpio.High); err == nil {
		err = err2
	}
	if err != nil {
		return fmt.Errorf("nxp74hc165: halt: %w", err)
	}
	return nil
}

func (dev *Dev) String() string {
	return devName
}

// load pulses PL low, copying D0-D7 into the register.
func (dev *Dev) load() error {
	if err := dev.latch.Out(gpio.Low); err != nil {
		return fmt.Errorf("nxp74hc165: latch: %w", err)
	}
	dev.delay()
	if err := dev.latch.Out(gpio.High); err != nil {
		return fmt.Errorf("nxp74hc165: latch: %w", err)
	}
	dev.delay()
	return nil
}

// pulseClock shifts the register by one bit on the rising edge of CP.
func (dev *Dev) pulseClock() error {
	if err := dev.clk.Out(gpio.High); err != nil {
		return fmt.Errorf("nxp74hc165: clock: %w", err)
	}
	dev.delay()
	if err := dev.clk.Out(gpio.Low); err != nil {
		return fmt.Errorf("nxp74hc165: clock: %w", err)
	}
	dev.delay()
	return nil
}

func (dev *Dev) delay() {
	if dev.pulse > 0 {
		time.Sleep(dev.pulse)
	}
}

var _ conn.Resource = &Dev{}
