// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package inputview shows the state of a bank of digital inputs on a
// terminal, one colored block per input.
//
// Input 0 is drawn leftmost. When the output isn't a terminal each reading is
// printed on its own line as a string of 0 and 1.
package inputview

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/gpio"
)

// Opts represents the options available for the view.
type Opts struct {
	// Width is the number of inputs shown. Defaults to 8.
	Width   int
	Palette *ansi256.Palette
	// On and Off are the colors of High and Low inputs.
	On, Off color.NRGBA
	// Color forces ANSI output on or off. When nil, it's on if stdout is a
	// terminal.
	Color *bool

	_ struct{}
}

// DefaultOpts is used when nil is passed to New.
var DefaultOpts = Opts{
	Width: 8,
	On:    color.NRGBA{0, 255, 0, 255},
	Off:   color.NRGBA{40, 40, 40, 255},
}

// Dev draws readings to a terminal.
type Dev struct {
	w       io.Writer
	width   int
	palette ansi256.Palette
	on, off color.NRGBA
	color   bool

	buf bytes.Buffer
}

// New returns a Dev that draws to stdout.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if opts.Color != nil {
		useColor = *opts.Color
	}
	return newDev(colorable.NewColorableStdout(), opts, useColor)
}

// NewWriter returns a Dev that draws to w. Color is off unless forced in
// opts.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	useColor := false
	if opts.Color != nil {
		useColor = *opts.Color
	}
	return newDev(w, opts, useColor)
}

func newDev(w io.Writer, opts *Opts, useColor bool) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	width := opts.Width
	if width <= 0 || width > 64 {
		width = DefaultOpts.Width
	}
	return &Dev{w: w, width: width, palette: *p, on: opts.On, off: opts.Off, color: useColor}
}

func (d *Dev) String() string {
	return "InputView"
}

// Halt resets the terminal attributes and ends the line.
func (d *Dev) Halt() error {
	if !d.color {
		return nil
	}
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Write draws the reading v. In color mode the line is redrawn in place.
func (d *Dev) Write(v gpio.GPIOValue) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.color {
		_, _ = d.buf.WriteString("\r\033[0m")
		for ix := range d.width {
			c := d.off
			if v&(1<<ix) != 0 {
				c = d.on
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = fmt.Fprintf(&d.buf, "\033[0m 0x%02x ", uint64(v))
	} else {
		for ix := range d.width {
			if v&(1<<ix) != 0 {
				_ = d.buf.WriteByte('1')
			} else {
				_ = d.buf.WriteByte('0')
			}
		}
		_, _ = fmt.Fprintf(&d.buf, " 0x%02x\n", uint64(v))
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ fmt.Stringer = &Dev{}
