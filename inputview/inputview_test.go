// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package inputview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/ansi256"
	"periph.io/x/conn/v3/gpio"
)

func TestWritePlain(t *testing.T) {
	for _, tc := range []struct {
		name  string
		width int
		value gpio.GPIOValue
		want  string
	}{
		{name: "zero", value: 0, want: "00000000 0x00\n"},
		{name: "bit0 leftmost", value: 0b0000_0101, want: "10100000 0x05\n"},
		{name: "all", value: 0xff, want: "11111111 0xff\n"},
		{name: "narrow", width: 4, value: 0b1001, want: "1001 0x09\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			d := NewWriter(&buf, &Opts{Width: tc.width})
			if err := d.Write(tc.value); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(buf.String(), tc.want); diff != "" {
				t.Errorf("Write() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestWriteColor(t *testing.T) {
	var buf bytes.Buffer
	on := true
	opts := DefaultOpts
	opts.Color = &on
	d := NewWriter(&buf, &opts)
	if err := d.Write(0b0000_0001); err != nil {
		t.Fatal(err)
	}
	high := ansi256.Default.Block(opts.On)
	low := ansi256.Default.Block(opts.Off)
	want := "\r\033[0m" + high + strings.Repeat(low, 7) + "\033[0m 0x01 "
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("Write() difference (-got +want):\n%s", diff)
	}

	buf.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", buf.String())
	}
}

func TestHaltPlain(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriter(&buf, nil)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Halt() wrote %q in plain mode", buf.String())
	}
	if d.String() != "InputView" {
		t.Errorf("unexpected String()=%q", d.String())
	}
}
