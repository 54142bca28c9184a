// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc165

import (
	"context"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Reader is implemented by Dev.
type Reader interface {
	Read() (gpio.GPIOValue, error)
}

// Handler is notified by a Watcher when inputs change state.
type Handler interface {
	// OnUp is called for an input that went from Low to High.
	OnUp(pin int)
	// OnDown is called for an input that went from High to Low.
	OnDown(pin int)
}

// HandlerFuncs adapts a pair of functions to a Handler. Either may be nil.
type HandlerFuncs struct {
	Up   func(pin int)
	Down func(pin int)
}

// OnUp calls h.Up if set.
func (h HandlerFuncs) OnUp(pin int) {
	if h.Up != nil {
		h.Up(pin)
	}
}

// OnDown calls h.Down if set.
func (h HandlerFuncs) OnDown(pin int) {
	if h.Down != nil {
		h.Down(pin)
	}
}

// Changes compares two readings and returns the inputs that rose and the
// inputs that fell, in ascending order.
func Changes(prev, cur gpio.GPIOValue) (up, down []int) {
	diff := (prev ^ cur) & devMask
	for ix := range numPins {
		bit := gpio.GPIOValue(1 << ix)
		if diff&bit == 0 {
			continue
		}
		if cur&bit != 0 {
			up = append(up, ix)
		} else {
			down = append(down, ix)
		}
	}
	return up, down
}

// Watcher polls a Reader and reports input changes to a Handler. Inputs are
// not debounced.
type Watcher struct {
	r        Reader
	h        Handler
	interval time.Duration

	mu   sync.Mutex
	last gpio.GPIOValue
}

// NewWatcher returns a Watcher polling r every interval. An interval of 0
// polls continuously.
func NewWatcher(r Reader, interval time.Duration, h Handler) *Watcher {
	return &Watcher{r: r, h: h, interval: interval}
}

// Run takes a baseline reading and then polls until ctx is done or a read
// fails. Handler calls are made from the goroutine calling Run; for each
// change all rising inputs are reported before falling ones.
func (w *Watcher) Run(ctx context.Context) error {
	value, err := w.r.Read()
	if err != nil {
		return err
	}
	w.setLast(value)

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.poll(); err != nil {
			return err
		}
	}
}

// Last returns the most recent reading.
func (w *Watcher) Last() gpio.GPIOValue {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *Watcher) poll() error {
	value, err := w.r.Read()
	if err != nil {
		return err
	}
	prev := w.Last()
	if value == prev {
		return nil
	}
	up, down := Changes(prev, value)
	for _, p := range up {
		w.h.OnUp(p)
	}
	for _, p := range down {
		w.h.OnDown(p)
	}
	w.setLast(value)
	return nil
}

func (w *Watcher) setLast(v gpio.GPIOValue) {
	w.mu.Lock()
	w.last = v
	w.mu.Unlock()
}
