// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hc165 reads the inputs of a 74HC165 shift register wired to GPIO pins.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/GermanBionicSystems/hc165/inputview"
	"github.com/GermanBionicSystems/hc165/nxp74hc165"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func parsePull(s string) (gpio.Pull, error) {
	switch strings.ToLower(s) {
	case "", "down":
		return gpio.PullDown, nil
	case "up":
		return gpio.PullUp, nil
	case "float", "none":
		return gpio.Float, nil
	default:
		return gpio.PullNoChange, fmt.Errorf("invalid pull %q", s)
	}
}

func openPin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to find pin %q", name)
	}
	return p, nil
}

func openDev(cfg *config) (*nxp74hc165.Dev, error) {
	clk, err := openPin(cfg.Clock)
	if err != nil {
		return nil, err
	}
	latch, err := openPin(cfg.Latch)
	if err != nil {
		return nil, err
	}
	data, err := openPin(cfg.Data)
	if err != nil {
		return nil, err
	}
	pull, err := parsePull(cfg.Pull)
	if err != nil {
		return nil, err
	}
	opts := nxp74hc165.Opts{PulseWidth: cfg.PulseWidth, Pull: pull}
	if cfg.ClockEnable != "" {
		if opts.ClockEnable, err = openPin(cfg.ClockEnable); err != nil {
			return nil, err
		}
	}
	return nxp74hc165.New(clk, latch, data, &opts)
}

// watch reports every input change until ctx is canceled.
func watch(ctx context.Context, dev *nxp74hc165.Dev, cfg *config, view *inputview.Dev, colored bool, initial gpio.GPIOValue) error {
	var h nxp74hc165.Handler = nxp74hc165.HandlerFuncs{
		Up:   func(pin int) { fmt.Printf("pin %d UP\n", pin) },
		Down: func(pin int) { fmt.Printf("pin %d DOWN\n", pin) },
	}
	var vh *viewHandler
	if colored {
		vh = &viewHandler{view: view, value: initial}
		h = vh
	}
	log.Printf("watching %s every %s", dev, cfg.Interval)
	err := nxp74hc165.NewWatcher(dev, cfg.Interval, h).Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil && vh != nil {
		err = vh.err
	}
	return err
}

// viewHandler keeps track of the inputs and redraws the view on each change.
// The first draw error is kept in err.
type viewHandler struct {
	view  *inputview.Dev
	value gpio.GPIOValue
	err   error
}

func (v *viewHandler) OnUp(pin int) {
	v.value |= 1 << pin
	v.draw()
}

func (v *viewHandler) OnDown(pin int) {
	v.value &^= 1 << pin
	v.draw()
}

func (v *viewHandler) draw() {
	if err := v.view.Write(v.value); err != nil && v.err == nil {
		log.Printf("view: %v", err)
		v.err = fmt.Errorf("view: %w", err)
	}
}

func mainImpl() error {
	cfgPath := flag.String("config", "", "YAML file with the pin configuration")
	clk := flag.String("clk", "", "pin connected to CP (chip pin 2)")
	latch := flag.String("latch", "", "pin connected to PL (chip pin 1)")
	data := flag.String("data", "", "pin connected to Q7 (chip pin 9)")
	ce := flag.String("ce", "", "optional pin connected to CE (chip pin 15)")
	pull := flag.String("pull", "", "pull on the data pin: down, up or float")
	interval := flag.Duration("interval", 0, "polling interval in watch mode")
	watchMode := flag.Bool("watch", false, "report input changes until interrupted")
	showView := flag.Bool("view", false, "draw the inputs as colored blocks")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "clk":
			cfg.Clock = *clk
		case "latch":
			cfg.Latch = *latch
		case "data":
			cfg.Data = *data
		case "ce":
			cfg.ClockEnable = *ce
		case "pull":
			cfg.Pull = *pull
		case "interval":
			cfg.Interval = *interval
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}
	if *verbose {
		log.Printf("config: %+v", cfg)
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	dev, err := openDev(&cfg)
	if err != nil {
		return err
	}
	defer dev.Halt()

	view := inputview.NewWriter(os.Stdout, nil)
	if *showView {
		view = inputview.New(nil)
	}
	defer view.Halt()

	value, err := dev.Read()
	if err != nil {
		return err
	}
	if err := view.Write(value); err != nil {
		return err
	}
	if !*watchMode {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watch(ctx, dev, &cfg, view, *showView, value)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "hc165: %s.\n", err)
		os.Exit(1)
	}
}
