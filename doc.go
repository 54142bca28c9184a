// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hc165 is a container for the 74HC165 shift register driver and its
// command line tool.
//
// The driver lives in nxp74hc165, the terminal view of the inputs in
// inputview and the tool in cmd/hc165.
package hc165
