// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides terminal output helpers for the Shannon Insight CLI.
//
// Colors respect the --no-color flag and the NO_COLOR environment variable,
// and are automatically disabled when output is not a TTY.
//
// Color usage guidelines:
//   - Red: errors, CollectorFatal/ConfigInvalid conditions
//   - Yellow: warnings, skipped stages, degraded parse modes
//   - Green: success, completed runs
//   - Cyan: informational progress
//   - Bold: headers
//   - Dim: less important details, paths
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Pre-configured color instances for consistent CLI output.
var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors configures global color output based on the noColor flag.
//
// Call it early in main(), after parsing flags and detecting TTY-ness.
// This repository has no main package of its own; the caller decides
// noColor.
func InitColors(noColor bool) {
	color.NoColor = noColor
}

// Success prints a green success message with a checkmark prefix.
func Success(msg string) { _, _ = Green.Println("✓ " + msg) }

// Successf prints a formatted green success message.
func Successf(format string, args ...any) { _, _ = Green.Printf("✓ "+format+"\n", args...) }

// Warning prints a yellow warning message, e.g. a stage skip reason.
func Warning(msg string) { _, _ = Yellow.Println("⚠ " + msg) }

// Warningf prints a formatted yellow warning message.
func Warningf(format string, args ...any) { _, _ = Yellow.Printf("⚠ "+format+"\n", args...) }

// Error prints a red error message.
func Error(msg string) { _, _ = Red.Println("✗ " + msg) }

// Errorf prints a formatted red error message.
func Errorf(format string, args ...any) { _, _ = Red.Printf("✗ "+format+"\n", args...) }

// Info prints a cyan informational message.
func Info(msg string) { _, _ = Cyan.Println("ℹ " + msg) }

// Infof prints a formatted cyan informational message.
func Infof(format string, args ...any) { _, _ = Cyan.Printf("ℹ "+format+"\n", args...) }

// Header prints a bold header with an underline separator.
func Header(text string) {
	_, _ = Bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

// SubHeader prints a bold sub-header without an underline.
func SubHeader(text string) { _, _ = Bold.Println(text) }

// Label returns a bold-formatted label string for inline use.
func Label(text string) string { return Bold.Sprint(text) }

// DimText returns a dim-formatted string for paths and secondary details.
func DimText(text string) string { return Dim.Sprint(text) }

// CountText returns a cyan-formatted count for statistics display.
func CountText(count int) string { return Cyan.Sprint(count) }

// SeverityColor returns a color scaled to a [0,1] severity value, used when
// rendering findings: green below 0.4, yellow below 0.75, red otherwise.
func SeverityColor(severity float64) *color.Color {
	switch {
	case severity >= 0.75:
		return Red
	case severity >= 0.4:
		return Yellow
	default:
		return Green
	}
}
