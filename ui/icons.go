// Package ui provides the user-facing surfaces for TunnelDeck.
// This file contains icon generation for the system tray.
package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// IconConfig defines the configuration for tray icon generation.
type IconConfig struct {
	Size        int
	FillColor   color.RGBA
	BorderColor color.RGBA
	ShowBolt    bool
}

// UpIconConfig returns the config for the tunnel-up state.
func UpIconConfig() IconConfig {
	return IconConfig{
		Size:        22,
		FillColor:   color.RGBA{56, 142, 60, 255}, // Dark green
		BorderColor: color.RGBA{76, 175, 80, 255}, // Green
		ShowBolt:    true,
	}
}

// DownIconConfig returns the config for the tunnel-down state.
func DownIconConfig() IconConfig {
	return IconConfig{
		Size:        22,
		FillColor:   color.RGBA{117, 117, 117, 255}, // Dark gray
		BorderColor: color.RGBA{158, 158, 158, 255}, // Gray
		ShowBolt:    false,
	}
}

// UnknownIconConfig returns the config for the unknown state.
func UnknownIconConfig() IconConfig {
	return IconConfig{
		Size:        22,
		FillColor:   color.RGBA{120, 100, 40, 255},  // Dark amber
		BorderColor: color.RGBA{215, 186, 125, 255}, // Amber
		ShowBolt:    false,
	}
}

// GenerateIcon renders a PNG tray icon: a filled disc with a border,
// optionally carrying a bolt glyph for the active state.
func GenerateIcon(cfg IconConfig) []byte {
	size := cfg.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	center := float64(size) / 2
	radius := center - 1.5

	inDisc := func(x, y float64) bool {
		dx, dy := x-center, y-center
		return dx*dx+dy*dy <= radius*radius
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if !inDisc(fx, fy) {
				continue
			}
			isBorder := !inDisc(fx-1, fy) || !inDisc(fx+1, fy) ||
				!inDisc(fx, fy-1) || !inDisc(fx, fy+1)
			if isBorder {
				img.Set(x, y, cfg.BorderColor)
			} else {
				img.Set(x, y, cfg.FillColor)
			}
		}
	}

	if cfg.ShowBolt {
		drawBolt(img, size)
	}

	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// drawBolt draws a lightning bolt glyph in white.
func drawBolt(img *image.RGBA, size int) {
	white := color.RGBA{255, 255, 255, 255}
	points := []struct{ x, y int }{
		{12, 5}, {11, 6}, {11, 7}, {10, 8}, {10, 9}, {9, 10},
		{10, 10}, {11, 10}, {12, 10}, {10, 11}, {10, 12}, {9, 13},
		{9, 14}, {8, 15}, {9, 12}, {11, 11}, {12, 6}, {11, 8},
	}
	for _, p := range points {
		if p.x >= 0 && p.x < size && p.y >= 0 && p.y < size {
			img.Set(p.x, p.y, white)
		}
	}
}
