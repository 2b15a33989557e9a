// This file is part of eosd.
//
// eosd is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// eosd is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with eosd.  If not, see <https://www.gnu.org/licenses/>.

// Command anmrenderer runs a single ANM script headlessly to completion (or
// a frame cap, for scripts that loop forever) and rasterizes the sprite's
// final state to a PNG. There is no GPU and no window: rendering a script's
// settled geometry is enough to verify a parse and a runner actually agree
// with each other, which is all an acceptance test needs.
package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/kurokoma/eosd/format/anm"
	"github.com/kurokoma/eosd/anmrunner"
	"github.com/kurokoma/eosd/random"
	"github.com/kurokoma/eosd/sprite"
)

const maxFrames = 3600 // 60 seconds at 60Hz; a script still running past this is looping

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: anmrenderer <ANM file> <PNG file> <script number>\n")
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) != 4 {
		usage()
		return 1
	}
	anmFilename, pngFilename := args[1], args[2]
	script, err := strconv.ParseUint(args[3], 10, 8)
	if err != nil {
		usage()
		return 1
	}

	data, err := os.ReadFile(anmFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", anmFilename, err)
		return 2
	}
	asset, err := anm.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", anmFilename, err)
		return 2
	}

	spr := sprite.New(0, 0)
	runner, err := anmrunner.New(asset, uint8(script), spr, 0, random.New(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "script %d: %v\n", script, err)
		return 2
	}
	for frames := 0; runner.Running() && frames < maxFrames; frames++ {
		if _, err := runner.RunFrame(); err != nil {
			fmt.Fprintf(os.Stderr, "script %d: %v\n", script, err)
			return 2
		}
	}

	if err := renderSprite(pngFilename, spr, asset.Width, asset.Height); err != nil {
		fmt.Fprintf(os.Stderr, "render %s: %v\n", pngFilename, err)
		return 2
	}
	return 0
}

// renderSprite draws spr's settled rectangle, rotation and color onto a
// canvas sized to the ANM resource's own declared dimensions.
func renderSprite(path string, spr *sprite.Sprite, canvasW, canvasH uint32) error {
	w, h := int(canvasW), int(canvasH)
	if w == 0 {
		w = 256
	}
	if h == 0 {
		h = 256
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()

	if spr.Visible {
		width, height := spriteSize(spr)
		dc.Push()
		dc.Translate(float64(spr.DestOffset[0]), float64(spr.DestOffset[1]))
		dc.Rotate(float64(spr.Rotations3D[2]))
		dc.Scale(float64(spr.Rescale[0]), float64(spr.Rescale[1]))
		dc.SetColor(color.NRGBA{R: spr.Color[0], G: spr.Color[1], B: spr.Color[2], A: spr.Color[3]})
		dc.DrawRectangle(-float64(width)/2, -float64(height)/2, float64(width), float64(height))
		dc.Fill()
		dc.Pop()
	}

	return dc.SavePNG(path)
}

func spriteSize(spr *sprite.Sprite) (float32, float32) {
	if spr.WidthOverride != 0 || spr.HeightOverride != 0 {
		return spr.WidthOverride, spr.HeightOverride
	}
	w, h := spr.Texcoords[2], spr.Texcoords[3]
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return float32(math.Abs(float64(w))), float32(math.Abs(float64(h)))
}
