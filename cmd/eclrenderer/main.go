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

// Command eclrenderer spawns a single enemy running one ECL sub against a
// full Game (so spawn/laser/animation host callbacks all resolve the same
// way they would mid-stage), runs it to completion or a frame cap, and
// rasterizes the enemy's final bound sprite and position to a PNG.
package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/kurokoma/eosd/enemy"
	"github.com/kurokoma/eosd/format/anm"
	"github.com/kurokoma/eosd/format/ecl"
	"github.com/kurokoma/eosd/game"
	"github.com/kurokoma/eosd/instance"
	"github.com/kurokoma/eosd/rank"
	"github.com/kurokoma/eosd/sprite"
)

const maxFrames = 3600

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: eclrenderer <ECL file> <ANM file> <PNG file> <easy|normal|hard|lunatic> <sub number>\n")
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) != 6 {
		usage()
		return 1
	}
	eclFilename, anmFilename, pngFilename := args[1], args[2], args[3]
	rnk, ok := rank.Parse(args[4])
	if !ok {
		usage()
		return 1
	}
	sub, err := strconv.ParseUint(args[5], 10, 16)
	if err != nil {
		usage()
		return 1
	}

	eclData, err := os.ReadFile(eclFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", eclFilename, err)
		return 2
	}
	eclAsset, err := ecl.Parse(eclData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", eclFilename, err)
		return 2
	}
	if int(sub) >= len(eclAsset.Subs) {
		fmt.Fprintf(os.Stderr, "sub %d out of range (have %d)\n", sub, len(eclAsset.Subs))
		return 2
	}

	anmData, err := os.ReadFile(anmFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", anmFilename, err)
		return 2
	}
	anmAsset, err := anm.Parse(anmData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", anmFilename, err)
		return 2
	}

	inst := instance.New(0, rnk, 0)
	g := game.New(eclAsset, inst)
	g.SetAnm(anmAsset)

	e := enemy.New(enemy.Position{X: 192, Y: 224}, 1000, 0, 0)
	handle := g.SpawnAt(e, uint16(sub))

	for frames := 0; frames < maxFrames; frames++ {
		if _, ok := g.Enemy(handle); !ok {
			break
		}
		g.RunFrame()
	}

	width, height := float64(384), float64(448)
	dc := gg.NewContext(int(width), int(height))
	dc.SetColor(color.Black)
	dc.Clear()

	if e, ok := g.Enemy(handle); ok {
		dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		dc.DrawCircle(float64(e.Pos.X), float64(e.Pos.Y), 4)
		dc.Fill()

		if spr, ok := g.EnemySprite(handle); ok && spr.Visible {
			w, h := spriteSize(spr)
			dc.Push()
			dc.Translate(float64(e.Pos.X)+float64(spr.DestOffset[0]), float64(e.Pos.Y)+float64(spr.DestOffset[1]))
			dc.Rotate(float64(spr.Rotations3D[2]))
			dc.Scale(float64(spr.Rescale[0]), float64(spr.Rescale[1]))
			dc.SetColor(color.NRGBA{R: spr.Color[0], G: spr.Color[1], B: spr.Color[2], A: spr.Color[3]})
			dc.DrawRectangle(-w/2, -h/2, w, h)
			dc.Fill()
			dc.Pop()
		}
	}

	if err := dc.SavePNG(pngFilename); err != nil {
		fmt.Fprintf(os.Stderr, "render %s: %v\n", pngFilename, err)
		return 2
	}
	return 0
}

func spriteSize(spr *sprite.Sprite) (float64, float64) {
	w, h := spr.WidthOverride, spr.HeightOverride
	if w == 0 {
		w = float32(math.Abs(float64(spr.Texcoords[2])))
	}
	if h == 0 {
		h = float32(math.Abs(float64(spr.Texcoords[3])))
	}
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return float64(w), float64(h)
}
