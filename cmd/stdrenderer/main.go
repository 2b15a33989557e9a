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

// Command stdrenderer runs a stage's camera/fog script to completion and
// rasterizes every model instance's bounding box as seen through the
// resulting camera, tinted by the settled fog color. The ANM file is parsed
// and validated (every quad's AnmScript must resolve) even though this
// renderer does not sample its sprite sheet, matching the reference tool's
// argument contract.
package main

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/ajstarks/svgo"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/kurokoma/eosd/format/anm"
	"github.com/kurokoma/eosd/format/std"
	"github.com/kurokoma/eosd/mathutil"
	"github.com/kurokoma/eosd/stagerunner"
)

const maxFrames = 3600

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: stdrenderer <STD file> <ANM file> <PNG file>\n")
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) != 4 {
		usage()
		return 1
	}
	stdFilename, anmFilename, pngFilename := args[1], args[2], args[3]

	stdData, err := os.ReadFile(stdFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", stdFilename, err)
		return 2
	}
	stage, err := std.Parse(stdData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", stdFilename, err)
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
	for _, m := range stage.Models {
		for _, q := range m.Quads {
			if _, ok := anmAsset.Scripts[uint8(q.AnmScript)]; !ok {
				fmt.Fprintf(os.Stderr, "model %d quad references unknown script %d\n", m.ID, q.AnmScript)
				return 2
			}
		}
	}

	runner := stagerunner.New(stage)
	for frame := 0; frame < maxFrames && frame < len(stage.Instructions)*2+60; frame++ {
		runner.RunFrame()
	}

	const width, height = 384, 448
	dc := gg.NewContext(width, height)
	fog := runner.Fog()
	dc.SetColor(color.NRGBA{
		R: uint8(fog.R * 255), G: uint8(fog.G * 255), B: uint8(fog.B * 255), A: 255,
	})
	dc.Clear()

	mv := runner.ModelView()
	proj := mathutil.Perspective(degToRad(30), float32(width)/float32(height), 10, 100000)
	mvp := proj.Mul(mv)

	dc.SetLineWidth(1)
	dc.SetFontFace(basicfont.Face7x13)
	for _, inst := range stage.Instances {
		model, ok := modelByID(stage.Models, inst.ModelID)
		if !ok {
			continue
		}
		x, y, ok := project(mvp, inst.X+model.Box[0], inst.Y+model.Box[1], inst.Z+model.Box[2], width, height)
		if !ok {
			continue
		}
		x2, y2, ok := project(mvp, inst.X+model.Box[3], inst.Y+model.Box[4], inst.Z+model.Box[5], width, height)
		if !ok {
			continue
		}
		dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 200})
		dc.DrawRectangle(x, y, x2-x, y2-y)
		dc.Stroke()
		dc.SetColor(color.NRGBA{R: 255, G: 255, B: 0, A: 255})
		dc.DrawString(strconv.Itoa(int(model.ID)), x+2, y+12)
	}

	if err := dc.SavePNG(pngFilename); err != nil {
		fmt.Fprintf(os.Stderr, "render %s: %v\n", pngFilename, err)
		return 2
	}

	if err := writeLayoutSVG(pngFilename+".svg", stage); err != nil {
		fmt.Fprintf(os.Stderr, "render %s: %v\n", pngFilename+".svg", err)
		return 2
	}
	return 0
}

// writeLayoutSVG dumps a top-down (X,Z) layout of every model instance's
// bounding box, independent of the camera script: a companion diagnostic the
// reference tool's windowed 3D view has no equivalent for.
func writeLayoutSVG(path string, stage *std.Std) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const margin = 2048
	canvas := svg.New(f)
	canvas.Start(margin*2, margin*2)
	canvas.Title(strings.TrimSpace(stage.Name))
	canvas.Rect(0, 0, margin*2, margin*2, "fill:black")
	for _, inst := range stage.Instances {
		model, ok := modelByID(stage.Models, inst.ModelID)
		if !ok {
			continue
		}
		x := int(inst.X+model.Box[0]) + margin
		z := int(inst.Z+model.Box[2]) + margin
		w := int(model.Box[3] - model.Box[0])
		d := int(model.Box[5] - model.Box[2])
		canvas.Rect(x, z, w, d, "fill:none;stroke:white")
		canvas.Text(x, z-2, strconv.Itoa(int(model.ID)), "fill:yellow;font-size:24px")
	}
	canvas.End()
	return nil
}

func modelByID(models []std.Model, id uint16) (std.Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return std.Model{}, false
}

// project applies mvp to a world point and maps clip space to pixel
// coordinates; ok is false for points behind the camera.
func project(mvp mathutil.Mat4, x, y, z float32, width, height int) (float64, float64, bool) {
	rows := mvp.Inner()
	cx := rows[0][0]*x + rows[1][0]*y + rows[2][0]*z + rows[3][0]
	cy := rows[0][1]*x + rows[1][1]*y + rows[2][1]*z + rows[3][1]
	cw := rows[0][3]*x + rows[1][3]*y + rows[2][3]*z + rows[3][3]
	if cw <= 0 {
		return 0, 0, false
	}
	ndcX := cx / cw
	ndcY := cy / cw
	px := (float64(ndcX)*0.5 + 0.5) * float64(width)
	py := (1 - (float64(ndcY)*0.5 + 0.5)) * float64(height)
	return px, py, true
}

func degToRad(d float32) float32 { return d * 3.14159265 / 180 }
