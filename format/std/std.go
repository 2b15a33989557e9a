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

// Package std parses the STD stage-background bytecode format: a list of
// bounding-boxed Models built from textured quads, a list of placed
// Instances, and a timeline script driving the camera and fog.
package std

import (
	"encoding/binary"
	"math"

	"github.com/kurokoma/eosd/errors"
	"github.com/kurokoma/eosd/shiftjis"
)

// Opcode identifies a stage-script instruction.
type Opcode uint16

const (
	OpSetViewpos                  Opcode = 0
	OpSetFog                      Opcode = 1
	OpSetViewpos2                 Opcode = 2
	OpStartInterpolatingViewpos2  Opcode = 3
	OpStartInterpolatingFog       Opcode = 4
	OpUnknown5                    Opcode = 5
)

// Quad is one textured panel of a Model, referencing an ANM script by index.
type Quad struct {
	AnmScript uint16
	X, Y, Z   float32
	W, H      float32
}

// Model is a bounding box plus an ordered list of quads.
type Model struct {
	ID   uint16
	Box  [6]float32 // xmin, ymin, zmin, xmax, ymax, zmax
	Quads []Quad
}

// Instance places a Model at a world position.
type Instance struct {
	ModelID uint16
	X, Y, Z float32
}

// Instruction is a single raw stage-script timeline entry.
type Instruction struct {
	Time    uint32
	Opcode  Opcode
	Payload []byte
}

// MusicEntry is one of a stage's four optional music slots.
type MusicEntry struct {
	Present bool
	Name    string
	Path    string
}

// Std is a fully parsed stage resource.
type Std struct {
	Name         string
	Music        [4]MusicEntry
	Models       []Model
	Instances    []Instance
	Instructions []Instruction
}

const stringFieldSize = 128

// Parse decodes an STD resource from data.
func Parse(data []byte) (*Std, error) {
	if len(data) < 16 {
		return nil, errors.Errorf(errors.Truncated, "std header")
	}
	numModels := binary.LittleEndian.Uint16(data[0:])
	_ = binary.LittleEndian.Uint16(data[2:]) // num_faces, not consumed by this parser
	instancesOffset := binary.LittleEndian.Uint32(data[4:])
	scriptOffset := binary.LittleEndian.Uint32(data[8:])
	zeroTag := binary.LittleEndian.Uint32(data[12:])
	if zeroTag != 0 {
		return nil, errors.Errorf(errors.UnexpectedData, zeroTag)
	}

	pos := 16
	name, err := readFixedString(data, pos)
	if err != nil {
		return nil, err
	}
	pos += stringFieldSize

	var music [4]MusicEntry
	var names [4]string
	for i := range names {
		names[i], err = readFixedString(data, pos)
		if err != nil {
			return nil, err
		}
		pos += stringFieldSize
	}
	for i := range music {
		path, err := readFixedString(data, pos)
		if err != nil {
			return nil, err
		}
		pos += stringFieldSize
		music[i] = MusicEntry{
			Present: names[i] != " " && names[i] != "",
			Name:    names[i],
			Path:    path,
		}
	}

	if pos+4*int(numModels) > len(data) {
		return nil, errors.Errorf(errors.Truncated, "model offset table")
	}
	models := make([]Model, numModels)
	for i := range models {
		off := binary.LittleEndian.Uint32(data[pos:])
		pos += 4
		m, err := parseModel(data, off)
		if err != nil {
			return nil, err
		}
		models[i] = *m
	}

	instances, err := parseInstances(data, instancesOffset)
	if err != nil {
		return nil, err
	}

	instructions, err := parseScript(data, scriptOffset)
	if err != nil {
		return nil, err
	}

	return &Std{
		Name:         name,
		Music:        music,
		Models:       models,
		Instances:    instances,
		Instructions: instructions,
	}, nil
}

func readFixedString(data []byte, offset int) (string, error) {
	if offset+stringFieldSize > len(data) {
		return "", errors.Errorf(errors.Truncated, "fixed string field")
	}
	raw := data[offset : offset+stringFieldSize]
	end := 0
	for end < len(raw) && raw[end] != 0 {
		end++
	}
	return shiftjis.Decode(raw[:end]), nil
}

func parseModel(data []byte, offset uint32) (*Model, error) {
	pos := offset
	if int(pos)+4+24 > len(data) {
		return nil, errors.Errorf(errors.Truncated, "model header")
	}
	id := binary.LittleEndian.Uint16(data[pos:])
	pos += 4 // id + unused u16

	var box [6]float32
	for i := range box {
		box[i] = f32At(data, int(pos))
		pos += 4
	}

	var quads []Quad
	for {
		if int(pos)+2 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "quad header")
		}
		unk1 := binary.LittleEndian.Uint16(data[pos:])
		if unk1 == 0xFFFF {
			break
		}
		if int(pos)+4 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "quad size")
		}
		size := binary.LittleEndian.Uint16(data[pos+2:])
		if size != 0x1C {
			return nil, errors.Errorf(errors.InstructionTooLarge, size)
		}
		if int(pos)+int(size) > len(data) {
			return nil, errors.Errorf(errors.Truncated, "quad body")
		}
		anmScript := binary.LittleEndian.Uint16(data[pos+4:])
		pad := binary.LittleEndian.Uint16(data[pos+6:])
		if pad != 0 {
			return nil, errors.Errorf(errors.UnexpectedData, pad)
		}
		quads = append(quads, Quad{
			AnmScript: anmScript,
			X:         f32At(data, int(pos)+8),
			Y:         f32At(data, int(pos)+12),
			Z:         f32At(data, int(pos)+16),
			W:         f32At(data, int(pos)+20),
			H:         f32At(data, int(pos)+24),
		})
		pos += uint32(size)
	}

	return &Model{ID: id, Box: box, Quads: quads}, nil
}

func parseInstances(data []byte, offset uint32) ([]Instance, error) {
	var instances []Instance
	pos := offset
	for {
		if int(pos)+20 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "instance")
		}
		id := binary.LittleEndian.Uint16(data[pos:])
		unknown := binary.LittleEndian.Uint16(data[pos+2:])
		if id == 0xFFFF && unknown == 0xFFFF {
			break
		}
		if unknown != 0x0100 {
			return nil, errors.Errorf(errors.UnexpectedData, unknown)
		}
		instances = append(instances, Instance{
			ModelID: id,
			X:       f32At(data, int(pos)+4),
			Y:       f32At(data, int(pos)+8),
			Z:       f32At(data, int(pos)+12),
		})
		pos += 16
	}
	return instances, nil
}

// stage script instructions carry a fixed 12-byte payload (large enough for
// SetFog's packed color u32 + near f32 + far f32), unlike ANM/ECL's
// variable-size payloads; size names the payload length, not the header+
// payload total.
const scriptPayloadSize = 12

func parseScript(data []byte, offset uint32) ([]Instruction, error) {
	var instructions []Instruction
	pos := offset
	for {
		if int(pos)+8 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "stage script instruction header")
		}
		time := binary.LittleEndian.Uint32(data[pos:])
		opcode := binary.LittleEndian.Uint16(data[pos+4:])
		size := binary.LittleEndian.Uint16(data[pos+6:])
		if time == 0xFFFFFFFF && opcode == 0xFFFF && size == 0xFFFF {
			break
		}
		if size != scriptPayloadSize {
			return nil, errors.Errorf(errors.InstructionTooLarge, size)
		}
		if int(pos)+8+scriptPayloadSize > len(data) {
			return nil, errors.Errorf(errors.Truncated, "stage script payload")
		}
		payload := data[pos+8 : pos+8+scriptPayloadSize]
		instructions = append(instructions, Instruction{
			Time:    time,
			Opcode:  Opcode(opcode),
			Payload: payload,
		})
		pos += 8 + scriptPayloadSize
	}
	return instructions, nil
}

func f32At(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}
