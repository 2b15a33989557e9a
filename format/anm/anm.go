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

// Package anm parses the ANM0 animation bytecode format: a sprite sheet
// description plus a set of per-animation scripts driving a sprite's
// position, scale, color and texture over time.
//
// Parsing is offset-based and zero-copy: every Instruction keeps its payload
// as a slice into the original input, decoded into typed arguments lazily by
// the anmrunner package at execution time.
package anm

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/kurokoma/eosd/errors"
	"github.com/kurokoma/eosd/shiftjis"
)

// Opcode identifies an ANM instruction. Values match the wire format
// directly; there is no separate encode/decode table.
type Opcode uint8

const (
	OpDelete                     Opcode = 0
	OpLoadSprite                 Opcode = 1
	OpSetScale                   Opcode = 2
	OpSetAlpha                   Opcode = 3
	OpSetColor                   Opcode = 4
	OpJump                       Opcode = 5
	OpToggleMirrored             Opcode = 7
	OpSetRotations3D             Opcode = 9
	OpSetRotationsSpeed3D        Opcode = 10
	OpSetScaleSpeed              Opcode = 11
	OpFade                       Opcode = 12
	OpSetBlendmodeAdd            Opcode = 13
	OpSetBlendmodeAlphablend     Opcode = 14
	OpKeepStill                  Opcode = 15
	OpLoadRandomSprite           Opcode = 16
	OpMove                       Opcode = 17
	OpMoveToLinear               Opcode = 18
	OpMoveToDecel                Opcode = 19
	OpMoveToAccel                Opcode = 20
	OpWait                       Opcode = 21
	OpInterruptLabel             Opcode = 22
	OpSetCornerRelativePlacement Opcode = 23
	OpWaitEx                     Opcode = 24
	OpSetAllowOffset             Opcode = 25
	OpSetAutomaticOrientation    Opcode = 26
	OpShiftTextureX              Opcode = 27
	OpShiftTextureY              Opcode = 28
	OpSetVisible                 Opcode = 29
	OpScaleIn                    Opcode = 30
	OpTodo                       Opcode = 31
)

// Sprite is a named rectangle into the ANM's sprite sheet.
type Sprite struct {
	Index  uint32
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Instruction is one timed step of a Script. Payload holds the raw,
// little-endian argument bytes following the (time, opcode, size) header;
// its layout is opcode-dependent and decoded by the anmrunner package.
type Instruction struct {
	Time    uint16
	Opcode  Opcode
	Payload []byte
}

// Script is a sequence of instructions terminated by OpDelete, plus an index
// of interrupt entry points discovered while parsing it.
type Script struct {
	Instructions []Instruction

	// Interrupts maps an interrupt label to the index of the instruction
	// immediately following its InterruptLabel marker.
	Interrupts map[int32]int
}

// Anm is a fully parsed ANM0 animation resource.
type Anm struct {
	Width, Height uint32
	Format        uint32
	FirstName     string
	SecondName    string
	Sprites       []Sprite
	Scripts       map[uint8]*Script
}

// Parse decodes a single ANM0 resource from data.
func Parse(data []byte) (*Anm, error) {
	r := reader{data: data}

	numSprites := r.u32At(0)
	numScripts := r.u32At(4)
	// bytes 8..12 are a zero tag
	width := r.u32At(12)
	height := r.u32At(16)
	format := r.u32At(20)
	// unknown1 at 24
	firstNameOffset := r.u32At(28)
	// unused at 32
	secondNameOffset := r.u32At(36)
	version := r.u32At(40)
	// unknown2 at 44
	// texture_offset at 48
	hasData := r.u32At(52)
	// next_offset at 56
	// unknown3 at 60
	if r.err != nil {
		return nil, r.err
	}
	if version != 0 {
		return nil, errors.Errorf(errors.BadVersion, version)
	}
	if hasData != 0 {
		return nil, errors.Errorf(errors.UnexpectedData, hasData)
	}
	if uint64(numSprites)*4+uint64(numScripts)*8 > uint64(len(data)) {
		return nil, errors.Errorf(errors.Truncated, "anm sprite/script tables")
	}

	pos := uint32(64)
	spriteOffsets := make([]uint32, numSprites)
	for i := range spriteOffsets {
		spriteOffsets[i] = r.u32At(pos)
		pos += 4
	}

	type scriptHeader struct {
		index  uint8
		offset uint32
	}
	scriptHeaders := make([]scriptHeader, numScripts)
	for i := range scriptHeaders {
		scriptHeaders[i].index = uint8(r.u32At(pos))
		scriptHeaders[i].offset = r.u32At(pos + 4)
		pos += 8
	}
	if r.err != nil {
		return nil, r.err
	}

	firstName, err := parseName(data, firstNameOffset)
	if err != nil {
		return nil, err
	}
	secondName, err := parseName(data, secondNameOffset)
	if err != nil {
		return nil, err
	}

	sprites := make([]Sprite, len(spriteOffsets))
	for i, off := range spriteOffsets {
		sprites[i] = Sprite{
			Index:  r.u32At(off),
			X:      r.f32At(off + 4),
			Y:      r.f32At(off + 8),
			Width:  r.f32At(off + 12),
			Height: r.f32At(off + 16),
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	scripts := make(map[uint8]*Script, len(scriptHeaders))
	for _, sh := range scriptHeaders {
		script, err := parseScript(data, sh.offset)
		if err != nil {
			return nil, err
		}
		scripts[sh.index] = script
	}

	return &Anm{
		Width:      width,
		Height:     height,
		Format:     format,
		FirstName:  firstName,
		SecondName: secondName,
		Sprites:    sprites,
		Scripts:    scripts,
	}, nil
}

func parseName(data []byte, offset uint32) (string, error) {
	if offset == 0 {
		return "", nil
	}
	if int(offset) > len(data) {
		return "", errors.Errorf(errors.OffsetOutOfRange, offset)
	}
	rest := data[offset:]
	end := 0
	for end < len(rest) && end < 32 && rest[end] != 0 {
		end++
	}
	return shiftjis.Decode(rest[:end]), nil
}

func parseScript(data []byte, offset uint32) (*Script, error) {
	var instructions []Instruction
	var offsets []int

	pos := offset
	for {
		if int(pos)+4 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "anm instruction header")
		}
		offsets = append(offsets, int(pos-offset))

		time := binary.LittleEndian.Uint16(data[pos:])
		opcode := Opcode(data[pos+2])
		size := data[pos+3]
		payloadStart := pos + 4
		if int(payloadStart)+int(size) > len(data) {
			return nil, errors.Errorf(errors.InstructionTooLarge, size)
		}
		payload := data[payloadStart : payloadStart+uint32(size)]

		instructions = append(instructions, Instruction{Time: time, Opcode: opcode, Payload: payload})
		pos = payloadStart + uint32(size)

		if opcode == OpDelete {
			break
		}
	}

	interrupts := make(map[int32]int)
	for i := range instructions {
		switch instructions[i].Opcode {
		case OpJump:
			if len(instructions[i].Payload) < 4 {
				return nil, errors.Errorf(errors.Truncated, "jump target")
			}
			target := binary.LittleEndian.Uint32(instructions[i].Payload)
			idx := sort.SearchInts(offsets, int(target))
			if idx >= len(offsets) || offsets[idx] != int(target) {
				return nil, errors.Errorf(errors.BadJump, target)
			}
			resolved := make([]byte, 4)
			binary.LittleEndian.PutUint32(resolved, uint32(idx))
			instructions[i].Payload = resolved
		case OpInterruptLabel:
			if len(instructions[i].Payload) < 4 {
				return nil, errors.Errorf(errors.Truncated, "interrupt label")
			}
			label := int32(binary.LittleEndian.Uint32(instructions[i].Payload))
			interrupts[label] = i + 1
		}
	}

	return &Script{Instructions: instructions, Interrupts: interrupts}, nil
}

// reader is a small bounds-checked little-endian cursor over a byte slice;
// it latches the first out-of-range access so callers can check err once
// after a run of reads instead of after every one.
type reader struct {
	data []byte
	err  error
}

func (r *reader) u32At(off uint32) uint32 {
	if r.err != nil {
		return 0
	}
	if int(off)+4 > len(r.data) {
		r.err = errors.Errorf(errors.OffsetOutOfRange, off)
		return 0
	}
	return binary.LittleEndian.Uint32(r.data[off:])
}

func (r *reader) f32At(off uint32) float32 {
	v := r.u32At(off)
	return math.Float32frombits(v)
}
