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

package errors

// error messages, grouped the way the design doc groups error kinds
const (
	// binary parsing (ANM/ECL/STD/PBG3), never recoverable
	BadMagic            = "bad magic (%v)"
	BadVersion          = "unexpected version (%v)"
	BadTerminator       = "malformed terminator (%v)"
	OffsetOutOfRange    = "offset out of range (%v)"
	InstructionTooLarge = "instruction payload exceeds declared size (%v)"
	UnknownOpcode       = "unknown opcode (%v)"
	BadJump             = "jump target does not resolve to an instruction (%v)"
	Truncated           = "unexpected end of data while reading %v"
	UnexpectedData      = "expected field to be zero/absent, got (%v)"

	// per-runner execution errors; these stop one runner but never the Game
	UnmappedVar         = "variable %v is not mapped for this access"
	CallStackOverflow   = "call stack depth exceeded (%v)"
	AssetMismatch       = "script references asset %v which is not present"
	HostCallbackRefused = "host refused callback %v"

	// archive / compression
	CorruptArchive   = "corrupted archive entry (%v)"
	ChecksumMismatch = "checksum mismatch: expected %v, got %v"
	LZSSOverrun      = "lzss match would overrun output buffer"

	// CLI / host wiring
	AssetLoadError = "could not load asset: %v"
	ConfigError    = "configuration error: %v"
)
