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

// IsRunnerFatal reports whether err is one of the per-VM-instruction errors
// that must terminate only the offending runner (BadJump, UnmappedVar,
// UnknownOpcode, HostCallbackRefused, AssetMismatch, CallStackOverflow)
// rather than the whole
// Game. Parsing errors are not runner-fatal: they are never raised once a
// runner is already executing.
func IsRunnerFatal(err error) bool {
	switch Head(err) {
	case UnknownOpcode, BadJump, UnmappedVar, HostCallbackRefused, AssetMismatch, CallStackOverflow:
		return true
	default:
		return false
	}
}
