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

// Package ecl parses the ECL enemy-behavior bytecode format: a set of
// callable subroutines ("subs", rank-gated per instruction) plus a single
// timeline ("main") that spawns enemies running those subs.
//
// As with package anm, instruction payloads are kept as raw little-endian
// byte slices and decoded by package eclrunner at execution time.
package ecl

import (
	"encoding/binary"

	"github.com/kurokoma/eosd/errors"
)

// SubOpcode identifies a sub-routine instruction.
type SubOpcode uint16

// Sub-routine opcodes. Gaps in the numbering (7, 11, 12, 19, 22, 24, 37, 38,
// 40-42, 44, 53-55, 58, 60, 62, 64, 72-73, 80, 84, 89, 91, 110) are not used by
// the original engine.
const (
	SubNoop                           SubOpcode = 0
	SubDestroy                        SubOpcode = 1
	SubRelativeJump                   SubOpcode = 2
	SubRelativeJumpEx                 SubOpcode = 3
	SubSetInt                         SubOpcode = 4
	SubSetFloat                       SubOpcode = 5
	SubSetRandomInt                   SubOpcode = 6
	SubSetRandomFloat                 SubOpcode = 8
	SubSetRandomFloat2                SubOpcode = 9
	SubStoreX                         SubOpcode = 10
	SubAddInt                         SubOpcode = 13
	SubSubstractInt                   SubOpcode = 14
	SubMultiplyInt                    SubOpcode = 15
	SubDivideInt                      SubOpcode = 16
	SubModulo                         SubOpcode = 17
	SubIncrement                      SubOpcode = 18
	SubAddFloat                       SubOpcode = 20
	SubSubstractFloat                 SubOpcode = 21
	SubDivideFloat                    SubOpcode = 23
	SubGetDirection                   SubOpcode = 25
	SubFloatToUnitCircle              SubOpcode = 26
	SubCompareInts                    SubOpcode = 27
	SubCompareFloats                  SubOpcode = 28
	SubRelativeJumpIfLowerThan        SubOpcode = 29
	SubRelativeJumpIfLowerOrEqual     SubOpcode = 30
	SubRelativeJumpIfEqual            SubOpcode = 31
	SubRelativeJumpIfGreaterThan      SubOpcode = 32
	SubRelativeJumpIfGreaterOrEqual   SubOpcode = 33
	SubRelativeJumpIfNotEqual         SubOpcode = 34
	SubCall                           SubOpcode = 35
	SubReturn                         SubOpcode = 36
	SubCallIfEqual                    SubOpcode = 39
	SubSetPosition                    SubOpcode = 43
	SubSetAngleAndSpeed               SubOpcode = 45
	SubSetRotationSpeed               SubOpcode = 46
	SubSetSpeed                       SubOpcode = 47
	SubSetAcceleration                SubOpcode = 48
	SubSetRandomAngle                 SubOpcode = 49
	SubSetRandomAngleEx               SubOpcode = 50
	SubTargetPlayer                   SubOpcode = 51
	SubMoveInDecel                    SubOpcode = 52
	SubMoveToLinear                   SubOpcode = 56
	SubMoveToDecel                    SubOpcode = 57
	SubMoveToAccel                    SubOpcode = 59
	SubStopIn                         SubOpcode = 61
	SubStopInAccel                    SubOpcode = 63
	SubSetScreenBox                   SubOpcode = 65
	SubClearScreenBox                 SubOpcode = 66
	SubSetBulletAttributes1          SubOpcode = 67
	SubSetBulletAttributes2          SubOpcode = 68
	SubSetBulletAttributes3          SubOpcode = 69
	SubSetBulletAttributes4          SubOpcode = 70
	SubSetBulletAttributes5          SubOpcode = 71
	SubSetBulletAttributes6          SubOpcode = 74
	SubSetBulletAttributes7          SubOpcode = 75
	SubSetBulletInterval              SubOpcode = 76
	SubSetBulletIntervalEx            SubOpcode = 77
	SubDelayAttack                     SubOpcode = 78
	SubNoDelayAttack                   SubOpcode = 79
	SubSetBulletLaunchOffset          SubOpcode = 81
	SubSetExtendedBulletAttributes    SubOpcode = 82
	SubChangeBulletsInStarBonus       SubOpcode = 83
	SubNewLaser                        SubOpcode = 85
	SubNewLaserTowardsPlayer          SubOpcode = 86
	SubSetUpcomingLaserID             SubOpcode = 87
	SubAlterLaserAngle                SubOpcode = 88
	SubRepositionLaser                SubOpcode = 90
	SubCancelLaser                     SubOpcode = 92
	SubSetSpellcard                    SubOpcode = 93
	SubEndSpellcard                    SubOpcode = 94
	SubSpawnEnemy                      SubOpcode = 95
	SubKillAllEnemies                  SubOpcode = 96
	SubSetAnim                         SubOpcode = 97
	SubSetMultipleAnims                SubOpcode = 98
	SubSetAuxAnm                       SubOpcode = 99
	SubSetDeathAnim                    SubOpcode = 100
	SubSetBossMode                     SubOpcode = 101
	SubCreateSquares                   SubOpcode = 102
	SubSetEnemyHitbox                  SubOpcode = 103
	SubSetCollidable                   SubOpcode = 104
	SubSetDamageable                   SubOpcode = 105
	SubPlaySound                       SubOpcode = 106
	SubSetDeathFlags                   SubOpcode = 107
	SubSetDeathCallback                SubOpcode = 108
	SubMemoryWriteInt                  SubOpcode = 109
	SubSetLife                         SubOpcode = 111
	SubSetEllapsedTime                 SubOpcode = 112
	SubSetLowLifeTrigger               SubOpcode = 113
	SubSetLowLifeCallback              SubOpcode = 114
	SubSetTimeout                      SubOpcode = 115
	SubSetTimeoutCallback              SubOpcode = 116
	SubSetTouchable                    SubOpcode = 117
	SubDropParticles                   SubOpcode = 118
	SubDropBonus                       SubOpcode = 119
	SubSetAutomaticOrientation         SubOpcode = 120
	SubCallSpecialFunction             SubOpcode = 121
	SubUnk1                            SubOpcode = 122
	SubSkipFrames                      SubOpcode = 123
	SubDropSpecificBonus               SubOpcode = 124
	SubUnk2                            SubOpcode = 125
	SubSetRemainingLives               SubOpcode = 126
	SubUnk3                            SubOpcode = 127
	SubInterrupt                       SubOpcode = 128
	SubInterruptAux                    SubOpcode = 129
	SubUnk5                            SubOpcode = 130
	SubSetDifficultyCoeffs             SubOpcode = 131
	SubSetInvisible                    SubOpcode = 132
	SubCopyCallbacks                   SubOpcode = 133
	SubUnk6                            SubOpcode = 134
	SubEnableSpellcardBonus            SubOpcode = 135
)

// MainOpcode identifies a main-timeline instruction.
type MainOpcode uint16

const (
	MainSpawnEnemy                MainOpcode = 0
	MainSpawnEnemyMirrored        MainOpcode = 2
	MainSpawnEnemyRandom          MainOpcode = 4
	MainSpawnEnemyMirroredRandom  MainOpcode = 6
	MainCallMessage               MainOpcode = 8
	MainWaitMessage                MainOpcode = 9
	MainResumeEcl                  MainOpcode = 10
	MainWaitForBossDeath          MainOpcode = 12
)

// CallSub is a single rank-gated instruction within a Sub.
type CallSub struct {
	Time      uint32
	RankMask  uint16
	ParamMask uint16
	Opcode    SubOpcode
	Payload   []byte
}

// Sub is a callable subroutine: enemies run one sub at a time via an
// EclRunner, and SubCall temporarily switches to another.
type Sub struct {
	Instructions []CallSub
}

// CallMain is a single instruction within the Main timeline.
type CallMain struct {
	Time    uint16
	Sub     uint16
	Opcode  MainOpcode
	Payload []byte
}

// Main is the enemy-spawning timeline; only one is normally present.
type Main struct {
	Instructions []CallMain
}

// Ecl is a fully parsed ECL enemy-behavior resource.
type Ecl struct {
	Subs  []Sub
	Mains []Main
}

// Parse decodes an ECL resource from data.
func Parse(data []byte) (*Ecl, error) {
	if len(data) < 4 {
		return nil, errors.Errorf(errors.Truncated, "ecl header")
	}
	subCount := binary.LittleEndian.Uint16(data[0:])
	mainCount := binary.LittleEndian.Uint16(data[2:])
	_ = mainCount // always 0 on disk; the 3 main offsets that follow are the real count

	pos := 4
	var mainOffsets [3]uint32
	for i := range mainOffsets {
		if pos+4 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "main offset table")
		}
		mainOffsets[i] = binary.LittleEndian.Uint32(data[pos:])
		pos += 4
	}

	subOffsets := make([]uint32, subCount)
	for i := range subOffsets {
		if pos+4 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "sub offset table")
		}
		subOffsets[i] = binary.LittleEndian.Uint32(data[pos:])
		pos += 4
	}

	subs := make([]Sub, len(subOffsets))
	for i, off := range subOffsets {
		sub, err := parseSub(data, off)
		if err != nil {
			return nil, err
		}
		subs[i] = *sub
	}

	var mains []Main
	for _, off := range mainOffsets {
		if off == 0 {
			break
		}
		main, err := parseMain(data, off)
		if err != nil {
			return nil, err
		}
		mains = append(mains, *main)
	}

	return &Ecl{Subs: subs, Mains: mains}, nil
}

func parseSub(data []byte, offset uint32) (*Sub, error) {
	var instructions []CallSub
	pos := offset
	for {
		if int(pos)+12 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "sub instruction header")
		}
		time := binary.LittleEndian.Uint32(data[pos:])
		opcode := binary.LittleEndian.Uint16(data[pos+4:])
		if time == 0xFFFFFFFF || opcode == 0xFFFF {
			break
		}
		size := binary.LittleEndian.Uint16(data[pos+6:])
		rankMask := binary.LittleEndian.Uint16(data[pos+8:])
		paramMask := binary.LittleEndian.Uint16(data[pos+10:])
		if size < 12 {
			return nil, errors.Errorf(errors.InstructionTooLarge, size)
		}
		payloadStart := pos + 12
		payloadLen := uint32(size) - 12
		if int(payloadStart+payloadLen) > len(data) {
			return nil, errors.Errorf(errors.InstructionTooLarge, size)
		}
		payload := data[payloadStart : payloadStart+payloadLen]

		instructions = append(instructions, CallSub{
			Time:      time,
			RankMask:  rankMask,
			ParamMask: paramMask,
			Opcode:    SubOpcode(opcode),
			Payload:   payload,
		})
		pos += uint32(size)
	}
	return &Sub{Instructions: instructions}, nil
}

func parseMain(data []byte, offset uint32) (*Main, error) {
	var instructions []CallMain
	pos := offset
	for {
		if int(pos)+8 > len(data) {
			return nil, errors.Errorf(errors.Truncated, "main instruction header")
		}
		time := binary.LittleEndian.Uint16(data[pos:])
		sub := binary.LittleEndian.Uint16(data[pos+2:])
		if time == 0xFFFF && sub == 4 {
			break
		}
		opcode := binary.LittleEndian.Uint16(data[pos+4:])
		size := binary.LittleEndian.Uint16(data[pos+6:])
		if size < 8 {
			return nil, errors.Errorf(errors.InstructionTooLarge, size)
		}
		payloadStart := pos + 8
		payloadLen := uint32(size) - 8
		if int(payloadStart+payloadLen) > len(data) {
			return nil, errors.Errorf(errors.InstructionTooLarge, size)
		}
		payload := data[payloadStart : payloadStart+payloadLen]

		instructions = append(instructions, CallMain{
			Time:    time,
			Sub:     sub,
			Opcode:  MainOpcode(opcode),
			Payload: payload,
		})
		pos += uint32(size)
	}
	return &Main{Instructions: instructions}, nil
}
