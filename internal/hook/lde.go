package hook

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode = errors.New("hook: unsupported instruction in prologue")
	ErrRelocation    = errors.New("hook: position-dependent instruction in prologue")
	ErrTruncated     = errors.New("hook: prologue shorter than patch")
)

// instructionLength decodes the length of the instruction at the start of
// code. It understands the subset of x86/x64 that shows up in function
// prologues. Anything that would need relocating when copied into a
// trampoline (relative branches, RIP-relative operands) is rejected with
// ErrRelocation rather than fixed up.
func instructionLength(code []byte, mode64 bool) (int, error) {
	i := 0
	opsize16 := false

	// Legacy prefixes.
prefixes:
	for i < len(code) {
		switch code[i] {
		case 0x66:
			opsize16 = true
		case 0x67, 0xF2, 0xF3, 0x2E, 0x3E, 0x26, 0x36, 0x64, 0x65:
		default:
			break prefixes
		}
		i++
	}

	rexW := false
	if mode64 && i < len(code) && code[i]&0xF0 == 0x40 {
		rexW = code[i]&0x08 != 0
		i++
	}
	if i >= len(code) {
		return 0, ErrTruncated
	}

	op := code[i]
	i++

	imm := 0
	hasModRM := false

	switch {
	case op == 0x0F:
		if i >= len(code) {
			return 0, ErrTruncated
		}
		op2 := code[i]
		i++
		switch {
		// nop r/m, movzx/movsx, sse moves, movaps, cmovcc, imul, xorps
		case op2 == 0x1F,
			op2 == 0xB6, op2 == 0xB7, op2 == 0xBE, op2 == 0xBF,
			op2 >= 0x10 && op2 <= 0x17,
			op2 == 0x28, op2 == 0x29,
			op2 >= 0x40 && op2 <= 0x4F,
			op2 == 0xAF,
			op2 == 0x57:
			hasModRM = true
		case op2 >= 0x80 && op2 <= 0x8F:
			return 0, fmt.Errorf("jcc rel32: %w", ErrRelocation)
		default:
			return 0, fmt.Errorf("0f %02x: %w", op2, ErrUnknownOpcode)
		}

	// push/pop r, nop, int3, and inc/dec r outside long mode
	case op >= 0x50 && op <= 0x5F:
	case op == 0x90, op == 0xCC:
	case !mode64 && op >= 0x40 && op <= 0x4F:

	// add/or/adc/sbb/and/sub/xor/cmp in their r/m, al-imm8 and eax-imm forms
	case op <= 0x3F && op&0x07 <= 0x03:
		hasModRM = true
	case op <= 0x3F && op&0x07 == 0x04:
		imm = 1
	case op <= 0x3F && op&0x07 == 0x05:
		imm = immSize(opsize16)

	// test, xchg, mov, lea, movsxd
	case op == 0x84, op == 0x85, op == 0x86, op == 0x87,
		op >= 0x88 && op <= 0x8B,
		op == 0x8D,
		op == 0x63:
		hasModRM = true
	case op == 0x80, op == 0x82, op == 0x83, op == 0xC0, op == 0xC1, op == 0xC6, op == 0x6B:
		hasModRM = true
		imm = 1
	case op == 0x81, op == 0xC7, op == 0x69:
		hasModRM = true
		imm = immSize(opsize16)
	case op == 0xD0, op == 0xD1, op == 0xD2, op == 0xD3:
		hasModRM = true
	case op == 0xFF:
		if i >= len(code) {
			return 0, ErrTruncated
		}
		switch (code[i] >> 3) & 0x07 {
		case 0, 1, 6: // inc, dec, push r/m
			hasModRM = true
		default:
			return 0, fmt.Errorf("ff /%d: %w", (code[i]>>3)&0x07, ErrRelocation)
		}

	case op >= 0xB0 && op <= 0xB7:
		imm = 1
	case op >= 0xB8 && op <= 0xBF:
		if rexW {
			imm = 8
		} else {
			imm = immSize(opsize16)
		}
	case op == 0x6A:
		imm = 1
	case op == 0x68:
		imm = 4

	case op == 0xE8, op == 0xE9, op == 0xEB, op >= 0x70 && op <= 0x7F, op == 0xE3:
		return 0, fmt.Errorf("relative branch %02x: %w", op, ErrRelocation)
	case op == 0xC3, op == 0xC2:
		return 0, fmt.Errorf("return inside patch range: %w", ErrTruncated)

	default:
		return 0, fmt.Errorf("%02x: %w", op, ErrUnknownOpcode)
	}

	if hasModRM {
		n, err := modRMLength(code[i:], mode64)
		if err != nil {
			return 0, err
		}
		i += n
	}
	i += imm
	if i > len(code) {
		return 0, ErrTruncated
	}
	return i, nil
}

func immSize(opsize16 bool) int {
	if opsize16 {
		return 2
	}
	return 4
}

// modRMLength returns the size of the ModRM byte plus its SIB and
// displacement bytes.
func modRMLength(code []byte, mode64 bool) (int, error) {
	if len(code) == 0 {
		return 0, ErrTruncated
	}
	modrm := code[0]
	mod := modrm >> 6
	rm := modrm & 0x07
	n := 1

	if mod == 3 {
		return n, nil
	}
	if rm == 4 {
		if len(code) < 2 {
			return 0, ErrTruncated
		}
		sib := code[1]
		n++
		if mod == 0 && sib&0x07 == 5 {
			n += 4
		}
	} else if mod == 0 && rm == 5 {
		if mode64 {
			return 0, fmt.Errorf("rip-relative operand: %w", ErrRelocation)
		}
		n += 4
	}
	switch mod {
	case 1:
		n++
	case 2:
		n += 4
	}
	return n, nil
}

// stolenLength returns how many bytes of whole instructions must be moved
// into a trampoline to make room for a patch of at least need bytes.
func stolenLength(code []byte, need int, mode64 bool) (int, error) {
	total := 0
	for total < need {
		n, err := instructionLength(code[total:], mode64)
		if err != nil {
			return 0, fmt.Errorf("at +%d: %w", total, err)
		}
		total += n
	}
	return total, nil
}
