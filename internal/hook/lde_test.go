package hook

import (
	"errors"
	"testing"
)

func TestInstructionLength64(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		want int
	}{
		{"mov [rsp+8], rbx", []byte{0x48, 0x89, 0x5C, 0x24, 0x08}, 5},
		{"push rdi", []byte{0x57}, 1},
		{"push rbx with rex", []byte{0x40, 0x53}, 2},
		{"sub rsp, 20h", []byte{0x48, 0x83, 0xEC, 0x20}, 4},
		{"sub rsp, 100h", []byte{0x48, 0x81, 0xEC, 0x00, 0x01, 0x00, 0x00}, 7},
		{"mov rdi, rcx", []byte{0x48, 0x8B, 0xF9}, 3},
		{"lea r8, [rsp+10h]", []byte{0x4C, 0x8D, 0x44, 0x24, 0x10}, 5},
		{"mov rax, imm64", []byte{0x48, 0xB8, 1, 2, 3, 4, 5, 6, 7, 8}, 10},
		{"mov eax, imm32", []byte{0xB8, 1, 2, 3, 4}, 5},
		{"nop word [rax+rax]", []byte{0x66, 0x0F, 0x1F, 0x44, 0x00, 0x00}, 6},
		{"xor eax, eax", []byte{0x33, 0xC0}, 2},
		{"movaps [rsp+20h], xmm6", []byte{0x0F, 0x29, 0x74, 0x24, 0x20}, 5},
		{"mov [rsp+disp32], rsi", []byte{0x48, 0x89, 0xB4, 0x24, 0x00, 0x01, 0x00, 0x00}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := instructionLength(tt.code, true)
			if err != nil {
				t.Fatalf("instructionLength: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInstructionLength32(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		want int
	}{
		{"mov edi, edi", []byte{0x8B, 0xFF}, 2},
		{"push ebp", []byte{0x55}, 1},
		{"mov ebp, esp", []byte{0x8B, 0xEC}, 2},
		{"inc eax", []byte{0x40}, 1},
		{"mov eax, [abs32]", []byte{0x8B, 0x05, 1, 2, 3, 4}, 6},
		{"push imm8", []byte{0x6A, 0xFF}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := instructionLength(tt.code, false)
			if err != nil {
				t.Fatalf("instructionLength: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInstructionLengthRejects(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		want error
	}{
		{"rip-relative load", []byte{0x48, 0x8B, 0x05, 0, 0, 0, 0}, ErrRelocation},
		{"call rel32", []byte{0xE8, 0, 0, 0, 0}, ErrRelocation},
		{"jmp rel8", []byte{0xEB, 0x10}, ErrRelocation},
		{"jcc rel32", []byte{0x0F, 0x84, 0, 0, 0, 0}, ErrRelocation},
		{"jmp [rax]", []byte{0xFF, 0x20}, ErrRelocation},
		{"ret", []byte{0xC3}, ErrTruncated},
		{"unknown", []byte{0xF4}, ErrUnknownOpcode},
		{"cut modrm", []byte{0x48, 0x89}, ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := instructionLength(tt.code, true)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStolenLength(t *testing.T) {
	// A typical x64 prologue: mov [rsp+8],rbx; mov [rsp+10h],rsi; push rdi; sub rsp,20h
	prologue := []byte{
		0x48, 0x89, 0x5C, 0x24, 0x08,
		0x48, 0x89, 0x74, 0x24, 0x10,
		0x57,
		0x48, 0x83, 0xEC, 0x20,
		0x90, 0x90,
	}
	got, err := stolenLength(prologue, 14, true)
	if err != nil {
		t.Fatalf("stolenLength: %v", err)
	}
	if got != 15 {
		t.Errorf("got %d, want 15 (whole instructions covering 14 bytes)", got)
	}

	hotpatch := []byte{0x8B, 0xFF, 0x55, 0x8B, 0xEC, 0x90}
	got, err = stolenLength(hotpatch, 5, false)
	if err != nil {
		t.Fatalf("stolenLength x86: %v", err)
	}
	if got != 5 {
		t.Errorf("x86 got %d, want 5", got)
	}

	if _, err := stolenLength([]byte{0x57, 0xE8, 0, 0, 0, 0}, 5, true); !errors.Is(err, ErrRelocation) {
		t.Errorf("branch in range err = %v, want ErrRelocation", err)
	}
}
