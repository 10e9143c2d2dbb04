package interpreter

import (
	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/nibble-vm/nibble/pkg/utils"
)

// Capacity of the main memory, in words
const MemorySize = 256

// CPUState represents the complete state of the CPU
type CPUState struct {
	// General purpose registers (r0-r15)
	Registers [isa.RegisterCount]uint16
	// Condition flag, set by CMP when both registers hold the same value
	Equal bool
	// Program counter (word address of the next fetch)
	PC uint16
	// Main memory
	Memory [MemorySize]isa.Word
	// Halted flag. The CPU starts halted and Run() moves it to running.
	Halted bool
}

// NewCPUState creates a new, halted, CPU state with all registers and memory cleared
func NewCPUState() *CPUState {
	return &CPUState{
		Halted: true,
	}
}

// ReadMemory reads a word from memory
func (s *CPUState) ReadMemory(addr uint16) (isa.Word, error) {
	if int(addr) >= len(s.Memory) {
		return 0, utils.MakeError(ErrOutOfBounds, "0x%04X", addr)
	}
	return s.Memory[addr], nil
}

// WriteMemory writes a word to memory
func (s *CPUState) WriteMemory(addr uint16, value isa.Word) error {
	if int(addr) >= len(s.Memory) {
		return utils.MakeError(ErrOutOfBounds, "0x%04X", addr)
	}
	s.Memory[addr] = value
	return nil
}

// GetRegister returns the value of a register by index, and false if the index is out of range
func (s *CPUState) GetRegister(idx int) (uint16, bool) {
	if idx < 0 || idx >= len(s.Registers) {
		return 0, false
	}
	return s.Registers[idx], true
}

// Number of words from address 0 up to and including the last non-zero word
func (s *CPUState) ImageLength() int {
	for addr := len(s.Memory) - 1; addr >= 0; addr-- {
		if s.Memory[addr] != 0 {
			return addr + 1
		}
	}
	return 0
}
