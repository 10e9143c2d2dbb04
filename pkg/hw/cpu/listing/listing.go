// Package listing exports programs and memory images as address ordered
// listings, in YAML or as plain text.
package listing

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/asm"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/nibble-vm/nibble/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Entry describes the word stored at an address
type Entry struct {
	Address uint16   `yaml:"address"`
	Word    isa.Word `yaml:"word"`
	Text    string   `yaml:"text"`
	// 1-based source line, 0 if the word does not come from a source line
	Line int `yaml:"line,omitempty"`
}

// Listing is the YAML document written by Write
type Listing struct {
	Entries []Entry             `yaml:"entries"`
	Blocks  map[string][]string `yaml:"blocks,omitempty"`
}

// MarshalYAML renders the word in hexadecimal
func (e Entry) MarshalYAML() (any, error) {
	type plain struct {
		Address uint16 `yaml:"address"`
		Word    string `yaml:"word"`
		Text    string `yaml:"text"`
		Line    int    `yaml:"line,omitempty"`
	}

	return plain{Address: e.Address, Word: e.Word.String(), Text: e.Text, Line: e.Line}, nil
}

// FromProgram lists the main instruction sequence of an assembled program
func FromProgram(program *asm.Program) *Listing {
	listing := &Listing{}

	for addr, instr := range program.Instructions {
		entry := Entry{
			Address: uint16(addr),
			Word:    isa.Encode(instr),
			Text:    instr.String(),
		}
		if addr < len(program.Lines) {
			entry.Line = program.Lines[addr]
		}
		listing.Entries = append(listing.Entries, entry)
	}

	if len(program.Blocks) > 0 {
		listing.Blocks = make(map[string][]string, len(program.Blocks))
		for name, instrs := range program.Blocks {
			listing.Blocks[name] = utils.Map(instrs, isa.Instruction.String)
		}
	}

	return listing
}

// FromWords lists a memory image, decoding each word
func FromWords(words []isa.Word) *Listing {
	listing := &Listing{}

	for addr, word := range words {
		entry := Entry{
			Address: uint16(addr),
			Word:    word,
		}

		if instr, err := isa.DecodeInstruction(word); err == nil {
			entry.Text = instr.String()
		} else {
			entry.Text = fmt.Sprintf("; %v", err)
		}

		listing.Entries = append(listing.Entries, entry)
	}

	return listing
}

// Write encodes the listing as a YAML document
func Write(w io.Writer, listing *Listing) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(listing); err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	return encoder.Close()
}

// Read decodes a YAML listing
func Read(r io.Reader) (*Listing, error) {
	var raw struct {
		Entries []struct {
			Address uint16 `yaml:"address"`
			Word    string `yaml:"word"`
			Text    string `yaml:"text"`
			Line    int    `yaml:"line"`
		} `yaml:"entries"`
		Blocks map[string][]string `yaml:"blocks"`
	}

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	listing := &Listing{Blocks: raw.Blocks}
	for _, entry := range raw.Entries {
		word, err := strconv.ParseUint(strings.TrimPrefix(entry.Word, "0x"), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid word '%v' at address %d: %w", entry.Word, entry.Address, err)
		}

		listing.Entries = append(listing.Entries, Entry{
			Address: entry.Address,
			Word:    isa.Word(word),
			Text:    entry.Text,
			Line:    entry.Line,
		})
	}

	return listing, nil
}

// WriteText writes the listing as aligned text lines, "address: word text"
func WriteText(w io.Writer, listing *Listing, highlight bool) error {
	for _, entry := range listing.Entries {
		text := entry.Text
		if highlight {
			text = utils.HighlightAssembly(text)
		}

		if _, err := fmt.Fprintf(w, "%02X: %v  %s\n", entry.Address, entry.Word, text); err != nil {
			return err
		}
	}

	for _, name := range utils.SortedKeys(listing.Blocks) {
		if _, err := fmt.Fprintf(w, ".%s\n", name); err != nil {
			return err
		}
		for _, text := range listing.Blocks[name] {
			if highlight {
				text = utils.HighlightAssembly(text)
			}
			if _, err := fmt.Fprintf(w, "    %s\n", text); err != nil {
				return err
			}
		}
	}

	return nil
}
