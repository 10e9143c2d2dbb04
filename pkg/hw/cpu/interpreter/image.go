package interpreter

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/spf13/afero"
)

// Byte order of binary images. Images have no header: their length in words is the
// file size divided by two.
var ImageByteOrder = binary.BigEndian

// EncodeImage serializes words into a binary image
func EncodeImage(words []isa.Word) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, word := range words {
		data = ImageByteOrder.AppendUint16(data, uint16(word))
	}
	return data
}

// DecodeImage groups the bytes of a binary image into words. A trailing odd byte is
// ignored and reported through the second return value.
func DecodeImage(data []byte) ([]isa.Word, bool) {
	words := make([]isa.Word, len(data)/2)
	for i := range words {
		words[i] = isa.Word(ImageByteOrder.Uint16(data[2*i:]))
	}
	return words, len(data)%2 != 0
}

// Image returns the memory contents from address 0 up to the last non-zero word,
// including every zero word in between.
func (i *Interpreter) Image() []isa.Word {
	return append([]isa.Word(nil), i.state.Memory[:i.state.ImageLength()]...)
}

// WriteImage writes the memory image to w
func (i *Interpreter) WriteImage(w io.Writer) error {
	if _, err := w.Write(EncodeImage(i.Image())); err != nil {
		return fmt.Errorf("failed to write binary image: %w", err)
	}
	return nil
}

// ReadImage replaces the memory with the image read from r and rewinds the program counter.
// Memory is not modified if reading fails.
func (i *Interpreter) ReadImage(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read binary image: %w", err)
	}

	i.loadImage(data)
	return nil
}

func (i *Interpreter) loadImage(data []byte) {
	words, odd := DecodeImage(data)
	if odd {
		i.log.Warn(f("binary image has an odd number of bytes, ignoring the last one"), "bytes", len(data))
	}
	if len(words) > MemorySize {
		i.log.Warn(f("binary exceeds memory size, truncating"), "words", len(words), "capacity", MemorySize)
	}

	i.LoadWords(words)
}

// EmitBinary writes the memory image to a file
func (i *Interpreter) EmitBinary(fs afero.Fs, path string) error {
	var buffer bytes.Buffer
	if err := i.WriteImage(&buffer); err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write binary image '%v': %w", path, err)
	}

	i.log.Debug("binary image written", "path", path, "bytes", buffer.Len())
	return nil
}

// LoadBinary replaces the memory with the image stored in a file and rewinds the program
// counter. Memory is not modified if the file cannot be read.
func (i *Interpreter) LoadBinary(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read binary image '%v': %w", path, err)
	}

	i.loadImage(data)
	i.log.Debug("binary image loaded", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}
