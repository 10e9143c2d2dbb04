package utils

import (
	"fmt"
	"slices"
	"strings"
)

// A named range of units (usually bits) inside a frame
type FrameField struct {
	// Name of the field
	Name string

	// First unit of the field, counting from the least significant one
	Begin int

	// Field width
	Width int
}

// The last unit within the frame used by this field
func (f FrameField) Top() int {
	return f.Begin + f.Width - 1
}

// DrawFrame prints an ascii diagram of a frame composed of contiguous fields, with the most
// significant unit on the left. Units not covered by any field are drawn as "(unused)" fields.
//
//	 15    12 11     8 7      0
//	+--------+--------+--------+
//	| opcode |  dst   |  imm8  |
//	+--------+--------+--------+
//	  4 bits   4 bits   8 bits
func DrawFrame(fields []FrameField, frameWidth int, unit string, leftpad int) string {
	all := fillFrameGaps(fields, frameWidth)
	slices.Reverse(all)

	pad := strings.Repeat(" ", leftpad)
	indices, border, names, widths := []string{pad}, []string{pad}, []string{pad}, []string{pad}

	for _, field := range all {
		top := fmt.Sprint(field.Top())
		begin := fmt.Sprint(field.Begin)
		name := " " + field.Name + " "
		width := fmt.Sprintf("%v %v", field.Width, unit)
		length := max(len(name), len(width)+2, len(top)+len(begin)+2)

		indices = append(indices, " "+top+strings.Repeat(" ", length-len(top)-len(begin))+begin)
		border = append(border, "+"+strings.Repeat("-", length))
		names = append(names, "|"+center(name, length))
		widths = append(widths, " "+center(width, length))
	}

	border = append(border, "+")
	names = append(names, "|")

	rows := []string{
		strings.Join(indices, ""),
		strings.Join(border, ""),
		strings.Join(names, ""),
		strings.Join(border, ""),
		strings.TrimRight(strings.Join(widths, ""), " "),
	}

	return strings.Join(rows, "\n") + "\n"
}

func center(text string, length int) string {
	left := (length - len(text)) / 2
	right := length - len(text) - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

// fillFrameGaps sorts the fields by position and adds unused fields covering the gaps
func fillFrameGaps(fields []FrameField, frameWidth int) []FrameField {
	sorted := slices.Clone(fields)
	slices.SortFunc(sorted, func(a, b FrameField) int { return a.Begin - b.Begin })

	result := make([]FrameField, 0, len(sorted))
	currentUnit := 0

	for _, field := range sorted {
		if field.Begin > currentUnit {
			result = append(result, FrameField{Name: "(unused)", Begin: currentUnit, Width: field.Begin - currentUnit})
		} else if field.Begin < currentUnit {
			panic(fmt.Sprintf("frame field '%v' overlaps the previous one", field.Name))
		}

		result = append(result, field)
		currentUnit = field.Begin + field.Width
	}

	if currentUnit < frameWidth {
		result = append(result, FrameField{Name: "(unused)", Begin: currentUnit, Width: frameWidth - currentUnit})
	}

	return result
}
