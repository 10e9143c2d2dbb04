// Package utils provides utility functions for the nibble project.
package utils

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Assembly syntax highlighting colors
var (
	asmMnemonicColor = color.New(color.FgYellow, color.Bold)
	asmRegisterColor = color.New(color.FgGreen)
	asmNumberColor   = color.New(color.FgCyan)
	asmCommentColor  = color.New(color.FgHiBlack)
	asmBlockColor    = color.New(color.FgHiMagenta, color.Bold)
)

// Patterns for syntax elements. All of them are matched against a single line.
var (
	asmCommentPattern  = regexp.MustCompile(`;.*$`)
	asmBlockPattern    = regexp.MustCompile(`^\s*\.\S+`)
	asmMnemonicPattern = regexp.MustCompile(`^\s*[A-Za-z]+`)
	asmRegisterPattern = regexp.MustCompile(`\b[A-Za-z]\b`)
	asmNumberPattern   = regexp.MustCompile(`\bb[01]+\b|\b[0-9]+\b`)
)

// token represents a syntax-highlighted token
type token struct {
	text  string
	color *color.Color
	start int
	end   int
}

// HighlightAssembly applies syntax highlighting to assembly source code and returns the colored string
func HighlightAssembly(code string) string {
	if code == "" {
		return ""
	}

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = highlightAssemblyLine(line)
	}

	return strings.Join(lines, "\n")
}

func highlightAssemblyLine(line string) string {
	var tokens []token

	add := func(pattern *regexp.Regexp, c *color.Color, trimLeft bool) {
		for _, match := range pattern.FindAllStringIndex(line, -1) {
			start := match[0]
			if trimLeft {
				start += len(line[match[0]:match[1]]) - len(strings.TrimLeft(line[match[0]:match[1]], " \t"))
			}
			if start == match[1] || overlapsAny(start, match[1], tokens) {
				continue
			}
			tokens = append(tokens, token{
				text:  line[start:match[1]],
				color: c,
				start: start,
				end:   match[1],
			})
		}
	}

	// Comments first, nothing inside them gets highlighted
	add(asmCommentPattern, asmCommentColor, false)
	add(asmBlockPattern, asmBlockColor, true)
	add(asmMnemonicPattern, asmMnemonicColor, true)
	add(asmNumberPattern, asmNumberColor, false)
	add(asmRegisterPattern, asmRegisterColor, false)

	return buildHighlightedString(line, tokens)
}

// overlapsAny checks if a range overlaps with any existing token
func overlapsAny(start, end int, tokens []token) bool {
	for _, t := range tokens {
		if start < t.end && end > t.start {
			return true
		}
	}
	return false
}

// buildHighlightedString constructs the final string with color codes
func buildHighlightedString(code string, tokens []token) string {
	if len(tokens) == 0 {
		return code
	}

	sortTokens(tokens)

	var result strings.Builder
	pos := 0

	for _, t := range tokens {
		if t.start > pos {
			result.WriteString(code[pos:t.start])
		}
		result.WriteString(t.color.Sprint(t.text))
		pos = t.end
	}

	if pos < len(code) {
		result.WriteString(code[pos:])
	}

	return result.String()
}

// sortTokens sorts tokens by start position (simple insertion sort for small arrays)
func sortTokens(tokens []token) {
	for i := 1; i < len(tokens); i++ {
		key := tokens[i]
		j := i - 1
		for j >= 0 && tokens[j].start > key.start {
			tokens[j+1] = tokens[j]
			j--
		}
		tokens[j+1] = key
	}
}
