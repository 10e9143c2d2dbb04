package asm

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/nibble-vm/nibble/pkg/utils"
)

// Assembly lexer definition. Rules are tried in order, so EOL must win over Whitespace
// for "\r\n" line endings. Separators cover every Unicode white space, not just ASCII.
var asmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[\t\r\f\v\x{85}\p{Z}]+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Word", Pattern: `[^\s\v\x{85}\p{Z},;]+`},
})

var (
	eolToken  = asmLexer.Symbols()["EOL"]
	wordToken = asmLexer.Symbols()["Word"]
)

// A source line with at least one token
type sourceLine struct {
	// 1-based line number
	Number int
	// Byte offset of the first character of the line in the source buffer
	Offset int
	Tokens []lexer.Token
}

func (l *sourceLine) values() []string {
	return utils.Map(l.Tokens, func(tok lexer.Token) string { return tok.Value })
}

// tokenize splits the source into lines of words, dropping comments, separators and
// lines without words
func tokenize(source string) ([]sourceLine, error) {
	lex, err := asmLexer.Lex("", strings.NewReader(source))
	if err != nil {
		return nil, utils.MakeError(ErrLex, "%v", err)
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, utils.MakeError(ErrLex, "%v", err)
	}

	var lines []sourceLine
	current := sourceLine{Number: 1}

	flush := func() {
		if len(current.Tokens) > 0 {
			lines = append(lines, current)
		}
	}

	for _, tok := range tokens {
		switch {
		case tok.EOF():
			flush()
			return lines, nil
		case tok.Type == eolToken:
			flush()
			current = sourceLine{
				Number: tok.Pos.Line + 1,
				Offset: tok.Pos.Offset + len(tok.Value),
			}
		case tok.Type == wordToken:
			current.Tokens = append(current.Tokens, tok)
		}
	}

	flush()
	return lines, nil
}
