package compiler

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// wiringLexer tokenizes a single wiring line.
// Any character outside these rules (for example an unknown prefix) is a lexing error.
var wiringLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Prefix", Pattern: `[%&]`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_]+`},
})

// wiringLine is the AST of one declaration.
type wiringLine struct {
	Prefix       string   `parser:"@Prefix?"`
	Name         string   `parser:"@Ident"`
	Destinations []string `parser:"Arrow @Ident ( Comma @Ident )*"`
}

// lineParser parses one line into a wiringLine.
type lineParser struct {
	parser *participle.Parser[wiringLine]
}

func newLineParser() (*lineParser, error) {
	p, err := participle.Build[wiringLine](
		participle.Lexer(wiringLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, err
	}
	return &lineParser{parser: p}, nil
}

func (p *lineParser) parse(line string) (*wiringLine, error) {
	return p.parser.ParseString("", line)
}
