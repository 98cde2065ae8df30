package compiler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/roach88/pulsenet/internal/ir"
)

// maxLineBytes bounds a single wiring line.
const maxLineBytes = 1 << 20

// Compile reads wiring text and returns its declarations in source order.
func Compile(r io.Reader) ([]ir.Declaration, error) {
	p, err := newLineParser()
	if err != nil {
		return nil, errors.Wrap(err, "build wiring parser")
	}

	var (
		decls     []ir.Declaration
		declared  = make(map[string]int) // name -> line
		lineNo    = 0
		entryLine = 0
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		line, err := p.parse(text)
		if err != nil {
			return nil, &CompileError{
				Code:    ErrCodeMalformedWiring,
				Line:    lineNo,
				Text:    text,
				Message: parseMessage(err),
				Err:     errors.Wrapf(err, "parse line %d", lineNo),
			}
		}

		if prev, dup := declared[line.Name]; dup {
			return nil, &CompileError{
				Code:    ErrCodeDuplicateModule,
				Line:    lineNo,
				Text:    text,
				Message: fmt.Sprintf("module %q already declared on line %d", line.Name, prev),
			}
		}
		declared[line.Name] = lineNo

		if line.Prefix == "" {
			if entryLine > 0 {
				return nil, &CompileError{
					Code:    ErrCodeMalformedWiring,
					Line:    lineNo,
					Text:    text,
					Message: fmt.Sprintf("module %q has no prefix but line %d already declares the unprefixed entry module", line.Name, entryLine),
				}
			}
			entryLine = lineNo
		}

		decls = append(decls, ir.Declaration{
			Name:         line.Name,
			Kind:         kindForPrefix(line.Prefix),
			Destinations: line.Destinations,
			Line:         lineNo,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, &CompileError{
			Code:    ErrCodeRead,
			Line:    lineNo + 1,
			Message: err.Error(),
			Err:     errors.Wrap(err, "read wiring"),
		}
	}

	return decls, nil
}

// CompileString compiles wiring given inline.
func CompileString(text string) ([]ir.Declaration, error) {
	return Compile(strings.NewReader(text))
}

// CompileFile compiles the wiring file at path.
func CompileFile(path string) ([]ir.Declaration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &CompileError{
			Code:    ErrCodeRead,
			Message: err.Error(),
			Err:     errors.Wrap(err, "open wiring"),
		}
	}
	defer f.Close()

	return Compile(f)
}

func kindForPrefix(prefix string) ir.Kind {
	switch prefix {
	case "%":
		return ir.KindFlipFlop
	case "&":
		return ir.KindConjunction
	default:
		return ir.KindBroadcaster
	}
}

// parseMessage strips participle's position prefix; the line number is
// reported by CompileError itself.
func parseMessage(err error) string {
	var perr participle.Error
	if errors.As(err, &perr) {
		return perr.Message()
	}
	return err.Error()
}
