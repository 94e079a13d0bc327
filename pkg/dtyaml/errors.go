package dtyaml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
)

// ParseError is a YAML syntax or decoding error. Pos is nil when the
// position could not be determined.
type ParseError struct {
	Pos     *LineCol
	Message string
}

func (e *ParseError) Error() string {
	if e.Pos == nil {
		return "yaml: " + e.Message
	}
	return fmt.Sprintf("yaml: line %s: %s", e.Pos, e.Message)
}

// nodeError reports a decoding problem at the position of n
func nodeError(n ast.Node, format string, args ...any) *ParseError {
	return &ParseError{Pos: nodePos(n), Message: fmt.Sprintf(format, args...)}
}

// contentError reports a problem with the content of a tagged node
func (d *Decoder) contentError(content ast.Node, format string, args ...any) *ParseError {
	return &ParseError{Pos: d.contentPos(content), Message: fmt.Sprintf(format, args...)}
}

// contentPos returns where the content of a tagged node starts. The parser
// places a scalar that follows a tag on the blank separating the two.
func (d *Decoder) contentPos(content ast.Node) *LineCol {
	pos := nodePos(content)
	if pos == nil || pos.Line < 0 || pos.Line >= len(d.lines) {
		return pos
	}
	line := d.lines[pos.Line]
	col := pos.Col
	for col >= 0 && col < len(line) && (line[col] == ' ' || line[col] == '\t') {
		col++
	}
	return &LineCol{Line: pos.Line, Col: col}
}

// syntaxErrorPattern matches the "[line:column] message" header of parser
// errors. Following lines hold an annotated source excerpt.
var syntaxErrorPattern = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)

// newSyntaxError extracts the position and message from a parser error
func newSyntaxError(err error) *ParseError {
	first, _, _ := strings.Cut(strings.TrimSpace(err.Error()), "\n")

	m := syntaxErrorPattern.FindStringSubmatch(first)
	if m == nil {
		return &ParseError{Message: first}
	}
	line, lineErr := strconv.Atoi(m[1])
	col, colErr := strconv.Atoi(m[2])
	if lineErr != nil || colErr != nil || line < 1 || col < 1 {
		return &ParseError{Message: m[3]}
	}
	return &ParseError{Pos: &LineCol{Line: line - 1, Col: col - 1}, Message: m[3]}
}
