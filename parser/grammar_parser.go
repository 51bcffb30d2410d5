package parser

import (
	"fmt"
	"strings"

	"github.com/KorAP/Koral-TreeCompare/ast"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// maxFields is the number of pipe separated fields after the name
const maxFields = 2

// AttributeParser parses the line based attribute format:
//
//	Name|Value|Type
//	.Child|Value
//	..Grandchild|Value|Type
//
// The number of leading dots is the depth of the attribute.
// A backslash escapes the following character; \n and \r stand
// for a line feed and a carriage return.
type AttributeParser struct {
	lineParser *participle.Parser[AttributeLine]
}

// AttributeLine represents a single attribute line
type AttributeLine struct {
	Depth  []string     `parser:"@Dot*"`
	Name   string       `parser:"@(Text | Esc) @(Text | Esc | Dot)*"`
	Fields []*LineField `parser:"@@*"`
}

// LineField represents a pipe separated field following the name
type LineField struct {
	Text string `parser:"Pipe @(Text | Esc | Dot)*"`
}

// NewAttributeParser creates a new attribute line parser
func NewAttributeParser() (*AttributeParser, error) {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Esc", Pattern: `\\.`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Pipe", Pattern: `\|`},
		{Name: "Text", Pattern: `[^|.\\\r\n]+`},
	})

	lineParser, err := participle.Build[AttributeLine](
		participle.Lexer(lex),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build attribute parser: %w", err)
	}

	return &AttributeParser{
		lineParser: lineParser,
	}, nil
}

// ParseLine parses a single attribute line and returns the attribute
// without children together with its depth
func (p *AttributeParser) ParseLine(input string) (*ast.Node, int, error) {
	line, err := p.lineParser.ParseString("", input)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse attribute: %w", err)
	}

	if len(line.Fields) > maxFields {
		return nil, 0, fmt.Errorf("too many fields: expected at most %d, got %d", maxFields+1, len(line.Fields)+1)
	}

	node := &ast.Node{
		Name: unescapeString(line.Name),
	}
	if len(line.Fields) > 0 {
		node.Value = unescapeString(line.Fields[0].Text)
	}
	if len(line.Fields) > 1 {
		node.Type = unescapeString(line.Fields[1].Text)
	}

	return node, len(line.Depth), nil
}

// Parse parses a complete attribute document into a forest.
// Blank lines and lines starting with // are ignored.
func (p *AttributeParser) Parse(input string) ([]*ast.Node, error) {
	var roots []*ast.Node
	// parents[d] is the last attribute seen at depth d
	var parents []*ast.Node

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		node, depth, err := p.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		if depth > len(parents) {
			return nil, fmt.Errorf("line %d: attribute %q at depth %d has no parent", i+1, node.Name, depth)
		}

		if depth == 0 {
			roots = append(roots, node)
		} else {
			parent := parents[depth-1]
			parent.Children = append(parent.Children, node)
		}
		parents = append(parents[:depth], node)
	}

	return roots, nil
}

// unescapeString handles unescaping of backslash-escaped characters
func unescapeString(s string) string {
	if s == "" {
		return s
	}

	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			// Escape sequence found, add the escaped character
			switch s[i+1] {
			case 'n':
				result = append(result, '\n')
			case 'r':
				result = append(result, '\r')
			default:
				result = append(result, s[i+1])
			}
			i += 2
		} else {
			// Regular character
			result = append(result, s[i])
			i++
		}
	}
	return string(result)
}
