package parser

// parser reads and writes attribute trees in the line based
// attribute format and in JSON.

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/KorAP/Koral-TreeCompare/ast"
)

var (
	defaultParser     *AttributeParser
	defaultParserErr  error
	defaultParserOnce sync.Once
)

// Parse parses an attribute document using a shared AttributeParser
func Parse(input string) ([]*ast.Node, error) {
	defaultParserOnce.Do(func() {
		defaultParser, defaultParserErr = NewAttributeParser()
	})
	if defaultParserErr != nil {
		return nil, defaultParserErr
	}
	return defaultParser.Parse(input)
}

// ParseJSON parses a JSON array of attributes
func ParseJSON(data []byte) ([]*ast.Node, error) {
	var nodes []*ast.Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse JSON attributes: %w", err)
	}
	if err := Validate(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Validate checks that no attribute of the forest is null and
// every attribute has a name. Errors name the position of the
// offending attribute.
func Validate(nodes []*ast.Node) error {
	return validate(nodes, "")
}

func validate(nodes []*ast.Node, prefix string) error {
	for i, n := range nodes {
		if n == nil {
			return fmt.Errorf("%s is null", position(i, prefix))
		}
		if n.Name == "" {
			return fmt.Errorf("%s has no name", position(i, prefix))
		}
		if err := validate(n.Children, ast.QualifiedName(prefix, n)); err != nil {
			return err
		}
	}
	return nil
}

func position(i int, prefix string) string {
	if prefix == "" {
		return fmt.Sprintf("attribute %d", i)
	}
	return fmt.Sprintf("attribute %d below %q", i, prefix)
}

// Format serializes a forest into the line based attribute format.
// Parse reads the result back into an equal forest.
func Format(nodes []*ast.Node) string {
	var sb strings.Builder
	format(&sb, nodes, 0)
	return sb.String()
}

func format(sb *strings.Builder, nodes []*ast.Node, depth int) {
	for _, n := range nodes {
		sb.WriteString(strings.Repeat(".", depth))
		name := escapeString(n.Name)
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "//") {
			name = `\` + name
		}
		sb.WriteString(name)
		sb.WriteString("|")
		sb.WriteString(escapeString(n.Value))
		if n.Type != "" {
			sb.WriteString("|")
			sb.WriteString(escapeString(n.Type))
		}
		sb.WriteString("\n")
		format(sb, n.Children, depth+1)
	}
}

// escapeString escapes backslashes, pipes and line breaks
func escapeString(s string) string {
	if !strings.ContainsAny(s, "\\|\n\r") {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '|':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
