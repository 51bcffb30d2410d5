package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KorAP/Koral-TreeCompare/ast"
	"github.com/KorAP/Koral-TreeCompare/config"
	"github.com/KorAP/Koral-TreeCompare/parser"
)

// TreeSource provides the attribute trees of a test case
type TreeSource interface {
	ExpectedTree(c config.TestCase) ([]*ast.Node, error)
	FoundTree(c config.TestCase) ([]*ast.Node, error)
}

// FileSource reads attribute trees from inline documents or files.
// Files ending in .json are read as JSON, everything else in the
// line based attribute format.
type FileSource struct{}

func (FileSource) ExpectedTree(c config.TestCase) ([]*ast.Node, error) {
	return load(c.Expected, c.ResolvePath(c.ExpectedFile))
}

// FoundTree returns an empty forest if the case has no found attributes
func (FileSource) FoundTree(c config.TestCase) ([]*ast.Node, error) {
	return load(c.Found, c.ResolvePath(c.FoundFile))
}

func load(inline, file string) ([]*ast.Node, error) {
	if inline != "" {
		return parser.Parse(inline)
	}
	if file == "" {
		return nil, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read attribute file '%s': %w", file, err)
	}

	var nodes []*ast.Node
	if strings.EqualFold(filepath.Ext(file), ".json") {
		nodes, err = parser.ParseJSON(data)
	} else {
		nodes, err = parser.Parse(string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse attribute file '%s': %w", file, err)
	}
	return nodes, nil
}

// StaticSource serves fixed trees for a single comparison
type StaticSource struct {
	Expected []*ast.Node
	Found    []*ast.Node
}

func (s StaticSource) ExpectedTree(config.TestCase) ([]*ast.Node, error) {
	return s.Expected, nil
}

func (s StaticSource) FoundTree(config.TestCase) ([]*ast.Node, error) {
	return s.Found, nil
}
