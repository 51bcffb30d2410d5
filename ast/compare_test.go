package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodesEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        *Node
		b        *Node
		expected bool
	}{
		{
			name:     "Identical untyped",
			a:        New("x", "1"),
			b:        New("x", "1"),
			expected: true,
		},
		{
			name:     "Different name",
			a:        New("Max", "4.0"),
			b:        New("SMax", "4.0"),
			expected: false,
		},
		{
			name:     "Different value",
			a:        New("c", "1"),
			b:        New("c", "2"),
			expected: false,
		},
		{
			name:     "Different type",
			a:        NewTyped("c", "1", "A"),
			b:        NewTyped("c", "1", "B"),
			expected: false,
		},
		{
			name:     "Typed versus untyped",
			a:        NewTyped("c", "1", "A"),
			b:        New("c", "1"),
			expected: false,
		},
		{
			name:     "Case sensitive",
			a:        New("c", "abc"),
			b:        New("c", "ABC"),
			expected: false,
		},
		{
			name:     "Children are ignored",
			a:        New("p", "1", New("c", "1")),
			b:        New("p", "1", New("d", "2"), New("e", "3")),
			expected: true,
		},
		{
			name:     "Both nil",
			a:        nil,
			b:        nil,
			expected: true,
		},
		{
			name:     "One nil",
			a:        New("x", "1"),
			b:        nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NodesEqual(tt.a, tt.b))
			assert.Equal(t, tt.expected, NodesEqual(tt.b, tt.a))
		})
	}
}

func TestTreesEqual(t *testing.T) {
	a := New("p", "1", New("c", "1"), New("c", "2"))

	assert.True(t, TreesEqual(a, New("p", "1", New("c", "1"), New("c", "2"))))
	assert.False(t, TreesEqual(a, New("p", "1", New("c", "2"), New("c", "1"))), "order matters")
	assert.False(t, TreesEqual(a, New("p", "1", New("c", "1"))))
	assert.True(t, TreesEqual(nil, nil))
}
