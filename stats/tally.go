package stats

import (
	"github.com/KorAP/Koral-TreeCompare/ast"
)

// Counter maps qualified names to counts and remembers the order in which
// the names were first seen
type Counter struct {
	counts map[string]int
	keys   []string
}

// NewCounter creates an empty Counter
func NewCounter() *Counter {
	return &Counter{
		counts: make(map[string]int),
	}
}

// Inc increments the count of key by one
func (c *Counter) Inc(key string) {
	c.Add(key, 1)
}

// Add increments the count of key by n
func (c *Counter) Add(key string, n int) {
	if _, exists := c.counts[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.counts[key] += n
}

// Get returns the count of key, zero if the key is unknown
func (c *Counter) Get(key string) int {
	return c.counts[key]
}

// Has checks if key was ever counted
func (c *Counter) Has(key string) bool {
	_, ok := c.counts[key]
	return ok
}

// Keys returns the keys in insertion order
func (c *Counter) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Len returns the number of keys
func (c *Counter) Len() int {
	return len(c.keys)
}

// Delete removes key from the counter
func (c *Counter) Delete(key string) {
	if _, exists := c.counts[key]; !exists {
		return
	}
	delete(c.counts, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Clone creates an independent copy of the counter
func (c *Counter) Clone() *Counter {
	clone := NewCounter()
	for _, key := range c.keys {
		clone.Add(key, c.counts[key])
	}
	return clone
}

// Map returns the counts as a plain map
func (c *Counter) Map() map[string]int {
	m := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		m[k] = v
	}
	return m
}

// Tallies holds the per field counters of an automated run.
// A Tallies value must not be written by more than one goroutine;
// concurrent test cases use one Tallies each and Merge them afterwards.
type Tallies struct {
	Expected  *Counter
	Correct   *Counter
	Incorrect *Counter
}

// NewTallies creates empty tallies
func NewTallies() *Tallies {
	return &Tallies{
		Expected:  NewCounter(),
		Correct:   NewCounter(),
		Incorrect: NewCounter(),
	}
}

// Merge adds all counts of other to t
func (t *Tallies) Merge(other *Tallies) {
	merge := func(dst, src *Counter) {
		for _, key := range src.keys {
			dst.Add(key, src.counts[key])
		}
	}
	merge(t.Expected, other.Expected)
	merge(t.Correct, other.Correct)
	merge(t.Incorrect, other.Incorrect)
}

// CountExpected increments the expected count of every node in the forest
func CountExpected(nodes []*ast.Node, prefix string, t *Tallies) {
	ast.Walk(nodes, prefix, func(qname string, _ *ast.Node) {
		t.Expected.Inc(qname)
	})
}

// CountIncorrect increments the incorrectly found count of every node
// in the forest
func CountIncorrect(nodes []*ast.Node, prefix string, t *Tallies) {
	ast.Walk(nodes, prefix, func(qname string, _ *ast.Node) {
		t.Incorrect.Inc(qname)
	})
}
