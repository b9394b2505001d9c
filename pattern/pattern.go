// Package pattern holds the immutable bitmaps that are blitted onto the LED panel.
package pattern

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrMalformed = errors.New("pattern: malformed grid")
	ErrDuplicate = errors.New("pattern: duplicate name")
	ErrUnknown   = errors.New("pattern: unknown name")
)

// Pattern is a rectangular grid of bits. The zero value is an empty pattern.
type Pattern struct {
	name string
	rows int
	cols int
	bits []bool
}

// New copies a row-major grid of 0/1 values into a Pattern.
func New(name string, grid [][]uint8) (Pattern, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return Pattern{}, fmt.Errorf("%w: %q is empty", ErrMalformed, name)
	}
	p := Pattern{name: name, rows: len(grid), cols: len(grid[0])}
	p.bits = make([]bool, 0, p.rows*p.cols)
	for r, line := range grid {
		if len(line) != p.cols {
			return Pattern{}, fmt.Errorf("%w: %q row %d has %d columns, want %d", ErrMalformed, name, r, len(line), p.cols)
		}
		for c, v := range line {
			switch v {
			case 0:
				p.bits = append(p.bits, false)
			case 1:
				p.bits = append(p.bits, true)
			default:
				return Pattern{}, fmt.Errorf("%w: %q has value %d at %d,%d", ErrMalformed, name, v, r, c)
			}
		}
	}
	return p, nil
}

// MustNew is like New but panics on a malformed grid. Used for the compiled-in bitmaps.
func MustNew(name string, grid [][]uint8) Pattern {
	p, err := New(name, grid)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) Name() string { return p.name }
func (p Pattern) Rows() int    { return p.rows }
func (p Pattern) Cols() int    { return p.cols }

// At reports the bit at row, col. Cells outside the grid are off.
func (p Pattern) At(row, col int) bool {
	if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
		return false
	}
	return p.bits[row*p.cols+col]
}

// Lit returns the number of bits that are on.
func (p Pattern) Lit() int {
	n := 0
	for _, b := range p.bits {
		if b {
			n++
		}
	}
	return n
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s{%dx%d}", p.name, p.rows, p.cols)
}

// Registry maps pattern names to patterns. It is not safe for concurrent registration.
type Registry struct {
	patterns map[string]Pattern
}

func NewRegistry() *Registry {
	return &Registry{patterns: map[string]Pattern{}}
}

func (r *Registry) Register(p Pattern) error {
	if p.rows == 0 {
		return fmt.Errorf("%w: %q is empty", ErrMalformed, p.name)
	}
	if _, ok := r.patterns[p.name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, p.name)
	}
	r.patterns[p.name] = p
	return nil
}

func (r *Registry) Lookup(name string) (Pattern, error) {
	p, ok := r.patterns[name]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.patterns))
	for n := range r.patterns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
