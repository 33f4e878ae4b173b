package ram

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// Source fills a fresh bit grid.
type Source interface {
	Fill(rows, cols int) ([][]bool, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(rows, cols int) ([][]bool, error)

func (f SourceFunc) Fill(rows, cols int) ([][]bool, error) { return f(rows, cols) }

// Random fills every cell with a coin flip from rng.
func Random(rng *rand.Rand) Source {
	return SourceFunc(func(rows, cols int) ([][]bool, error) {
		bits := make([][]bool, rows)
		for i := range bits {
			bits[i] = make([]bool, cols)
			for j := range bits[i] {
				bits[i][j] = rng.Intn(2) == 1
			}
		}
		return bits, nil
	})
}

// Pattern fills each cell from a function of its position.
func Pattern(fn func(r, c int) bool) Source {
	return SourceFunc(func(rows, cols int) ([][]bool, error) {
		bits := make([][]bool, rows)
		for i := range bits {
			bits[i] = make([]bool, cols)
			for j := range bits[i] {
				bits[i][j] = fn(i, j)
			}
		}
		return bits, nil
	})
}

// FromReader parses newline separated binary strings. Blank lines are skipped
// and the remaining line count must match rows exactly.
func FromReader(r io.Reader) Source {
	return SourceFunc(func(rows, cols int) ([][]bool, error) {
		bits := make([][]bool, 0, rows)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			row, err := ParseRow(line, cols)
			if err != nil {
				return nil, &RowError{Row: len(bits), Input: line, Cols: cols, Wrapped: err}
			}
			bits = append(bits, row)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		if len(bits) != rows {
			return nil, fmt.Errorf("%w: got %d rows, want %d", ErrRowCount, len(bits), rows)
		}
		return bits, nil
	})
}

// FromFile reads rows from a plaintext file.
func FromFile(path string) Source {
	return SourceFunc(func(rows, cols int) ([][]bool, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return FromReader(f).Fill(rows, cols)
	})
}
