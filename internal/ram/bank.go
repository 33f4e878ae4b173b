package ram

import (
	"strconv"
	"strings"
)

// Charge levels in volts.
const (
	High      = 5.0
	Low       = 0.0
	Threshold = High / 2
)

type ViewMode int

const (
	ViewBinary ViewMode = iota
	ViewVoltage
)

func (v ViewMode) String() string {
	if v == ViewVoltage {
		return "voltage"
	}
	return "binary"
}

// ToggleLabel is the caption for the control that leaves this mode.
func (v ViewMode) ToggleLabel() string {
	if v == ViewVoltage {
		return "Switch to Binary"
	}
	return "Switch to Voltages"
}

// Cell is one rendered grid position. Text follows the voltage grid,
// Charged follows the bit grid.
type Cell struct {
	Text    string
	Charged bool
}

// Bank holds the bit grid, its voltage grid and the current view mode.
type Bank struct {
	rows, cols int
	bits       [][]bool
	volts      [][]float64
	view       ViewMode
}

// New builds a bank of rows x cols cells filled from src.
func New(rows, cols int, src Source) (*Bank, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrDimensions
	}
	bits, err := src.Fill(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(bits) != rows {
		return nil, ErrRowCount
	}
	volts := make([][]float64, rows)
	for i, row := range bits {
		if len(row) != cols {
			return nil, &RowError{Row: i, Input: formatRow(row), Cols: cols, Wrapped: ErrInvalidRow}
		}
		volts[i] = make([]float64, cols)
		for j, bit := range row {
			volts[i][j] = level(bit)
		}
	}
	return &Bank{rows: rows, cols: cols, bits: bits, volts: volts}, nil
}

func (b *Bank) Rows() int      { return b.rows }
func (b *Bank) Cols() int      { return b.cols }
func (b *Bank) View() ViewMode { return b.view }

// ToggleView flips between binary and voltage display and returns the new mode.
func (b *Bank) ToggleView() ViewMode {
	if b.view == ViewBinary {
		b.view = ViewVoltage
	} else {
		b.view = ViewBinary
	}
	return b.view
}

// UpdateRow overwrites row r from a binary string and snaps its voltages.
// An empty string resubmits the row's current contents. On error nothing changes.
func (b *Bank) UpdateRow(r int, s string) error {
	if r < 0 || r >= b.rows {
		return ErrRowIndex
	}
	if s == "" {
		s = b.RowString(r)
	}
	row, err := ParseRow(s, b.cols)
	if err != nil {
		return &RowError{Row: r, Input: s, Cols: b.cols, Wrapped: err}
	}
	for j, bit := range row {
		b.bits[r][j] = bit
		b.volts[r][j] = level(bit)
	}
	return nil
}

// ResetVoltages reads every charge against Threshold and snaps it to High or Low.
// The bit grid is left alone.
func (b *Bank) ResetVoltages() {
	for i := range b.volts {
		for j, v := range b.volts[i] {
			b.volts[i][j] = level(v > Threshold)
		}
	}
}

// Render returns display cells for the current view mode.
func (b *Bank) Render() [][]Cell {
	cells := make([][]Cell, b.rows)
	for i := range cells {
		cells[i] = make([]Cell, b.cols)
		for j := range cells[i] {
			v := b.volts[i][j]
			text := FormatVoltage(v)
			if b.view == ViewBinary {
				text = "0"
				if v > Threshold {
					text = "1"
				}
			}
			cells[i][j] = Cell{Text: text, Charged: b.bits[i][j]}
		}
	}
	return cells
}

// RowString returns row r of the bit grid as a binary string.
func (b *Bank) RowString(r int) string {
	return formatRow(b.bits[r])
}

// Bits returns a copy of the bit grid.
func (b *Bank) Bits() [][]bool {
	out := make([][]bool, b.rows)
	for i, row := range b.bits {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

// Voltages returns a copy of the voltage grid.
func (b *Bank) Voltages() [][]float64 {
	out := make([][]float64, b.rows)
	for i, row := range b.volts {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Charged counts cells whose voltage reads high.
func (b *Bank) Charged() int {
	n := 0
	for _, row := range b.volts {
		for _, v := range row {
			if v > Threshold {
				n++
			}
		}
	}
	return n
}

// RowCharge counts set bits in each row.
func (b *Bank) RowCharge() []float64 {
	out := make([]float64, b.rows)
	for i, row := range b.bits {
		for _, bit := range row {
			if bit {
				out[i]++
			}
		}
	}
	return out
}

// String renders the bit grid in the rows file format.
func (b *Bank) String() string {
	var sb strings.Builder
	for i := range b.bits {
		sb.WriteString(b.RowString(i))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseRow validates a binary string of exactly cols characters.
func ParseRow(s string, cols int) ([]bool, error) {
	if len(s) != cols {
		return nil, ErrInvalidRow
	}
	row := make([]bool, cols)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			row[i] = true
		default:
			return nil, ErrInvalidRow
		}
	}
	return row, nil
}

// FormatVoltage renders a charge like "5V" or "2.5V".
func FormatVoltage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "V"
}

func level(bit bool) float64 {
	if bit {
		return High
	}
	return Low
}

func formatRow(row []bool) string {
	buf := make([]byte, len(row))
	for i, bit := range row {
		buf[i] = '0'
		if bit {
			buf[i] = '1'
		}
	}
	return string(buf)
}
