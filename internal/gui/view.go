package gui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/san-kum/ramsim/internal/config"
	"github.com/san-kum/ramsim/internal/ram"
)

const cellSize = 50

// View binds one bank to its widgets. Every method must run on the fyne main thread.
type View struct {
	bank    *ram.Bank
	log     zerolog.Logger
	win     fyne.Window
	charged color.Color
	empty   color.Color

	toggle  *widget.Button
	entries []*widget.Entry
	labels  [][]*canvas.Text
	backs   [][]*canvas.Rectangle
}

func NewView(bank *ram.Bank, palette config.PaletteConfig, log zerolog.Logger, win fyne.Window) *View {
	v := &View{
		bank:    bank,
		log:     log,
		win:     win,
		charged: parseHex(palette.Charged, color.NRGBA{R: 0x90, G: 0xee, B: 0x90, A: 0xff}),
		empty:   parseHex(palette.Empty, color.NRGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff}),
	}
	v.toggle = widget.NewButton(bank.View().ToggleLabel(), v.ToggleView)

	rows, cols := bank.Rows(), bank.Cols()
	v.entries = make([]*widget.Entry, rows)
	v.labels = make([][]*canvas.Text, rows)
	v.backs = make([][]*canvas.Rectangle, rows)
	for i := 0; i < rows; i++ {
		entry := widget.NewEntry()
		entry.SetText(bank.RowString(i))
		v.entries[i] = entry

		v.labels[i] = make([]*canvas.Text, cols)
		v.backs[i] = make([]*canvas.Rectangle, cols)
		for j := 0; j < cols; j++ {
			back := canvas.NewRectangle(v.empty)
			back.StrokeColor = color.Black
			back.StrokeWidth = 1
			back.SetMinSize(fyne.NewSize(cellSize, cellSize))
			label := canvas.NewText("", color.Black)
			label.TextSize = 16
			label.Alignment = fyne.TextAlignCenter
			v.backs[i][j] = back
			v.labels[i][j] = label
		}
	}
	v.Redraw()
	return v
}

// Content lays out the toggle above one line per row: cells, entry, submit.
func (v *View) Content() fyne.CanvasObject {
	lines := make([]fyne.CanvasObject, 0, v.bank.Rows()+1)
	lines = append(lines, container.NewCenter(v.toggle))
	for i := range v.entries {
		cells := make([]fyne.CanvasObject, 0, v.bank.Cols())
		for j := range v.labels[i] {
			cells = append(cells, container.NewStack(v.backs[i][j], container.NewCenter(v.labels[i][j])))
		}
		row := i
		submit := widget.NewButton("Submit", func() { v.Submit(row) })
		entry := container.NewGridWrap(fyne.NewSize(160, v.entries[i].MinSize().Height), v.entries[i])
		lines = append(lines, container.NewBorder(nil, nil, container.NewHBox(cells...), container.NewHBox(entry, submit)))
	}
	return container.NewPadded(container.NewVBox(lines...))
}

// Submit applies row r's entry. A rejected entry is reported and left in place.
func (v *View) Submit(r int) {
	text := v.entries[r].Text
	if err := v.bank.UpdateRow(r, text); err != nil {
		v.log.Warn().Err(err).Int("row", r).Str("input", text).Int("cols", v.bank.Cols()).Msg("invalid row input")
		if v.win != nil {
			dialog.ShowError(fmt.Errorf("Invalid input: %s. Please enter a binary string of length %d.", text, v.bank.Cols()), v.win)
		}
		return
	}
	v.log.Info().Int("row", r).Str("bits", v.bank.RowString(r)).Msg("row updated")
	v.Redraw()
	v.entries[r].SetText(v.bank.RowString(r))
}

func (v *View) ToggleView() {
	mode := v.bank.ToggleView()
	v.toggle.SetText(mode.ToggleLabel())
	v.log.Debug().Str("view", mode.String()).Msg("view toggled")
	v.Redraw()
}

func (v *View) ResetVoltages() {
	v.bank.ResetVoltages()
	v.log.Debug().Int("charged", v.bank.Charged()).Msg("voltages reset")
	v.Redraw()
}

// Redraw pushes the bank's rendered cells into the widgets.
func (v *View) Redraw() {
	for i, row := range v.bank.Render() {
		for j, cell := range row {
			v.labels[i][j].Text = cell.Text
			v.backs[i][j].FillColor = v.empty
			if cell.Charged {
				v.backs[i][j].FillColor = v.charged
			}
			v.labels[i][j].Refresh()
			v.backs[i][j].Refresh()
		}
	}
}

func (v *View) Entry(r int) *widget.Entry { return v.entries[r] }
func (v *View) Toggle() *widget.Button    { return v.toggle }
func (v *View) CellText(r, c int) string  { return v.labels[r][c].Text }
func (v *View) CellColor(r, c int) color.Color {
	return v.backs[r][c].FillColor
}

func parseHex(s string, fallback color.Color) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return fallback
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}
