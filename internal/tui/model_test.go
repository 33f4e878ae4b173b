package tui_test

import (
	"bytes"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"github.com/san-kum/ramsim/internal/ram"
	"github.com/san-kum/ramsim/internal/storage"
	"github.com/san-kum/ramsim/internal/tui"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tui.Model, msgs ...tea.Msg) tui.Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(tui.Model)
	}
	return m
}

var _ = Describe("Model", func() {
	var (
		bank  *ram.Bank
		model tui.Model
		logs  *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		bank, err = ram.New(2, 4, ram.FromReader(strings.NewReader("1010\n0000\n")))
		Expect(err).NotTo(HaveOccurred())
		logs = &bytes.Buffer{}
		model = tui.NewModel(bank, tui.Options{
			Refresh: 50 * time.Millisecond,
			Logger:  zerolog.New(logs),
		})
	})

	It("arms the refresh timer on start", func() {
		Expect(model.Init()).NotTo(BeNil())
	})

	It("seeds each row entry with the row's bits", func() {
		Expect(model.Entry(0)).To(Equal("1010"))
		Expect(model.Entry(1)).To(Equal("0000"))
	})

	Describe("editing a row", func() {
		It("applies a valid string and resyncs the entry", func() {
			model = send(model,
				tea.KeyMsg{Type: tea.KeyEnter},
				tea.KeyMsg{Type: tea.KeyCtrlU},
				runes("0110"),
				tea.KeyMsg{Type: tea.KeyEnter},
			)

			Expect(model.Editing()).To(BeFalse())
			Expect(model.Failed()).To(BeFalse())
			Expect(bank.RowString(0)).To(Equal("0110"))
			Expect(bank.Voltages()[0]).To(Equal([]float64{0, 5, 5, 0}))
			Expect(model.Entry(0)).To(Equal("0110"))
		})

		It("rejects a wrong-length string and leaves the bank alone", func() {
			before := bank.Voltages()
			model = send(model,
				tea.KeyMsg{Type: tea.KeyEnter},
				tea.KeyMsg{Type: tea.KeyCtrlU},
				runes("101"),
				tea.KeyMsg{Type: tea.KeyEnter},
			)

			Expect(model.Failed()).To(BeTrue())
			Expect(model.Status()).To(ContainSubstring("Invalid input: 101"))
			Expect(bank.RowString(0)).To(Equal("1010"))
			Expect(bank.Voltages()).To(Equal(before))
			Expect(model.Entry(0)).To(Equal("101"))
			Expect(logs.String()).To(ContainSubstring("invalid row input"))
		})

		It("edits the row under the cursor", func() {
			model = send(model,
				runes("j"),
				runes("e"),
				tea.KeyMsg{Type: tea.KeyCtrlU},
				runes("1111"),
				tea.KeyMsg{Type: tea.KeyEnter},
			)

			Expect(model.Cursor()).To(Equal(1))
			Expect(bank.RowString(1)).To(Equal("1111"))
			Expect(bank.RowString(0)).To(Equal("1010"))
		})

		It("discards the edit on escape", func() {
			model = send(model,
				tea.KeyMsg{Type: tea.KeyEnter},
				runes("1"),
				tea.KeyMsg{Type: tea.KeyEsc},
			)

			Expect(model.Editing()).To(BeFalse())
			Expect(bank.RowString(0)).To(Equal("1010"))
			Expect(model.Entry(0)).To(Equal("1010"))
		})
	})

	Describe("toggling the view", func() {
		It("switches text between bits and volts", func() {
			model = send(model, runes("v"))
			Expect(bank.View()).To(Equal(ram.ViewVoltage))
			Expect(model.View()).To(ContainSubstring("5V"))

			model = send(model, runes("v"))
			Expect(bank.View()).To(Equal(ram.ViewBinary))
		})
	})

	Describe("the refresh timer", func() {
		It("resets voltages and records the charge history", func() {
			next, cmd := model.Update(tui.TickMsg(time.Now()))
			model = next.(tui.Model)

			Expect(cmd).NotTo(BeNil())
			Expect(model.Resets()).To(Equal(1))
			Expect(model.History()).To(Equal([]float64{2, 2}))
		})
	})

	Describe("snapshots", func() {
		It("reports when no store is configured", func() {
			model = send(model, runes("s"))
			Expect(model.Failed()).To(BeTrue())
			Expect(model.Status()).To(Equal("snapshots disabled"))
		})

		It("saves the grid to the store", func() {
			st := storage.New(GinkgoT().TempDir())
			model = tui.NewModel(bank, tui.Options{Store: st, Seed: 9, Source: "test", Logger: zerolog.Nop()})
			model = send(model, runes("s"))

			Expect(model.Failed()).To(BeFalse())
			snaps, err := st.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(snaps).To(HaveLen(1))
			Expect(snaps[0].Seed).To(BeEquivalentTo(9))
		})
	})

	It("quits on q", func() {
		_, cmd := model.Update(runes("q"))
		Expect(cmd).NotTo(BeNil())
	})
})
