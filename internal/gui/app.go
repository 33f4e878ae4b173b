// Package gui is the desktop frontend built on fyne.
package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/rs/zerolog"
	"github.com/san-kum/ramsim/internal/config"
	"github.com/san-kum/ramsim/internal/logging"
	"github.com/san-kum/ramsim/internal/ram"
)

// Options configure the window. When PickFile is set the rows are read from
// a .txt file chosen in a file dialog; otherwise, or if the pick fails,
// Fallback fills the bank.
type Options struct {
	Rows     int
	Cols     int
	Refresh  time.Duration
	Palette  config.PaletteConfig
	Logger   zerolog.Logger
	PickFile bool
	Fallback ram.Source
	Origin   string
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	log := logging.Component(opts.Logger, "gui")
	a := app.NewWithID("io.github.san-kum.ramsim")
	w := a.NewWindow("RAM Simulator")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.SetOnClosed(cancel)

	var runErr error
	start := func(src ram.Source, origin string) {
		bank, loadErr, err := openBank(opts.Rows, opts.Cols, src, opts.Fallback)
		if loadErr != nil {
			log.Error().Err(loadErr).Str("source", origin).Msg("load failed, using fallback")
			dialog.ShowError(loadErr, w)
		}
		if err != nil {
			log.Error().Err(err).Msg("fallback failed")
			runErr = err
			d := dialog.NewError(err, w)
			d.SetOnClosed(w.Close)
			d.Show()
			return
		}
		log.Info().Str("source", origin).Int("rows", opts.Rows).Int("cols", opts.Cols).Msg("bank ready")
		v := NewView(bank, opts.Palette, log, w)
		w.SetContent(v.Content())
		go RefreshLoop(ctx, opts.Refresh, func() { fyne.Do(v.ResetVoltages) })
	}

	if opts.PickFile {
		w.Resize(fyne.NewSize(640, 480))
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				if err != nil {
					log.Error().Err(err).Msg("file dialog")
				}
				start(opts.Fallback, opts.Origin)
				return
			}
			defer reader.Close()
			start(ram.FromReader(reader), reader.URI().Path())
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
		d.Show()
	} else {
		start(opts.Fallback, opts.Origin)
	}

	w.ShowAndRun()
	return runErr
}

// openBank fills a bank from src, or from fallback when src fails. loadErr
// is the src failure; err is set only when no bank could be built.
func openBank(rows, cols int, src, fallback ram.Source) (bank *ram.Bank, loadErr, err error) {
	bank, loadErr = ram.New(rows, cols, src)
	if loadErr == nil {
		return bank, nil, nil
	}
	if fallback == nil {
		return nil, loadErr, loadErr
	}
	bank, err = ram.New(rows, cols, fallback)
	if err != nil {
		return nil, loadErr, fmt.Errorf("fallback source: %w", err)
	}
	return bank, loadErr, nil
}

// RefreshLoop calls reset every interval until ctx is done. The first reset
// fires immediately.
func RefreshLoop(ctx context.Context, interval time.Duration, reset func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reset()
		}
	}
}
