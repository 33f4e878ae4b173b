package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ramsim/internal/config"
	"github.com/san-kum/ramsim/internal/gui"
	"github.com/san-kum/ramsim/internal/logging"
	"github.com/san-kum/ramsim/internal/prompt"
	"github.com/san-kum/ramsim/internal/ram"
	"github.com/san-kum/ramsim/internal/storage"
	"github.com/san-kum/ramsim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logFile    string
	logLevel   string
	rows       int
	cols       int
	refreshMs  int
	initFile   string
	seed       int64
	preset     string
	snapshot   string
	askPrompts bool
)

// main registers the ramsim commands and runs the terminal frontend when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "ramsim",
		Short:        "memory cell bits and voltages, refreshed on a timer",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ramsim", "snapshot directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	addRunFlags(rootCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal frontend",
		RunE:  runTUI,
	}
	addRunFlags(tuiCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "desktop frontend",
		RunE:  runGUI,
	}
	addRunFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list snapshots",
		RunE:  listSnapshots,
	}

	showCmd := &cobra.Command{
		Use:   "show [snapshot_id]",
		Short: "print a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  showSnapshot,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list initial patterns",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, listCmd, showCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rows, "rows", config.DefaultRows, "number of rows")
	cmd.Flags().IntVar(&cols, "cols", config.DefaultCols, "number of columns")
	cmd.Flags().IntVar(&refreshMs, "refresh", config.DefaultRefreshMs, "voltage reset interval in milliseconds")
	cmd.Flags().StringVar(&initFile, "file", "", "rows file (one binary string per line)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&preset, "preset", "", "initial pattern")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "start from a saved snapshot")
	cmd.Flags().BoolVar(&askPrompts, "prompt", false, "ask for refresh interval and rows file on startup")
}

// resolveConfig layers the config file under explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if configFile == "" || flags.Changed("rows") {
		cfg.Rows = rows
	}
	if configFile == "" || flags.Changed("cols") {
		cfg.Cols = cols
	}
	if configFile == "" || flags.Changed("refresh") {
		cfg.RefreshMs = refreshMs
	}
	if flags.Changed("file") {
		cfg.InitFile = initFile
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("preset") {
		cfg.Preset = preset
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, cfg.Validate()
}

// resolveSource picks where the bank's bits come from: a snapshot, then a
// rows file, then a preset, then random bits from the seed. A snapshot
// also sets cfg's grid size to the size it was saved at.
func resolveSource(cfg *config.Config, st *storage.Store, snapID string) (ram.Source, string, error) {
	switch {
	case snapID != "":
		meta, err := st.Load(snapID)
		if err != nil {
			return nil, "", fmt.Errorf("unknown snapshot %s: %w", snapID, err)
		}
		cfg.Rows, cfg.Cols = meta.Rows, meta.Cols
		return st.GridSource(snapID), "snapshot:" + snapID, nil
	case cfg.InitFile != "":
		return ram.FromFile(cfg.InitFile), cfg.InitFile, nil
	case cfg.Preset != "":
		src := config.GetPreset(cfg.Preset)
		if src == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", cfg.Preset, config.ListPresets())
		}
		return src, "preset:" + cfg.Preset, nil
	}
	return ram.Random(rand.New(rand.NewSource(cfg.Seed))), "random", nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if askPrompts {
		answers, err := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()).Startup(true)
		if err != nil {
			return err
		}
		cfg.RefreshMs = answers.RefreshMs
		if answers.FromFile {
			cfg.InitFile = answers.Path
		}
	}

	log, closer, err := logging.Open(logFile, cfg.LogLevel, true)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	st := storage.New(dataDir)
	src, origin, err := resolveSource(cfg, st, snapshot)
	if err != nil {
		return err
	}

	bank, err := ram.New(cfg.Rows, cfg.Cols, src)
	if err != nil {
		log.Error().Err(err).Str("source", origin).Msg("load failed")
		return err
	}
	log.Info().Str("source", origin).Int("rows", cfg.Rows).Int("cols", cfg.Cols).Int("refresh_ms", cfg.RefreshMs).Msg("bank ready")

	return tui.Run(bank, tui.Options{
		Refresh: cfg.Refresh(),
		Palette: cfg.Palette,
		Logger:  log,
		Store:   st,
		Seed:    cfg.Seed,
		Source:  origin,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	pick := false
	if askPrompts {
		answers, err := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()).Startup(false)
		if err != nil {
			return err
		}
		cfg.RefreshMs = answers.RefreshMs
		pick = answers.FromFile
	}

	log, closer, err := logging.Open(logFile, cfg.LogLevel, false)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	src, origin, err := resolveSource(cfg, storage.New(dataDir), snapshot)
	if err != nil {
		return err
	}
	log.Debug().Str("source", origin).Bool("pick_file", pick).Msg("starting gui")

	return gui.Run(gui.Options{
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		Refresh:  cfg.Refresh(),
		Palette:  cfg.Palette,
		Logger:   log,
		PickFile: pick,
		Fallback: src,
		Origin:   origin,
	})
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		fmt.Fprintln(out, "no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tCHARGED\tVIEW\tSOURCE")

	for _, snap := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			snap.ID,
			snap.Timestamp.Format("2006-01-02 15:04:05"),
			snap.Rows,
			snap.Cols,
			snap.Charged,
			snap.View,
			snap.Source,
		)
	}

	return w.Flush()
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	snapID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(snapID)
	if err != nil {
		return err
	}

	bank, err := ram.New(meta.Rows, meta.Cols, st.GridSource(snapID))
	if err != nil {
		return err
	}

	volts, err := st.LoadVoltages(snapID)
	if err != nil {
		return err
	}

	return writeSnapshot(cmd.OutOrStdout(), meta, bank, volts)
}

// writeSnapshot prints the saved bit grid, the saved voltage grid and a
// plot of set bits per row.
func writeSnapshot(out io.Writer, meta *storage.SnapshotMetadata, bank *ram.Bank, volts [][]float64) error {
	fmt.Fprintf(out, "snapshot: %s\n", meta.ID)
	fmt.Fprintf(out, "size: %dx%d\n", meta.Rows, meta.Cols)
	fmt.Fprintf(out, "charged: %d\n\n", meta.Charged)
	fmt.Fprint(out, bank.String())

	fmt.Fprintln(out, "\nvoltages:")
	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', tabwriter.AlignRight)
	for _, row := range volts {
		for _, v := range row {
			fmt.Fprintf(w, "%s\t", ram.FormatVoltage(v))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if meta.Rows > 1 {
		graph := asciigraph.Plot(bank.RowCharge(),
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("set bits per row"),
		)
		fmt.Fprintf(out, "\n%s\n", graph)
	}
	return nil
}
