package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-todo/internal/app"
	"github.com/Tiliavir/trivial-todo/internal/config"
	"github.com/Tiliavir/trivial-todo/internal/logging"
	"github.com/Tiliavir/trivial-todo/internal/storage"
	"github.com/Tiliavir/trivial-todo/internal/ui"
)

var (
	dataFile string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tdl",
	Short: "Trivial to-do list – a minimal file-backed task list",
	Long: `tdl keeps a single to-do list in ~/.tdl/tasks.msgpack.
Run without a subcommand to open the interactive window.`,
	Args: cobra.NoArgs,
	RunE: runRoot,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "Task file (default from config, ~/.tdl/tasks.msgpack)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	var w io.Writer = io.Discard
	if logFile != nil {
		defer logFile.Close()
		w = logFile
	}
	logger := logging.NewFromConfig(w, cfg.Log.Level, cfg.Log.Format)

	loop := app.Open(storage.NewFile(cfg.DataFile), app.WithLogger(logger))
	logger.Info("starting ui", "data", cfg.DataFile)
	if err := ui.RunTUI(cmd.Context(), loop); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}

// loadConfig reads the config file and applies the persistent flags. A broken
// config is reported and the defaults are used.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cfg.DataFile == "" {
		path, err := storage.DefaultDataPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg.DataFile = path
	}
	return cfg
}

// openLoop loads the task file for a one-shot command, logging to stderr,
// and dispatches the initial Filter. A load problem is printed before the
// command runs.
func openLoop() *app.Loop {
	cfg := loadConfig()
	logger := logging.NewFromConfig(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	loop := app.Open(storage.NewFile(cfg.DataFile), app.WithLogger(logger))
	if v := loop.Start(); v.Notice != "" {
		fmt.Fprintln(os.Stderr, v.Notice)
	}
	return loop
}

// dispatch runs ev and exits with status 2 when the loop reports a notice,
// which for one-shot commands means the change was not saved or not applied.
func dispatch(loop *app.Loop, ev app.Event) app.View {
	v := loop.Dispatch(ev)
	if v.Notice != "" {
		fmt.Fprintln(os.Stderr, v.Notice)
		os.Exit(2)
	}
	return v
}

// resolveID expands an abbreviated task ID or exits with status 1.
func resolveID(loop *app.Loop, prefix string) string {
	id, err := loop.Store().Resolve(prefix)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return id
}
