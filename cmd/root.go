package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/hamster-cli/internal/config"
	"github.com/Tiliavir/hamster-cli/internal/hamsterdbus"
	"github.com/Tiliavir/hamster-cli/internal/logger"
	"github.com/Tiliavir/hamster-cli/internal/storage"
	"github.com/Tiliavir/hamster-cli/internal/timeparse"
	"github.com/Tiliavir/hamster-cli/internal/tracker"
)

// now is the clock every command reads.
var now = time.Now

// runtime is what PersistentPreRunE wires up for the running command.
var rt struct {
	cfg    config.Config
	log    *zap.Logger
	store  tracker.Store
	parser *timeparse.Parser
	close  func() error
}

var rootCmd = &cobra.Command{
	Use:   "hamster",
	Short: "Command-line client for the Hamster time tracker",
	Long: `hamster starts, stops and lists tracked activities.

Facts are stored as JSON day files in ~/.hamster/ or, with backend: dbus,
in a running Hamster time tracker.

Time formats:
  'YYYY-MM-DD hh:mm:ss'  absolute; missing time values default to 0 and
                         missing date values to the current day.
                           2010-03 13:15:40   2010-03-09 13:15:40
                           2010-03-09 13      2010-03-09 00:13:00
                           13:20              today 13:20:00
                           20                 today 00:20:00
  '-hh:mm:ss'            relative, counted back from now.
A range is START-END, e.g. 9:00-17:30.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(listActivitiesCmd)
	rootCmd.AddCommand(listCategoriesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.log = log
	rt.parser = timeparse.New(now)
	rt.close = func() error { return nil }

	switch cfg.Backend {
	case config.BackendDBus:
		c, err := hamsterdbus.Connect(log)
		if err != nil {
			return storageErr(err)
		}
		rt.store, rt.close = c, c.Close
	default:
		rt.store = storage.New(cfg.DataDir, log).WithClock(now)
	}
	log.Debug("command ready",
		zap.String("command", cmd.Name()),
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir))
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if rt.log != nil {
		_ = rt.log.Sync()
	}
	if rt.close != nil {
		return rt.close()
	}
	return nil
}

// exitError carries the process exit status of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// storageErr marks err as a storage failure (exit status 2).
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: 2, err: err}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
