// Command studywithme-lite is the minimal variant: an in-memory list with no
// profile, interactive view only.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/idilsaglam/studywithme/internal/app"
	"github.com/idilsaglam/studywithme/internal/config"
	"github.com/idilsaglam/studywithme/internal/logging"
	"github.com/idilsaglam/studywithme/internal/store"
	"github.com/idilsaglam/studywithme/internal/tui"
	"github.com/idilsaglam/studywithme/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("studywithme-lite", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, "studywithme-lite:", err)
		return 2
	}
	ui.SetTheme(cfg.Theme)
	if cfg.NoColor {
		ui.DisableColor()
	}

	// The alt screen owns the terminal, so logs only go to a file.
	logger := logging.Discard()
	if cfg.LogFile != "" {
		var closer io.Closer
		logger, closer, err = logging.OpenFile(cfg.LogFile, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		if err != nil {
			fmt.Fprintln(os.Stderr, "studywithme-lite:", err)
			return 1
		}
		defer closer.Close()
	}

	ctrl := app.New(store.NewAdapter(store.NewMemory()), app.Options{Anonymous: true, Logger: logger})
	ctrl.Load()
	err = tui.Run(ctrl, tui.Options{Title: "Todo List (lite)", NoticeDuration: cfg.NoticeDuration()})
	if err != nil {
		fmt.Fprintln(os.Stderr, "studywithme-lite:", err)
		return 1
	}
	return 0
}
