package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/studywithme/internal/cli"
	"github.com/idilsaglam/studywithme/internal/config"
	"github.com/idilsaglam/studywithme/internal/logging"
	"github.com/idilsaglam/studywithme/internal/ui"
)

func main() {
	code := run(os.Args[1:])
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

func run(args []string) int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("studywithme", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, "studywithme:", err)
		return 2
	}

	ui.SetTheme(cfg.Theme)
	if cfg.NoColor {
		ui.DisableColor()
	}

	logOpts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}
	logger := logging.New(os.Stderr, logOpts)
	if cfg.LogFile != "" {
		var closer io.Closer
		logger, closer, err = logging.OpenFile(cfg.LogFile, logOpts)
		if err != nil {
			fmt.Fprintln(os.Stderr, "studywithme:", err)
			return 1
		}
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hand the remaining args to the CLI runner.
	return cli.Run(fs.Args(), cli.Env{
		Ctx:    ctx,
		Config: cfg,
		Logger: logger,
	})
}
