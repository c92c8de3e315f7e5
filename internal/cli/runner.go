package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/studywithme/internal/app"
	"github.com/idilsaglam/studywithme/internal/config"
	"github.com/idilsaglam/studywithme/internal/logging"
	"github.com/idilsaglam/studywithme/internal/store"
	"github.com/idilsaglam/studywithme/internal/store/jsonstore"
	"github.com/idilsaglam/studywithme/internal/tui"
	"github.com/idilsaglam/studywithme/internal/ui"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Env carries everything a subcommand touches, so tests can swap it.
type Env struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Logger *log.Logger
	Now    func() time.Time

	// RunTUI starts the interactive view; nil means tui.Run.
	RunTUI func(*app.Controller, tui.Options) error

	in *bufio.Reader
}

// reader buffers Stdin once so consecutive prompts share it.
func (e *Env) reader() *bufio.Reader {
	if e.in == nil {
		e.in = bufio.NewReader(e.Stdin)
	}
	return e.in
}

func (e *Env) setDefaults() {
	if e.Ctx == nil {
		e.Ctx = context.Background()
	}
	if e.Stdin == nil {
		e.Stdin = os.Stdin
	}
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.Config == nil {
		e.Config = config.Default()
	}
	if e.Logger == nil {
		e.Logger = logging.Discard()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.RunTUI == nil {
		e.RunTUI = func(c *app.Controller, o tui.Options) error { return tui.Run(c, o) }
	}
}

func (e *Env) ok(msg string)   { ui.OK(e.Stdout, msg) }
func (e *Env) fail(msg string) { ui.Fail(e.Stderr, msg) }

// hint prints a muted follow-up line on stderr.
func (e *Env) hint(msg string) {
	fmt.Fprintln(e.Stderr, ui.Current().Muted.Render(msg))
}

// controller opens the on-disk state. Load problems are reported and the
// defaults are used.
func (e *Env) controller() *app.Controller {
	return e.controllerWith(e.Logger)
}

func (e *Env) controllerWith(logger *log.Logger) *app.Controller {
	kv := jsonstore.New(e.Config.DataDir)
	ctrl := app.New(store.NewAdapter(kv), app.Options{Now: e.Now, Logger: logger})
	if n := ctrl.Load(); !n.IsZero() {
		e.fail(n.Message)
	}
	return ctrl
}

// report prints n and maps it to an exit code.
func (e *Env) report(n app.Notice) int {
	if n.IsZero() {
		return exitOK
	}
	if n.Level == app.LevelSuccess {
		e.ok(n.Message)
		return exitOK
	}
	e.fail(n.Message)
	if n.Message == app.MsgSaveFailed {
		return exitFailure
	}
	return exitUsage
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, env Env) int {
	env.setDefaults()
	if len(args) == 0 {
		PrintHelp(env.Stderr)
		return exitUsage
	}
	cmd, a := args[0], args[1:]
	env.Logger.Debug("command", "name", cmd, "args", len(a))

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(env.Stdout)
		return exitOK
	case "ls":
		return doList(&env, a)
	case "tui":
		return doTUI(&env, a)
	case "add":
		return doAdd(&env, a)
	case "edit":
		return doEdit(&env, a)
	case "done":
		return doToggle(&env, a)
	case "rm":
		return doRemove(&env, a)
	case "clear":
		return doClear(&env, a)
	case "profile":
		return doProfile(&env, a)
	case "auth":
		return doAuth(&env, a)
	case "remote":
		return doRemote(&env, a)
	}

	env.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(env.Stderr)
	PrintHelp(env.Stderr)
	return exitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `studywithme - a period-grouped todo list

Usage:
  studywithme [root flags] <subcommand> [args]

Root flags:
  -config <file>  -data-dir <dir>  -api-url <url>  -theme classic|neon|mono
  -log-level <level>  -log-file <file>  -no-color

Subcommands:
  tui                              Interactive view
  ls                               List tasks grouped by period
  add -p <period> <task...>        Add a task
  edit <id> [-p <period>] [task...]
                                   Change a task's period and/or text
  done <id>                        Toggle completion
  rm <id>                          Remove a task
  clear [-y]                       Remove every task (asks first)
  profile [-name <name>] [-anonymous=true|false]
                                   Show or change the author profile
  auth <login|logout|status|whoami>
                                   Token for the remote API
  remote <subcommand>              Talk to the remote API (see: remote help)

Examples:
  studywithme add -p "Week 1" "Read chapter 3"
  studywithme ls
  studywithme done 1718000000000
  studywithme profile -name Jiwoo
`)
}
