package cli

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/studywithme/internal/logging"
	"github.com/idilsaglam/studywithme/internal/tui"
	"github.com/idilsaglam/studywithme/internal/ui"
)

// ---------------------------------------------------
// Local subcommands (todo list + profile on disk)
// ---------------------------------------------------

func newFlagSet(name string, env *Env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	return fs
}

func parseID(env *Env, cmd string, a []string) (int64, bool) {
	if len(a) < 1 {
		env.fail(fmt.Sprintf("usage: studywithme %s <id>", cmd))
		return 0, false
	}
	id, err := strconv.ParseInt(a[0], 10, 64)
	if err != nil {
		env.fail(cmd + ": not an id: " + a[0])
		return 0, false
	}
	return id, true
}

func notFound(env *Env, id int64) int {
	env.fail(fmt.Sprintf("no task with id %d", id))
	env.hint("Hint: run `studywithme ls` to see task ids")
	return exitUsage
}

func doList(env *Env, a []string) int {
	if len(a) != 0 {
		env.fail("usage: studywithme ls")
		return exitUsage
	}
	ctrl := env.controller()
	lines := ui.ListLines(ctrl.Todos(), ctrl.DisplayName())
	lines = append(lines, "", ui.Current().Muted.Render("Tip: studywithme add -p \"Week 1\" \"Read chapter 3\""))
	ui.Panel(env.Stdout, lines)
	return exitOK
}

func doTUI(env *Env, a []string) int {
	if len(a) != 0 {
		env.fail("usage: studywithme tui")
		return exitUsage
	}
	// The alt screen owns the terminal: log to the configured file or nowhere.
	logger := env.Logger
	if env.Config.LogFile == "" {
		logger = logging.Discard()
	}
	ctrl := env.controllerWith(logger)
	err := env.RunTUI(ctrl, tui.Options{NoticeDuration: env.Config.NoticeDuration()})
	if err != nil {
		env.fail("tui: " + err.Error())
		return exitFailure
	}
	return exitOK
}

func doAdd(env *Env, a []string) int {
	fs := newFlagSet("add", env)
	period := fs.String("p", "", "period label, e.g. \"Week 1\"")
	if err := fs.Parse(a); err != nil {
		return exitUsage
	}
	ctrl := env.controller()
	return env.report(ctrl.Add(*period, strings.Join(fs.Args(), " ")))
}

func doEdit(env *Env, a []string) int {
	id, ok := parseID(env, "edit", a)
	if !ok {
		return exitUsage
	}
	fs := newFlagSet("edit", env)
	period := fs.String("p", "", "new period label")
	if err := fs.Parse(a[1:]); err != nil {
		return exitUsage
	}

	ctrl := env.controller()
	cur, found := ctrl.Find(id)
	if !found {
		return notFound(env, id)
	}
	newPeriod, newText := cur.Period, cur.Text
	if *period != "" {
		newPeriod = *period
	}
	if fs.NArg() > 0 {
		newText = strings.Join(fs.Args(), " ")
	}
	return env.report(ctrl.Edit(id, newPeriod, newText))
}

func doToggle(env *Env, a []string) int {
	id, ok := parseID(env, "done", a)
	if !ok || len(a) != 1 {
		if ok {
			env.fail("usage: studywithme done <id>")
		}
		return exitUsage
	}
	ctrl := env.controller()
	ctrl.DismissNotice()
	if !ctrl.Toggle(id) {
		return notFound(env, id)
	}
	if n := ctrl.Notice(); !n.IsZero() {
		return env.report(n)
	}
	td, _ := ctrl.Find(id)
	if td.Completed {
		env.ok("marked done")
	} else {
		env.ok("marked pending")
	}
	return exitOK
}

func doRemove(env *Env, a []string) int {
	id, ok := parseID(env, "rm", a)
	if !ok || len(a) != 1 {
		if ok {
			env.fail("usage: studywithme rm <id>")
		}
		return exitUsage
	}
	ctrl := env.controller()
	if _, found := ctrl.Find(id); !found {
		return notFound(env, id)
	}
	return env.report(ctrl.Delete(id))
}

func doClear(env *Env, a []string) int {
	fs := newFlagSet("clear", env)
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(a); err != nil {
		return exitUsage
	}
	ctrl := env.controller()
	confirm := func(prompt string) bool {
		if *yes {
			return true
		}
		fmt.Fprintf(env.Stdout, "%s [y/N]: ", prompt)
		line, _ := readLine(env)
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
	n := ctrl.ClearAll(confirm)
	if n.IsZero() {
		fmt.Fprintln(env.Stdout, ui.Current().Muted.Render("aborted"))
		return exitOK
	}
	return env.report(n)
}

func doProfile(env *Env, a []string) int {
	fs := newFlagSet("profile", env)
	name := fs.String("name", "", "display name")
	anonymous := fs.Bool("anonymous", false, "hide the name behind a placeholder")
	if err := fs.Parse(a); err != nil {
		return exitUsage
	}
	if fs.NArg() > 0 {
		env.fail("usage: studywithme profile [-name <name>] [-anonymous=true|false]")
		return exitUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	ctrl := env.controller()
	if len(set) == 0 {
		p := ctrl.Profile()
		fmt.Fprintf(env.Stdout, "name: %s\n", p.Name)
		fmt.Fprintf(env.Stdout, "anonymous: %t\n", p.IsAnonymous)
		fmt.Fprintf(env.Stdout, "display name: %s\n", ctrl.DisplayName())
		return exitOK
	}

	p := ctrl.Profile()
	if set["name"] {
		p.Name = *name
	}
	if set["anonymous"] {
		p.IsAnonymous = *anonymous
	}
	code := env.report(ctrl.SaveProfile(p))
	if code == exitOK {
		fmt.Fprintf(env.Stdout, "display name: %s\n", ctrl.DisplayName())
	}
	return code
}
