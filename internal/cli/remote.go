package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/studywithme/internal/api"
	"github.com/idilsaglam/studywithme/internal/model"
	"github.com/idilsaglam/studywithme/internal/ui"
)

// ---------------------------------------------------
// Remote subcommands (HTTP API)
// ---------------------------------------------------

// apiClient wires the stored credentials into the client. Session-less
// commands (login, register) skip the expiry hook since a 401 there means
// bad input, not an expired session.
func (e *Env) apiClient(session bool) (*api.Client, error) {
	opts := []api.Option{
		api.WithTokenStore(e.credentials()),
		api.WithTimeout(e.Config.Timeout()),
		api.WithLogger(e.Logger),
	}
	if session {
		opts = append(opts, api.WithUnauthorizedHandler(func() {
			e.fail("session expired, credentials cleared")
			e.hint("Run: studywithme remote login <email>")
		}))
	}
	return api.New(e.Config.APIURL, opts...)
}

func remoteFail(env *Env, what string, err error) int {
	if api.IsUnauthorized(err) {
		// the unauthorized hook already told the user
		env.Logger.Debug("unauthorized", "op", what, "err", err)
		return exitFailure
	}
	env.fail(what + ": " + err.Error())
	return exitFailure
}

func printRemoteHelp(w io.Writer) {
	fmt.Fprint(w, `studywithme remote - talk to the remote API

Subcommands:
  register <email> [-name <name>]  Create an account (asks for a password)
  login <email>                    Log in (asks for a password)
  logout                           End the session
  me                               Show the logged-in user
  ls                               List remote tasks
  add -p <period> <task...>        Create a task
  edit <id> [-p <period>] [task...]
  done <id>                        Toggle completion
  rm <id>                          Delete a task
  profile [-name <name>] [-anonymous=true|false]
  subscription                     Show the subscription
  settings [-theme light|dark|auto] [-email=true|false] [-push=true|false]
`)
}

func doRemote(env *Env, a []string) int {
	if len(a) == 0 {
		printRemoteHelp(env.Stderr)
		return exitUsage
	}
	cmd, rest := a[0], a[1:]
	if cmd == "help" {
		printRemoteHelp(env.Stdout)
		return exitOK
	}
	c, err := env.apiClient(cmd != "login" && cmd != "register")
	if err != nil {
		env.fail(err.Error())
		return exitFailure
	}

	switch cmd {
	case "register":
		return doRemoteRegister(env, c, rest)
	case "login":
		return doRemoteLogin(env, c, rest)
	case "logout":
		return doRemoteLogout(env, c)
	case "me":
		return doRemoteMe(env, c)
	case "ls":
		return doRemoteList(env, c)
	case "add":
		return doRemoteAdd(env, c, rest)
	case "edit":
		return doRemoteEdit(env, c, rest)
	case "done":
		return doRemoteToggle(env, c, rest)
	case "rm":
		return doRemoteDelete(env, c, rest)
	case "profile":
		return doRemoteProfile(env, c, rest)
	case "subscription":
		return doRemoteSubscription(env, c)
	case "settings":
		return doRemoteSettings(env, c, rest)
	}
	env.fail("unknown remote subcommand: " + cmd)
	printRemoteHelp(env.Stderr)
	return exitUsage
}

func saveSession(env *Env, s api.Session) int {
	raw, err := json.Marshal(s.User)
	if err != nil {
		env.fail("encode user: " + err.Error())
		return exitFailure
	}
	if err := env.credentials().Set(s.Token, raw); err != nil {
		env.fail("save token: " + err.Error())
		return exitFailure
	}
	return exitOK
}

func doRemoteRegister(env *Env, c *api.Client, a []string) int {
	if len(a) < 1 {
		env.fail("usage: studywithme remote register <email> [-name <name>]")
		return exitUsage
	}
	fs := newFlagSet("register", env)
	name := fs.String("name", "", "display name")
	if err := fs.Parse(a[1:]); err != nil {
		return exitUsage
	}
	password, err := readSecret(env, "Password: ")
	if err != nil {
		env.fail("read password: " + err.Error())
		return exitFailure
	}
	res, err := c.Auth.Register(env.Ctx, api.RegisterRequest{Email: a[0], Password: password, Name: *name})
	if err != nil {
		return remoteFail(env, "register", err)
	}
	if code := saveSession(env, res.Data); code != exitOK {
		return code
	}
	env.ok("registered as " + res.Data.User.Email)
	return exitOK
}

func doRemoteLogin(env *Env, c *api.Client, a []string) int {
	if len(a) != 1 {
		env.fail("usage: studywithme remote login <email>")
		return exitUsage
	}
	password, err := readSecret(env, "Password: ")
	if err != nil {
		env.fail("read password: " + err.Error())
		return exitFailure
	}
	res, err := c.Auth.Login(env.Ctx, api.LoginRequest{Email: a[0], Password: password})
	if err != nil {
		if api.IsUnauthorized(err) {
			env.fail("login failed: wrong email or password")
			return exitFailure
		}
		return remoteFail(env, "login", err)
	}
	if code := saveSession(env, res.Data); code != exitOK {
		return code
	}
	env.ok("logged in as " + res.Data.User.Email)
	return exitOK
}

func doRemoteLogout(env *Env, c *api.Client) int {
	_, err := c.Auth.Logout(env.Ctx)
	if delErr := env.credentials().Delete(); delErr != nil {
		env.fail("logout: " + delErr.Error())
		return exitFailure
	}
	if err != nil && !api.IsUnauthorized(err) {
		env.Logger.Warn("remote logout failed", "err", err)
	}
	env.ok("logged out")
	return exitOK
}

func printUser(env *Env, u api.User) {
	fmt.Fprintf(env.Stdout, "id: %s\n", u.ID)
	fmt.Fprintf(env.Stdout, "email: %s\n", u.Email)
	fmt.Fprintf(env.Stdout, "name: %s\n", u.Name)
	fmt.Fprintf(env.Stdout, "anonymous: %t\n", u.IsAnonymous)
	fmt.Fprintf(env.Stdout, "plan: %s (active: %t)\n", u.Subscription.Plan, u.Subscription.IsActive)
	fmt.Fprintf(env.Stdout, "theme: %s\n", u.Settings.Theme)
	fmt.Fprintf(env.Stdout, "notifications: email=%t push=%t\n",
		u.Settings.Notifications.Email, u.Settings.Notifications.Push)
}

func doRemoteMe(env *Env, c *api.Client) int {
	res, err := c.Auth.Me(env.Ctx)
	if err != nil {
		return remoteFail(env, "me", err)
	}
	printUser(env, res.Data.User)
	return exitOK
}

// remoteLines groups remote todos by period, first occurrence first.
func remoteLines(todos []api.Todo) []string {
	t := ui.Current()
	if len(todos) == 0 {
		return []string{t.Muted.Render("no remote tasks")}
	}
	var lines []string
	for i, sec := range model.GroupFunc(todos, func(td api.Todo) string { return td.Period }) {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Period.Render(sec.Period))
		for _, td := range sec.Items {
			box, text := t.Muted.Render(t.BoxUnchecked), td.Text
			if td.Completed {
				box, text = t.Success.Render(t.BoxChecked), t.Done.Render(td.Text)
			}
			line := fmt.Sprintf("  %s %s %s", t.Muted.Render(td.ID), box, text)
			if td.Author != "" {
				line += "  " + t.Muted.Render("by "+td.Author)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func doRemoteList(env *Env, c *api.Client) int {
	res, err := c.Todos.List(env.Ctx)
	if err != nil {
		return remoteFail(env, "list", err)
	}
	lines := append([]string{ui.Current().Title.Render("Remote todos")}, "")
	ui.Panel(env.Stdout, append(lines, remoteLines(res.Data)...))
	return exitOK
}

func doRemoteAdd(env *Env, c *api.Client, a []string) int {
	fs := newFlagSet("add", env)
	period := fs.String("p", "", "period label")
	if err := fs.Parse(a); err != nil {
		return exitUsage
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" || strings.TrimSpace(*period) == "" {
		env.fail("usage: studywithme remote add -p <period> <task...>")
		return exitUsage
	}
	author := env.controller().DisplayName()
	res, err := c.Todos.Create(env.Ctx, api.CreateTodoRequest{Period: strings.TrimSpace(*period), Text: text, Author: author})
	if err != nil {
		return remoteFail(env, "add", err)
	}
	env.ok("created " + res.Data.ID)
	return exitOK
}

func doRemoteEdit(env *Env, c *api.Client, a []string) int {
	if len(a) < 1 {
		env.fail("usage: studywithme remote edit <id> [-p <period>] [task...]")
		return exitUsage
	}
	fs := newFlagSet("edit", env)
	period := fs.String("p", "", "new period label")
	if err := fs.Parse(a[1:]); err != nil {
		return exitUsage
	}
	var req api.UpdateTodoRequest
	if p := strings.TrimSpace(*period); p != "" {
		req.Period = &p
	}
	if fs.NArg() > 0 {
		text := strings.Join(fs.Args(), " ")
		req.Text = &text
	}
	if req.Period == nil && req.Text == nil {
		env.fail("edit: nothing to change")
		return exitUsage
	}
	if _, err := c.Todos.Update(env.Ctx, a[0], req); err != nil {
		return remoteFail(env, "edit", err)
	}
	env.ok("updated")
	return exitOK
}

func doRemoteToggle(env *Env, c *api.Client, a []string) int {
	if len(a) != 1 {
		env.fail("usage: studywithme remote done <id>")
		return exitUsage
	}
	res, err := c.Todos.Toggle(env.Ctx, a[0])
	if err != nil {
		return remoteFail(env, "done", err)
	}
	if res.Data.Completed {
		env.ok("marked done")
	} else {
		env.ok("marked pending")
	}
	return exitOK
}

func doRemoteDelete(env *Env, c *api.Client, a []string) int {
	if len(a) != 1 {
		env.fail("usage: studywithme remote rm <id>")
		return exitUsage
	}
	if _, err := c.Todos.Delete(env.Ctx, a[0]); err != nil {
		return remoteFail(env, "rm", err)
	}
	env.ok("removed")
	return exitOK
}

func doRemoteProfile(env *Env, c *api.Client, a []string) int {
	fs := newFlagSet("profile", env)
	name := fs.String("name", "", "display name")
	anonymous := fs.Bool("anonymous", false, "anonymous mode")
	if err := fs.Parse(a); err != nil {
		return exitUsage
	}
	var req api.UpdateProfileRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			req.Name = name
		case "anonymous":
			req.IsAnonymous = anonymous
		}
	})
	if req.Name == nil && req.IsAnonymous == nil {
		env.fail("usage: studywithme remote profile [-name <name>] [-anonymous=true|false]")
		return exitUsage
	}
	res, err := c.Users.UpdateProfile(env.Ctx, req)
	if err != nil {
		return remoteFail(env, "profile", err)
	}
	env.ok("profile updated")
	printUser(env, res.Data.User)
	return exitOK
}

func doRemoteSubscription(env *Env, c *api.Client) int {
	res, err := c.Users.Subscription(env.Ctx)
	if err != nil {
		return remoteFail(env, "subscription", err)
	}
	s := res.Data.Subscription
	fmt.Fprintf(env.Stdout, "plan: %s\n", s.Plan)
	fmt.Fprintf(env.Stdout, "active: %t\n", s.IsActive)
	if s.StartDate != nil {
		fmt.Fprintf(env.Stdout, "start: %s\n", s.StartDate.Format("2006-01-02"))
	}
	if s.EndDate != nil {
		fmt.Fprintf(env.Stdout, "end: %s\n", s.EndDate.Format("2006-01-02"))
	}
	return exitOK
}

func doRemoteSettings(env *Env, c *api.Client, a []string) int {
	fs := newFlagSet("settings", env)
	theme := fs.String("theme", "", "light, dark or auto")
	email := fs.Bool("email", false, "email notifications")
	push := fs.Bool("push", false, "push notifications")
	if err := fs.Parse(a); err != nil {
		return exitUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		env.fail("usage: studywithme remote settings [-theme light|dark|auto] [-email=true|false] [-push=true|false]")
		return exitUsage
	}

	var req api.UpdateSettingsRequest
	if set["theme"] {
		switch *theme {
		case "light", "dark", "auto":
			req.Theme = theme
		default:
			env.fail("settings: theme must be light, dark or auto")
			return exitUsage
		}
	}
	if set["email"] || set["push"] {
		// notifications are replaced as a whole; start from the current values
		me, err := c.Auth.Me(env.Ctx)
		if err != nil {
			return remoteFail(env, "settings", err)
		}
		n := me.Data.User.Settings.Notifications
		if set["email"] {
			n.Email = *email
		}
		if set["push"] {
			n.Push = *push
		}
		req.Notifications = &n
	}
	res, err := c.Users.UpdateSettings(env.Ctx, req)
	if err != nil {
		return remoteFail(env, "settings", err)
	}
	env.ok("settings updated")
	printUser(env, res.Data.User)
	return exitOK
}
