package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/idilsaglam/studywithme/internal/auth"
)

// ---------------------------------------------------
// Auth subcommands (token for the remote API)
// ---------------------------------------------------

func (e *Env) credentials() *auth.Store {
	return auth.NewStore(e.Config.CredentialsFile)
}

func doAuth(env *Env, a []string) int {
	if len(a) != 1 {
		env.fail("usage: studywithme auth <login|logout|status|whoami>")
		return exitUsage
	}
	switch a[0] {
	case "login":
		return doAuthLogin(env)
	case "logout":
		return doAuthLogout(env)
	case "status":
		return doAuthStatus(env)
	case "whoami":
		return doAuthWhoAmI(env)
	}
	env.fail("usage: studywithme auth <login|logout|status|whoami>")
	return exitUsage
}

func doAuthLogin(env *Env) int {
	token, err := readSecret(env, "Paste your token: ")
	if err != nil {
		env.fail("read token: " + err.Error())
		return exitFailure
	}
	if err := env.credentials().Set(token, nil); err != nil {
		env.fail("save token: " + err.Error())
		return exitFailure
	}
	env.ok("logged in")
	return exitOK
}

func doAuthLogout(env *Env) int {
	ti, _ := env.credentials().Get()
	if ti != nil && ti.Source == auth.SourceEnv {
		env.ok("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return exitOK
	}
	if err := env.credentials().Delete(); err != nil {
		env.fail("logout: " + err.Error())
		return exitFailure
	}
	env.ok("logged out")
	return exitOK
}

func doAuthStatus(env *Env) int {
	ti, err := env.credentials().Get()
	if err != nil {
		env.fail("credentials: " + err.Error())
		return exitFailure
	}
	if ti == nil {
		fmt.Fprintln(env.Stdout, "not logged in")
		fmt.Fprintln(env.Stdout, "Run: studywithme auth login (or: studywithme remote login <email>)")
		return exitOK
	}
	fmt.Fprintf(env.Stdout, "source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		state := ""
		if ti.Expired(env.Now()) {
			state = " (expired)"
		}
		fmt.Fprintf(env.Stdout, "expires: %s%s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), state)
	} else {
		fmt.Fprintln(env.Stdout, "expires: (unknown)")
	}
	fmt.Fprintln(env.Stdout, "env override: "+auth.EnvToken)
	return exitOK
}

// whoami decodes the JWT payload locally (unverified); opaque tokens print
// basic info.
func doAuthWhoAmI(env *Env) int {
	ti, _ := env.credentials().Get()
	if ti == nil {
		env.fail("not logged in. Run: studywithme auth login")
		return exitUsage
	}
	if len(ti.User) > 0 {
		var u struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if json.Unmarshal(ti.User, &u) == nil && u.Email != "" {
			fmt.Fprintf(env.Stdout, "user: %s <%s>\n", u.Name, u.Email)
		}
	}
	claims, err := auth.Claims(ti.Token)
	if err != nil {
		fmt.Fprintln(env.Stdout, "Opaque token (cannot introspect locally).")
		fmt.Fprintln(env.Stdout, "source:", ti.Source)
		return exitOK
	}
	keys := make([]string, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(env.Stdout, "JWT claims:")
	for _, k := range keys {
		fmt.Fprintf(env.Stdout, "  %s: %v\n", k, claims[k])
	}
	return exitOK
}

// readSecret reads one line, without echo when stdin is a terminal.
func readSecret(env *Env, prompt string) (string, error) {
	fmt.Fprint(env.Stdout, prompt)
	if f, ok := env.Stdin.(*os.File); ok && term.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(env.Stdout)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(env)
}

func readLine(env *Env) (string, error) {
	line, err := env.reader().ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
