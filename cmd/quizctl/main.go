package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/config"
	"github.com/quizdeck/quizdeck/internal/logging"
	"github.com/quizdeck/quizdeck/internal/query"
	"github.com/quizdeck/quizdeck/internal/rbac"
	"github.com/quizdeck/quizdeck/internal/session"
)

// Version is set at build time via ldflags.
var Version = "v0.1.0"

// app bundles the client-side wiring: config, session, API client, cache.
type app struct {
	cfg     config.Config
	log     *logging.Logger
	sess    *session.Store
	client  *api.Client
	svc     *query.Service
	checker *rbac.Checker

	out io.Writer
	in  *bufio.Scanner
}

func newApp() (*app, error) {
	cfg := config.FromEnv()
	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		sess:    session.Open(cfg.SessionFile),
		checker: rbac.NewChecker(nil),
		out:     os.Stdout,
		in:      bufio.NewScanner(os.Stdin),
	}
	a.client = api.New(cfg.APIBaseURL, cfg.APITimeout, a.sess,
		api.WithLogger(log),
		api.WithOnAuthExpired(func() {
			fmt.Fprintln(a.out, "Your session has expired. Please log in again with `quizctl login`.")
		}),
	)
	a.svc = query.NewService(a.client, query.NewCache(cfg.APITimeout))
	return a, nil
}

// requireUser is the authentication guard in front of protected commands.
func (a *app) requireUser() (api.User, error) {
	u, ok := a.sess.Current()
	if !ok {
		return api.User{}, fmt.Errorf("you are not logged in; run `quizctl login` first")
	}
	return u, nil
}

// requirePerm additionally checks the role-based permission, the client-side
// counterpart of the protected admin routes.
func (a *app) requirePerm(perm string) (api.User, error) {
	u, err := a.requireUser()
	if err != nil {
		return api.User{}, err
	}
	if !a.checker.HasAny(u.Roles, perm) {
		return api.User{}, fmt.Errorf("your account is not allowed to do that")
	}
	return u, nil
}

func main() {
	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer a.log.Sync()

	cmd := &cli.Command{
		Name:    "quizctl",
		Usage:   "terminal client for the quiz platform",
		Version: Version,
		Commands: []*cli.Command{
			a.loginCommand(),
			a.registerCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.profileCommand(),
			a.quizzesCommand(),
			a.takeCommand(),
			a.resultsCommand(),
			a.adminCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		a.log.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
