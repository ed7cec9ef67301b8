package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/session"
)

func (a *app) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "authenticate and save the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			password := cmd.String("password")
			if password == "" {
				password = a.prompt("Password: ")
			}
			resp, err := a.client.Login(ctx, api.LoginRequest{
				Email:    strings.ToLower(strings.TrimSpace(cmd.String("email"))),
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			a.sess.Login(resp.User, session.Credentials{
				AccessToken:  resp.AccessToken,
				RefreshToken: resp.RefreshToken,
			})
			fmt.Fprintf(a.out, "Logged in as %s (%s)\n", resp.User.FullName, resp.User.Email)
			return nil
		},
	}
}

func (a *app) registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account and log in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
			&cli.StringFlag{Name: "name", Usage: "full name", Required: true},
			&cli.StringFlag{Name: "phone"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			password := cmd.String("password")
			if password == "" {
				password = a.prompt("Password: ")
			}
			resp, err := a.client.Register(ctx, api.RegisterRequest{
				Email:    strings.ToLower(strings.TrimSpace(cmd.String("email"))),
				Password: password,
				FullName: cmd.String("name"),
				Phone:    cmd.String("phone"),
			})
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			a.sess.Login(resp.User, session.Credentials{
				AccessToken:  resp.AccessToken,
				RefreshToken: resp.RefreshToken,
			})
			fmt.Fprintf(a.out, "Welcome, %s. You are now logged in.\n", resp.User.FullName)
			return nil
		},
	}
}

func (a *app) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "discard the saved session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a.sess.Logout()
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the logged-in user",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			u, err := a.requireUser()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s <%s>\nRoles: %s\n", u.FullName, u.Email, strings.Join(u.Roles, ", "))
			return nil
		},
	}
}

func (a *app) profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "update your profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "full name"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			user, err := a.requirePerm("profile:update")
			if err != nil {
				return err
			}
			name := cmd.String("name")
			if name == "" {
				return fmt.Errorf("nothing to update; pass --name")
			}
			user.FullName = name
			updated, err := a.svc.UpdateUser(ctx, user.ID, user)
			if err != nil {
				return err
			}
			a.sess.UpdateUser(updated)
			fmt.Fprintf(a.out, "Profile updated: %s\n", updated.FullName)
			return nil
		},
	}
}

// prompt reads one line from stdin. Empty on EOF.
func (a *app) prompt(label string) string {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}
