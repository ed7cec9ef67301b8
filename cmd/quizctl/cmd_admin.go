package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/quizdeck/quizdeck/internal/api"
)

func (a *app) adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "manage quizzes, questions, users and roles",
		Commands: []*cli.Command{
			a.adminQuizCommand(),
			a.adminQuestionCommand(),
			a.adminUsersCommand(),
			a.adminRolesCommand(),
			a.adminSubmissionsCommand(),
		},
	}
}

func (a *app) adminQuizCommand() *cli.Command {
	return &cli.Command{
		Name:  "quiz",
		Usage: "quiz CRUD",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.IntFlag{Name: "duration", Usage: "minutes", Value: 30},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("quiz:create"); err != nil {
						return err
					}
					q, err := a.svc.CreateQuiz(ctx, api.CreateQuizInput{
						Title:           cmd.String("title"),
						Description:     cmd.String("description"),
						DurationMinutes: int(cmd.Int("duration")),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Created quiz %s\n", q.ID)
					return nil
				},
			},
			{
				Name:      "update",
				ArgsUsage: "<quiz-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "description"},
					&cli.IntFlag{Name: "duration", Value: -1},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("quiz:update"); err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("quiz id required")
					}
					in := api.UpdateQuizInput{
						Title:       cmd.String("title"),
						Description: cmd.String("description"),
					}
					if d := int(cmd.Int("duration")); d >= 0 {
						in.DurationMinutes = &d
					}
					q, err := a.svc.UpdateQuiz(ctx, id, in)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Updated quiz %s\n", q.ID)
					return nil
				},
			},
			{
				Name:      "delete",
				ArgsUsage: "<quiz-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("quiz:delete"); err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("quiz id required")
					}
					if err := a.svc.DeleteQuiz(ctx, id); err != nil {
						return err
					}
					fmt.Fprintln(a.out, "Deleted.")
					return nil
				},
			},
			{
				Name:      "attach",
				Usage:     "attach a question to a quiz",
				ArgsUsage: "<quiz-id> <question-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("quiz:update"); err != nil {
						return err
					}
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("quiz id and question id required")
					}
					return a.svc.AddQuestionToQuiz(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
			{
				Name:      "detach",
				Usage:     "detach a question from a quiz",
				ArgsUsage: "<quiz-id> <question-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("quiz:update"); err != nil {
						return err
					}
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("quiz id and question id required")
					}
					return a.svc.RemoveQuestionFromQuiz(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
		},
	}
}

func (a *app) adminQuestionCommand() *cli.Command {
	return &cli.Command{
		Name:  "question",
		Usage: "question CRUD",
		Commands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 0},
					&cli.IntFlag{Name: "size", Value: 20},
					&cli.StringFlag{Name: "content", Usage: "filter by content"},
					&cli.StringFlag{Name: "type", Usage: "filter by type"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("question:list"); err != nil {
						return err
					}
					page, err := a.svc.Questions(ctx, api.QuestionFilter{
						Page:    int(cmd.Int("page")),
						Size:    int(cmd.Int("size")),
						Content: cmd.String("content"),
						Type:    cmd.String("type"),
					})
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tTYPE\tCONTENT")
					for _, q := range page.Content {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", q.ID, q.Type, q.Content)
					}
					return tw.Flush()
				},
			},
			{
				Name: "create",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Required: true},
					&cli.StringFlag{Name: "type", Value: "single_choice"},
					&cli.StringFlag{
						Name:  "answers",
						Usage: `JSON array, e.g. '[{"content":"4","isCorrect":true},{"content":"5"}]'`,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("question:create"); err != nil {
						return err
					}
					in := api.CreateQuestionInput{
						Content: cmd.String("content"),
						Type:    cmd.String("type"),
					}
					if raw := cmd.String("answers"); raw != "" {
						if err := json.Unmarshal([]byte(raw), &in.Answers); err != nil {
							return fmt.Errorf("bad --answers JSON: %w", err)
						}
					}
					q, err := a.svc.CreateQuestion(ctx, in)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Created question %s\n", q.ID)
					return nil
				},
			},
			{
				Name:      "update",
				ArgsUsage: "<question-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content"},
					&cli.StringFlag{Name: "type"},
					&cli.StringFlag{Name: "answers", Usage: "JSON array replacing all answers"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("question:update"); err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("question id required")
					}
					in := api.UpdateQuestionInput{
						Content: cmd.String("content"),
						Type:    cmd.String("type"),
					}
					if raw := cmd.String("answers"); raw != "" {
						if err := json.Unmarshal([]byte(raw), &in.Answers); err != nil {
							return fmt.Errorf("bad --answers JSON: %w", err)
						}
					}
					q, err := a.svc.UpdateQuestion(ctx, id, in)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Updated question %s\n", q.ID)
					return nil
				},
			},
			{
				Name:      "delete",
				ArgsUsage: "<question-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("question:delete"); err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("question id required")
					}
					return a.svc.DeleteQuestion(ctx, id)
				},
			},
		},
	}
}

func (a *app) adminUsersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "user and role management",
		Commands: []*cli.Command{
			{
				Name: "list",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 0},
					&cli.IntFlag{Name: "size", Value: 20},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("users:list"); err != nil {
						return err
					}
					page, err := a.svc.Users(ctx, api.ListOpts{
						Page: int(cmd.Int("page")),
						Size: int(cmd.Int("size")),
					})
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLES")
					for _, u := range page.Content {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.FullName, strings.Join(u.Roles, ","))
					}
					return tw.Flush()
				},
			},
			{
				Name:      "delete",
				ArgsUsage: "<user-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("users:delete"); err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("user id required")
					}
					return a.svc.DeleteUser(ctx, id)
				},
			},
		},
	}
}

func (a *app) adminRolesCommand() *cli.Command {
	return &cli.Command{
		Name:  "roles",
		Usage: "role management",
		Commands: []*cli.Command{
			{
				Name: "list",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("roles:list"); err != nil {
						return err
					}
					roles, err := a.client.ListRoles(ctx)
					if err != nil {
						return err
					}
					for _, r := range roles {
						fmt.Fprintln(a.out, r.Name)
					}
					return nil
				},
			},
			{
				Name:      "assign",
				ArgsUsage: "<user-id> <role>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("roles:assign"); err != nil {
						return err
					}
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("user id and role required")
					}
					return a.svc.AssignRole(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
			{
				Name:      "revoke",
				ArgsUsage: "<user-id> <role>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("roles:assign"); err != nil {
						return err
					}
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("user id and role required")
					}
					return a.svc.RevokeRole(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
		},
	}
}

func (a *app) adminSubmissionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "submissions",
		Usage:     "list submissions for a quiz",
		ArgsUsage: "<quiz-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := a.requirePerm("submission:view-all"); err != nil {
				return err
			}
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("quiz id required")
			}
			results, err := a.svc.QuizSubmissions(ctx, id)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCORE\tCORRECT\tSUBMITTED")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%.1f%%\t%d/%d\t%s\n", r.ID, r.Score, r.CorrectAnswers, r.TotalQuestions, r.SubmittedAt)
			}
			return tw.Flush()
		},
	}
}
