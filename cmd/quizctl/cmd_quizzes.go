package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/quizdeck/quizdeck/internal/api"
)

func (a *app) quizzesCommand() *cli.Command {
	return &cli.Command{
		Name:  "quizzes",
		Usage: "browse available quizzes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list quizzes",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 0},
					&cli.IntFlag{Name: "size", Value: 20},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("quiz:view"); err != nil {
						return err
					}
					page, err := a.svc.Quizzes(ctx, api.ListOpts{
						Page: int(cmd.Int("page")),
						Size: int(cmd.Int("size")),
					})
					if err != nil {
						return err
					}
					if len(page.Content) == 0 {
						fmt.Fprintln(a.out, "No quizzes available.")
						return nil
					}
					tw := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tTITLE\tDURATION")
					for _, q := range page.Content {
						fmt.Fprintf(tw, "%s\t%s\t%d min\n", q.ID, q.Title, q.DurationMinutes)
					}
					tw.Flush()
					fmt.Fprintf(a.out, "Page %d/%d (%d total)\n", page.Page+1, page.TotalPages, page.TotalElements)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show one quiz",
				ArgsUsage: "<quiz-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("quiz:view"); err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("quiz id required")
					}
					q, err := a.svc.Quiz(ctx, id)
					if err != nil {
						return err
					}
					a.renderQuiz(q)
					return nil
				},
			},
		},
	}
}

func (a *app) renderQuiz(q api.Quiz) {
	fmt.Fprintf(a.out, "%s\n", q.Title)
	if q.Description != "" {
		fmt.Fprintf(a.out, "%s\n", q.Description)
	}
	fmt.Fprintf(a.out, "Duration: %d minutes, %d question(s)\n", q.DurationMinutes, len(q.Questions))
	for i, question := range q.Questions {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, question.Content)
	}
}
