package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

func (a *app) resultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "show your past exam results",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "show one submission",
				ArgsUsage: "<submission-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if _, err := a.requirePerm("submission:view-own"); err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("submission id required")
					}
					res, err := a.client.Submission(ctx, id)
					if err != nil {
						return err
					}
					a.renderResult(res)
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			user, err := a.requirePerm("submission:view-own")
			if err != nil {
				return err
			}
			results, err := a.svc.UserSubmissions(ctx, user.ID)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(a.out, "No results yet. Take a quiz with `quizctl take <quiz-id>`.")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tQUIZ\tSCORE\tCORRECT\tSUBMITTED")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%d/%d\t%s\n",
					r.ID, r.QuizTitle, r.Score, r.CorrectAnswers, r.TotalQuestions, r.SubmittedAt)
			}
			return tw.Flush()
		},
	}
}
