package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"example.com/ecosangam/internal/advisor"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/ui"
)

type footprintOutput struct {
	Results       []emissions.Result `json:"results" yaml:"results"`
	TotalTons     float64            `json:"totalTons" yaml:"totalTons"`
	Equivalencies string             `json:"equivalencies,omitempty" yaml:"equivalencies,omitempty"`
}

func (a *app) footprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "footprint",
		Short: "Show the latest estimate per category and the running total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			fp, err := svc.Footprint(cmd.Context(), a.user().ID)
			if err != nil {
				return err
			}
			out := footprintOutput{
				Results:       fp.Results(),
				TotalTons:     fp.Total(),
				Equivalencies: emissions.Summary(emissions.Equivalencies(fp.Total())),
			}
			return a.render(out, func() string { return ui.Footprint(fp) })
		},
	}
}

func (a *app) tipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tip [prompt]",
		Short: "Ask Gemini for a sustainability tip",
		Long: `Ask Gemini for a sustainability tip. Requires GEMINI_API_KEY; without it a
stock tip is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tip, err := a.advisor().Tip(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, advisor.ErrUnavailable) && a.v.GetString("gemini-api-key") == "" {
				tip, err = advisor.FallbackTip, nil
			}
			if err != nil {
				return fmt.Errorf("could not fetch sustainability tip: %w", err)
			}
			return a.render(map[string]string{"tip": tip}, func() string {
				return ui.Panel.Render(ui.IconIdea + " " + tip)
			})
		},
	}
}

func (a *app) eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Show the local event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.open(cmd.Context()); err != nil {
				return err
			}
			records, err := a.repo.Events(cmd.Context(), a.user().ID)
			if err != nil {
				return err
			}
			return a.render(records, func() string {
				if len(records) == 0 {
					return ui.Muted.Render("No events recorded.")
				}
				var b strings.Builder
				for _, rec := range records {
					fmt.Fprintf(&b, "%s  %-22s %s\n", ui.Muted.Render(rec.OccurredAt.Format("2006-01-02 15:04:05")), ui.Key.Render(rec.Type), rec.AggregateID)
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}
}
