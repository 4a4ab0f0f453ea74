package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/observability"
	"example.com/ecosangam/internal/ui"
)

type goalOutput struct {
	domain.Goal      `yaml:",inline"`
	Streak           int     `json:"streak" yaml:"streak"`
	StreakPercentage float64 `json:"streakPercentage" yaml:"streakPercentage"`
	CarbonSaved      float64 `json:"carbonSaved" yaml:"carbonSaved"`
}

func newGoalOutput(g domain.Goal) goalOutput {
	return goalOutput{Goal: g, Streak: g.Streak(), StreakPercentage: g.StreakPercentage(), CarbonSaved: g.CarbonSaved()}
}

type logOutput struct {
	Goal          goalOutput `json:"goal" yaml:"goal"`
	FirstToday    bool       `json:"firstToday" yaml:"firstToday"`
	JustCompleted bool       `json:"justCompleted" yaml:"justCompleted"`
}

type showOutput struct {
	Goal     goalOutput      `json:"goal" yaml:"goal"`
	Calendar domain.Calendar `json:"calendar" yaml:"calendar"`
}

func (a *app) goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Aliases: []string{"goal"},
		Short:   "Create and track sustainability goals",
	}
	cmd.AddCommand(a.goalsCreateCmd(), a.goalsLogCmd(), a.goalsListCmd(), a.goalsShowCmd())
	return cmd
}

func (a *app) goalsCreateCmd() *cobra.Command {
	var (
		goalType   string
		target     float64
		days       int
		title      string
		customType string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a goal",
		Example: `  ecoctl goals create --type lessmeat --target 5 --days 7
  ecoctl goals create --type custom --custom-type "Skip the lift" --target 10 --days 14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			params := domain.NewGoalParams{Type: domain.GoalType(goalType), Title: title, CustomType: customType}
			if cmd.Flags().Changed("target") {
				params.Target = &target
			}
			if cmd.Flags().Changed("days") {
				params.Days = &days
			}
			goal, err := svc.CreateGoal(cmd.Context(), a.user(), params)
			if err != nil {
				return err
			}
			observability.RecordGoalCreated()
			return a.render(newGoalOutput(*goal), func() string {
				return ui.Good.Render(ui.IconDone+" Goal created") + "\n" + ui.Goal(*goal)
			})
		},
	}
	cmd.Flags().StringVarP(&goalType, "type", "t", "", "goal type (see `ecoctl goal-types`)")
	cmd.Flags().Float64Var(&target, "target", 0, "target amount in the goal type's unit")
	cmd.Flags().IntVar(&days, "days", 0, "length of the challenge in days")
	cmd.Flags().StringVar(&title, "title", "", "title (defaults to one derived from the type and target)")
	cmd.Flags().StringVar(&customType, "custom-type", "", "name of a custom goal")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) goalsLogCmd() *cobra.Command {
	var (
		activity string
		custom   string
		impact   float64
	)
	cmd := &cobra.Command{
		Use:   "log <goal-id>",
		Short: "Log an activity against a goal",
		Long: `Log an activity against a goal. When --impact is omitted and the activity is
one of the goal type's suggestions, the suggested impact is used.`,
		Example: `  ecoctl goals log 01J2... --activity "Had a meat-free day"
  ecoctl goals log 01J2... --activity Other --custom "Fixed a leak" --impact 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			input := domain.LogActivityInput{Activity: activity, CustomActivity: custom}
			if cmd.Flags().Changed("impact") {
				input.Impact = &impact
			} else if goal, err := svc.GetGoal(cmd.Context(), a.user().ID, args[0]); err == nil {
				if v, ok := domain.CatalogImpact(goal.Type, activity); ok {
					input.Impact = &v
				}
			}

			goal, res, err := svc.LogActivity(cmd.Context(), a.user(), args[0], input)
			if err != nil {
				return err
			}
			observability.RecordActivityLogged(res.Completed != nil)
			out := logOutput{Goal: newGoalOutput(*goal), FirstToday: res.FirstToday, JustCompleted: res.Completed != nil}
			return a.render(out, func() string {
				var b strings.Builder
				b.WriteString(ui.Good.Render(ui.IconDone+" Logged "+res.Activity.Label) + "\n")
				if out.FirstToday {
					b.WriteString(ui.Warn.Render(ui.IconFire+" First activity today, streak extended") + "\n")
				}
				if out.JustCompleted {
					b.WriteString(ui.Gold.Render(ui.IconTrophy+" Goal completed!") + "\n")
				}
				b.WriteString(ui.Goal(*goal))
				return b.String()
			})
		},
	}
	cmd.Flags().StringVarP(&activity, "activity", "a", "", "activity label")
	cmd.Flags().StringVar(&custom, "custom", "", "label to use when --activity is Other")
	cmd.Flags().Float64Var(&impact, "impact", 0, "amount the activity contributes to the target")
	_ = cmd.MarkFlagRequired("activity")
	return cmd
}

func (a *app) goalsListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			goals, _, err := svc.ListGoals(cmd.Context(), a.user().ID, nil, 0)
			if err != nil {
				return err
			}
			out := make([]goalOutput, 0, len(goals))
			for _, g := range goals {
				if g.Completed && !all {
					continue
				}
				out = append(out, newGoalOutput(g))
			}
			return a.render(out, func() string {
				if len(out) == 0 {
					return ui.Muted.Render("No goals yet. Create one with `ecoctl goals create`.")
				}
				panels := make([]string, len(out))
				for i, g := range out {
					panels[i] = ui.Goal(g.Goal)
				}
				return strings.Join(panels, "\n")
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include completed goals")
	return cmd
}

func (a *app) goalsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <goal-id>",
		Short: "Show a goal with its challenge calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			userID := a.user().ID
			goal, err := svc.GetGoal(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			cal, err := svc.GoalCalendar(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			return a.render(showOutput{Goal: newGoalOutput(*goal), Calendar: cal}, func() string {
				var b strings.Builder
				b.WriteString(ui.Goal(*goal) + "\n")
				b.WriteString(ui.Calendar(cal) + "\n")
				for _, act := range goal.Activities {
					fmt.Fprintf(&b, "  %s  %s %s\n", ui.Muted.Render(act.Date), act.Label, ui.Key.Render(fmt.Sprintf("+%g", act.Impact)))
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}
}

func (a *app) goalTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goal-types",
		Short: "List goal types and their suggested activities",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			types := domain.GoalTypes()
			return a.render(types, func() string {
				var b strings.Builder
				b.WriteString(ui.Heading(ui.IconGoal, "Goal types") + "\n")
				for _, t := range types {
					fmt.Fprintf(&b, "\n%s %s %s\n", ui.Key.Render(string(t.Type)), t.Label, ui.Muted.Render("("+t.Unit+")"))
					for _, act := range t.Activities {
						fmt.Fprintf(&b, "  • %s %s\n", act.Label, ui.Muted.Render(fmt.Sprintf("+%g", act.Impact)))
					}
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}
}
