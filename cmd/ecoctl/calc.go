package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/observability"
	"example.com/ecosangam/internal/ui"
)

type calcOutput struct {
	emissions.Result `yaml:",inline"`
	TotalTons        float64 `json:"totalTons" yaml:"totalTons"`
	Equivalencies    string  `json:"equivalencies,omitempty" yaml:"equivalencies,omitempty"`
	Advice           string  `json:"advice,omitempty" yaml:"advice,omitempty"`
}

func (a *app) calcCmd() *cobra.Command {
	var (
		file   string
		sets   []string
		dryRun bool
		advice bool
	)
	cmd := &cobra.Command{
		Use:   "calc <category>",
		Short: "Estimate emissions for one category and add them to the footprint",
		Long: `Estimate the annual emissions of one category. Inputs are read from a YAML or
JSON file and/or set field by field:

  ecoctl calc car --set mileage=12000 --set efficiency=120
  ecoctl calc food --set beef=50 --set rice=200
  ecoctl calc flights --file trips.yaml

Categories: ` + categoryList(),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, ok := emissions.ParseCategory(args[0])
			if !ok {
				return fmt.Errorf("unknown category %q (want one of %s)", args[0], categoryList())
			}
			in, err := buildInput(category, file, sets)
			if err != nil {
				return err
			}

			result := a.estimator.Estimate(in)
			observability.RecordEstimation(string(category))
			out := calcOutput{Result: result, TotalTons: result.Tons}

			if !dryRun {
				svc, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				fp, err := svc.RecordEstimate(cmd.Context(), a.user().ID, result)
				if err != nil {
					return err
				}
				out.TotalTons = fp.Total()
			}
			out.Equivalencies = emissions.Summary(emissions.Equivalencies(out.TotalTons))

			if advice {
				summary, err := a.advisor().Advice(cmd.Context(), out.TotalTons)
				if err != nil {
					a.logger.Warn().Err(err).Msg("advice unavailable")
				}
				out.Advice = summary
			}

			return a.render(out, func() string {
				lines := []string{
					ui.Heading(ui.IconLeaf, "Estimate"),
					ui.LabelValue("Category", string(result.Category)),
					ui.LabelValue("Emissions", ui.Gold.Render(ui.Tons(result.Tons, result.Precision))),
				}
				if !dryRun {
					lines = append(lines, ui.LabelValue("Footprint", ui.Tons(out.TotalTons, 4)))
				}
				if out.Equivalencies != "" {
					lines = append(lines, ui.Muted.Render(out.Equivalencies))
				}
				if out.Advice != "" {
					lines = append(lines, "", ui.Panel.Render(out.Advice))
				}
				return strings.Join(lines, "\n")
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file holding the category input")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "input field as key=value (repeatable, applied after --file)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "estimate without recording the result")
	cmd.Flags().BoolVar(&advice, "advice", false, "ask Gemini for advice on the resulting footprint")
	return cmd
}

func categoryList() string {
	names := make([]string, len(emissions.Categories))
	for i, c := range emissions.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// buildInput merges file contents and --set overrides, then decodes them through the
// category's JSON form so that the lenient quantity decoding applies.
func buildInput(category emissions.Category, file string, sets []string) (emissions.Input, error) {
	fields := map[string]any{}
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		fields[strings.TrimSpace(key)] = setValue(strings.TrimSpace(value))
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	in, err := emissions.DecodeInput(category, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s input: %w", category, err)
	}
	return in, nil
}

func setValue(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}
