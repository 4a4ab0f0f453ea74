package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
)

type harness struct {
	t  *testing.T
	db string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("GEMINI_API_KEY", "")
	return &harness{t: t, db: filepath.Join(dir, "ecoctl.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	a := newApp()
	defer a.close()
	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--db", h.db))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) runJSON(v any, args ...string) {
	h.t.Helper()
	out, err := h.run(append(args, "-o", "json")...)
	require.NoError(h.t, err, out)
	require.NoError(h.t, json.Unmarshal([]byte(out), v), out)
}

func TestCalcRecordsLatestEstimatePerCategory(t *testing.T) {
	h := newHarness(t)

	var first calcOutput
	h.runJSON(&first, "calc", "car", "--set", "mileage=12000", "--set", "efficiency=120")
	assert.Equal(t, emissions.CategoryCar, first.Category)
	assert.InDelta(t, 1.44, first.Tons, 1e-9)
	assert.InDelta(t, 1.44, first.TotalTons, 1e-9)

	var second calcOutput
	h.runJSON(&second, "calc", "CAR", "--set", "mileage=6000", "--set", "efficiency=120")
	assert.InDelta(t, 0.72, second.TotalTons, 1e-9)

	var fp footprintOutput
	h.runJSON(&fp, "footprint")
	require.Len(t, fp.Results, 1)
	assert.InDelta(t, 0.72, fp.TotalTons, 1e-9)
}

func TestCalcDryRunLeavesFootprintUntouched(t *testing.T) {
	h := newHarness(t)

	var out calcOutput
	h.runJSON(&out, "calc", "car", "--set", "mileage=1000", "--set", "efficiency=100", "--dry-run")
	assert.InDelta(t, 0.1, out.Tons, 1e-9)

	var fp footprintOutput
	h.runJSON(&fp, "footprint")
	assert.Empty(t, fp.Results)
	assert.Zero(t, fp.TotalTons)
}

func TestCalcReadsInputFile(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "car.yaml")
	require.NoError(t, os.WriteFile(file, []byte("mileage: \"10000\"\nefficiency: 150\n"), 0o600))

	var out calcOutput
	h.runJSON(&out, "calc", "car", "--file", file, "--set", "efficiency=100", "--dry-run")
	assert.InDelta(t, 1.0, out.Tons, 1e-9)
}

func TestCalcRejectsBadArguments(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("calc", "boat")
	require.ErrorContains(t, err, "unknown category")

	_, err = h.run("calc", "car", "--set", "mileage")
	require.ErrorContains(t, err, "want key=value")

	_, err = h.run("calc", "car", "-o", "xml")
	require.ErrorContains(t, err, "invalid output format")
}

func TestGoalLifecycle(t *testing.T) {
	h := newHarness(t)

	var created goalOutput
	h.runJSON(&created, "goals", "create", "--type", "lessmeat", "--target", "5", "--days", "3")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, domain.GoalLessMeat, created.Type)
	assert.False(t, created.Completed)

	var logged logOutput
	h.runJSON(&logged, "goals", "log", created.ID, "--activity", "Had a meat-free day")
	assert.True(t, logged.FirstToday)
	assert.True(t, logged.JustCompleted)
	assert.InDelta(t, 5.0, logged.Goal.Progress, 1e-9)
	assert.Equal(t, 1, logged.Goal.Streak)

	var open []goalOutput
	h.runJSON(&open, "goals", "list")
	assert.Empty(t, open)

	var all []goalOutput
	h.runJSON(&all, "goals", "list", "--all")
	require.Len(t, all, 1)

	out, err := h.run("goals", "show", created.ID, "-o", "yaml")
	require.NoError(t, err)
	var shown struct {
		Goal     map[string]any  `yaml:"goal"`
		Calendar domain.Calendar `yaml:"calendar"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, created.ID, shown.Goal["id"])
	require.Len(t, shown.Calendar.Days, 3)
	assert.True(t, shown.Calendar.Days[0].HasActivity)

	var events []map[string]any
	h.runJSON(&events, "events")
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e["type"].(string))
	}
	assert.Equal(t, []string{domain.EventGoalCreated, domain.EventActivityLogged, domain.EventGoalCompleted}, types)
}

func TestGoalErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("goals", "create", "--type", "lessmeat", "--days", "3")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.run("goals", "log", "missing", "--activity", "Walked")
	require.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestTipFallsBackWithoutAPIKey(t *testing.T) {
	h := newHarness(t)

	var out map[string]string
	h.runJSON(&out, "tip")
	assert.NotEmpty(t, out["tip"])
}

func TestGoalTypesTextOutput(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("goal-types")
	require.NoError(t, err)
	assert.Contains(t, out, "lessmeat")
	assert.Contains(t, out, "Had a meat-free day")
}
