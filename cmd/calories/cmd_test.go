// ABOUTME: Tests for CLI commands and helpers.
// ABOUTME: Runs commands against a sqlite store in a temp directory.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/calories/internal/config"
	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// setupTestCLI isolates config and data in temp directories and returns
// the data directory.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	return t.TempDir()
}

// runCLI executes the root command against the sqlite store in dataDir.
func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--backend", "sqlite", "--data-dir", dataDir}, args...))

	err := Execute()
	resetFlags(rootCmd)
	return out.String(), err
}

// resetFlags restores every flag to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// openTestStore opens the sqlite store the CLI wrote to.
func openTestStore(t *testing.T, dataDir string) storage.Store {
	t.Helper()
	db, err := storage.Open(filepath.Join(dataDir, "calories.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	s := storage.NewSlotStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "calories" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "calories")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	for _, name := range []string{"backend", "data-dir", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s persistent flag", name)
		}
	}
}

func TestKindCmdSubcommands(t *testing.T) {
	for _, parent := range []*cobra.Command{mealCmd, workoutCmd} {
		names := make(map[string]bool)
		for _, cmd := range parent.Commands() {
			names[cmd.Name()] = true
		}
		for _, want := range []string{"add", "list", "rm"} {
			if !names[want] {
				t.Errorf("Expected %s subcommand %q", parent.Name(), want)
			}
		}
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		path []string
		flag string
	}{
		{[]string{"meal", "list"}, "filter"},
		{[]string{"meal", "rm"}, "yes"},
		{[]string{"workout", "list"}, "filter"},
		{[]string{"workout", "rm"}, "yes"},
		{[]string{"reset"}, "yes"},
		{[]string{"list"}, "filter"},
		{[]string{"migrate"}, "to"},
		{[]string{"migrate"}, "dry-run"},
		{[]string{"migrate"}, "force"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, " ")+" --"+tt.flag, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.path)
			if err != nil {
				t.Fatalf("command not found: %v", err)
			}
			if cmd.Flags().Lookup(tt.flag) == nil {
				t.Errorf("Expected --%s flag", tt.flag)
			}
		})
	}
}

func TestMealAddCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	out, err := runCLI(t, dataDir, "meal", "add", "Chicken salad", "450")
	if err != nil {
		t.Fatalf("meal add failed: %v", err)
	}
	if !strings.Contains(out, "Chicken salad") {
		t.Errorf("output missing item name:\n%s", out)
	}

	s := openTestStore(t, dataDir)
	meals, _ := s.GetMeals()
	if len(meals) != 1 {
		t.Fatalf("Expected 1 meal, got %d", len(meals))
	}
	if meals[0].Name != "Chicken salad" || meals[0].Calories != 450 {
		t.Errorf("unexpected meal: %+v", meals[0])
	}
	total, _ := s.GetTotalCalories()
	if total != 450 {
		t.Errorf("total = %v, want 450", total)
	}
}

func TestAddCmdJoinsName(t *testing.T) {
	dataDir := setupTestCLI(t)

	if _, err := runCLI(t, dataDir, "workout", "add", "Morning", "bike", "ride", "320.5"); err != nil {
		t.Fatalf("workout add failed: %v", err)
	}

	s := openTestStore(t, dataDir)
	workouts, _ := s.GetWorkouts()
	if len(workouts) != 1 || workouts[0].Name != "Morning bike ride" {
		t.Fatalf("unexpected workouts: %+v", workouts)
	}
	total, _ := s.GetTotalCalories()
	if total != -320.5 {
		t.Errorf("total = %v, want -320.5", total)
	}
}

func TestAddCmdInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric", []string{"meal", "add", "Soup", "abc"}},
		{"zero", []string{"meal", "add", "Soup", "0"}},
		{"negative", []string{"workout", "add", "Run", "--", "-100"}},
		{"blank name", []string{"meal", "add", "  ", "100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := setupTestCLI(t)

			_, err := runCLI(t, dataDir, tt.args...)
			if !errors.Is(err, models.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}

			s := openTestStore(t, dataDir)
			total, _ := s.GetTotalCalories()
			meals, _ := s.GetMeals()
			workouts, _ := s.GetWorkouts()
			if total != 0 || len(meals) != 0 || len(workouts) != 0 {
				t.Errorf("store changed after rejected add: total=%v meals=%d workouts=%d",
					total, len(meals), len(workouts))
			}
		})
	}
}

func TestRemoveCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if _, err := runCLI(t, dataDir, "meal", "add", "Pizza", "900"); err != nil {
		t.Fatalf("meal add failed: %v", err)
	}
	if _, err := runCLI(t, dataDir, "meal", "add", "Salad", "300"); err != nil {
		t.Fatalf("meal add failed: %v", err)
	}

	db, err := storage.Open(filepath.Join(dataDir, "calories.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	meals, _ := storage.NewSlotStore(db).GetMeals()
	db.Close()
	pizza := meals[0]

	if _, err := runCLI(t, dataDir, "meal", "rm", pizza.ShortID(), "--yes"); err != nil {
		t.Fatalf("meal rm failed: %v", err)
	}

	s := openTestStore(t, dataDir)
	meals, _ = s.GetMeals()
	if len(meals) != 1 || meals[0].Name != "Salad" {
		t.Errorf("unexpected meals after rm: %+v", meals)
	}
	total, _ := s.GetTotalCalories()
	if total != 300 {
		t.Errorf("total = %v, want 300", total)
	}
}

func TestRemoveCmdNotFound(t *testing.T) {
	dataDir := setupTestCLI(t)

	_, err := runCLI(t, dataDir, "workout", "rm", "deadbeef", "--yes")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLimitCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	out, err := runCLI(t, dataDir, "limit")
	if err != nil {
		t.Fatalf("limit failed: %v", err)
	}
	if !strings.Contains(out, "2200 kcal") {
		t.Errorf("expected default limit in output:\n%s", out)
	}

	if _, err := runCLI(t, dataDir, "limit", "1800"); err != nil {
		t.Fatalf("limit 1800 failed: %v", err)
	}
	if _, err := runCLI(t, dataDir, "limit", "0"); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("expected ErrInvalid for zero limit, got %v", err)
	}

	s := openTestStore(t, dataDir)
	limit, _ := s.GetCalorieLimit()
	if limit != 1800 {
		t.Errorf("limit = %v, want 1800", limit)
	}
}

func TestResetCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	for _, args := range [][]string{
		{"limit", "1500"},
		{"meal", "add", "Burger", "800"},
		{"workout", "add", "Swim", "400"},
		{"reset", "--yes"},
	} {
		if _, err := runCLI(t, dataDir, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	s := openTestStore(t, dataDir)
	total, _ := s.GetTotalCalories()
	meals, _ := s.GetMeals()
	workouts, _ := s.GetWorkouts()
	limit, _ := s.GetCalorieLimit()
	if total != 0 || len(meals) != 0 || len(workouts) != 0 {
		t.Errorf("reset left data: total=%v meals=%d workouts=%d", total, len(meals), len(workouts))
	}
	if limit != 1500 {
		t.Errorf("limit = %v, want 1500 preserved", limit)
	}
}

func TestListCmdFilter(t *testing.T) {
	dataDir := setupTestCLI(t)

	for _, args := range [][]string{
		{"meal", "add", "Chicken salad", "400"},
		{"meal", "add", "Pizza", "900"},
		{"workout", "add", "Salsa dancing", "250"},
	} {
		if _, err := runCLI(t, dataDir, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	out, err := runCLI(t, dataDir, "list", "--filter", "SAL")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Chicken salad") || !strings.Contains(out, "Salsa dancing") {
		t.Errorf("missing filtered items:\n%s", out)
	}
	if strings.Contains(out, "Pizza") {
		t.Errorf("Pizza should be filtered out:\n%s", out)
	}

	out, err = runCLI(t, dataDir, "list", "--filter", "sushi")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No items found.") {
		t.Errorf("expected empty message:\n%s", out)
	}

	out, err = runCLI(t, dataDir, "meal", "list")
	if err != nil {
		t.Fatalf("meal list failed: %v", err)
	}
	if !strings.Contains(out, "Pizza") || strings.Contains(out, "Salsa") {
		t.Errorf("meal list should show only meals:\n%s", out)
	}
}

func TestStatusCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if _, err := runCLI(t, dataDir, "meal", "add", "Lunch", "700"); err != nil {
		t.Fatalf("meal add failed: %v", err)
	}

	out, err := runCLI(t, dataDir)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"Daily Limit", "2200", "700", "1500"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownBackend(t *testing.T) {
	dataDir := setupTestCLI(t)

	rootCmd.SetArgs([]string{"--backend", "floppy", "--data-dir", dataDir, "status"})
	err := Execute()
	resetFlags(rootCmd)
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestMigrateCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	for _, args := range [][]string{
		{"limit", "1900"},
		{"meal", "add", "Bagel", "300"},
		{"workout", "add", "Walk", "100"},
	} {
		if _, err := runCLI(t, dataDir, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	badgerDir := filepath.Join(dataDir, "badger")

	out, err := runCLI(t, dataDir, "migrate", "--to", "badger", "--dry-run")
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !strings.HasPrefix(out, "\n  sqlite -> badger\n") {
		t.Errorf("dry run output should open with a blank line and the route:\n%q", out)
	}
	if !strings.Contains(out, "meals:    1") {
		t.Errorf("dry run summary missing counts:\n%s", out)
	}
	if _, err := os.Stat(badgerDir); !os.IsNotExist(err) {
		t.Error("dry run must not create the destination")
	}

	if _, err := runCLI(t, dataDir, "migrate", "--to", "badger"); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	if _, err := runCLI(t, dataDir, "migrate", "--to", "badger"); err == nil {
		t.Error("expected refusal to overwrite a non-empty destination")
	}

	kv, err := storage.OpenBadger(badgerDir)
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	dst := storage.NewSlotStore(kv)
	defer dst.Close()

	summary, err := storage.Summarize(dst)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	want := storage.MigrateSummary{CalorieLimit: 1900, TotalCalories: 200, Meals: 1, Workouts: 1}
	if *summary != want {
		t.Errorf("badger summary = %+v, want %+v", *summary, want)
	}
}

func TestMigrateCmdRejectsTargets(t *testing.T) {
	dataDir := setupTestCLI(t)
	if _, err := runCLI(t, dataDir, "meal", "add", "Soup", "250"); err != nil {
		t.Fatalf("meal add failed: %v", err)
	}

	tests := []struct {
		to      string
		wantErr string
	}{
		{"sqlite", "both sqlite"},
		{"SQLite", "both sqlite"},
		{" Sqlite ", "both sqlite"},
		{"memory", "cannot be a migration target"},
		{"MEMORY", "cannot be a migration target"},
		{"floppy", "unknown destination backend"},
	}
	for _, tt := range tests {
		_, err := runCLI(t, dataDir, "migrate", "--to", tt.to, "--force")
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("migrate --to %q: error = %v, want containing %q", tt.to, err, tt.wantErr)
		}
	}

	s := openTestStore(t, dataDir)
	meals, _ := s.GetMeals()
	total, _ := s.GetTotalCalories()
	if len(meals) != 1 || total != 250 {
		t.Errorf("source changed by rejected migrations: meals=%d total=%v", len(meals), total)
	}
}

func TestDestinationExists(t *testing.T) {
	dataDir := t.TempDir()

	for _, backend := range []string{config.BackendSQLite, config.BackendBadger, config.BackendCharm} {
		got, err := destinationExists(&config.Config{Backend: backend, DataDir: dataDir})
		if err != nil || got {
			t.Errorf("%s: destinationExists = %v, %v; want false", backend, got, err)
		}
	}

	if err := os.WriteFile(filepath.Join(dataDir, "calories.db"), []byte{}, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "badger"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "badger", "MANIFEST"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	for _, backend := range []string{config.BackendSQLite, config.BackendBadger} {
		got, err := destinationExists(&config.Config{Backend: backend, DataDir: dataDir})
		if err != nil || !got {
			t.Errorf("%s: destinationExists = %v, %v; want true", backend, got, err)
		}
	}
}

func TestSyncCmdRequiresCharm(t *testing.T) {
	dataDir := setupTestCLI(t)

	_, err := runCLI(t, dataDir, "sync")
	if err == nil || !strings.Contains(err.Error(), "charm") {
		t.Errorf("expected charm backend error, got %v", err)
	}
}
