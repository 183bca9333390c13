package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintboard/internal/boards"
	"sprintboard/internal/models"
)

func TestWithCORSAllowsAnyOriginByDefault(t *testing.T) {
	h := withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("Origin", "https://board.example.edu")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWithCORSRestrictsOrigins(t *testing.T) {
	h := withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), []string{"https://board.example.edu"})

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://board.example.edu")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://board.example.edu", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSweepCommandWritesReport(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "out", "sweep.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(report), 0o755))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"sweep", "--db", filepath.Join(dir, "board.db"), "--report", report})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		dbPath, reportPath = "", ""
	})

	require.NoError(t, rootCmd.Execute(), stderr.String())

	var printed boards.SweepReport
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &printed))
	assert.Empty(t, printed.Boards)

	written, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(written))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		dbPath, reportPath, activateOnImport = "", "", false
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestVacationCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "board.db")
	file := filepath.Join(dir, "holidays.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"school_year": "2024/2025", "vacation_dates": ["2024-12-23", "2024-12-24"]}`), 0o644))

	out, err := execute(t, "vacation", "import", file, "--db", db, "--activate=false")
	require.NoError(t, err)
	var first models.Vacation
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, models.VacationInactive, first.Status)
	assert.Len(t, first.VacationDates, 2)

	out, err = execute(t, "vacation", "import", file, "--db", db, "--activate")
	require.NoError(t, err)
	var second models.Vacation
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Equal(t, models.VacationActive, second.Status)

	out, err = execute(t, "vacation", "activate", strconv.FormatInt(first.ID, 10), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "active"`)

	out, err = execute(t, "vacation", "list", "--db", db)
	require.NoError(t, err)
	var list []models.Vacation
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, models.VacationInactive, list[0].Status)
	assert.Equal(t, models.VacationActive, list[1].Status)

	_, err = execute(t, "vacation", "activate", "abc", "--db", db)
	require.Error(t, err)
}

func TestVacationImportRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"school_year": "2024/2025", "vacation_dates": ["23.12.2024"]}`), 0o644))

	_, err := execute(t, "vacation", "import", file, "--db", filepath.Join(dir, "board.db"))
	require.Error(t, err)
}
