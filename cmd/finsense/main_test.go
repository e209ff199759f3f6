package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finsense/internal/api"
	"github.com/Veraticus/finsense/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against dbPath and returns its output.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func testDBPath(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return filepath.Join(t.TempDir(), "finsense.db")
}

func TestReviewWorkflowCommands(t *testing.T) {
	db := testDBPath(t)

	out, err := execute(t, db, "demo", "load", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 8 demo transactions")

	out, err = execute(t, db, "approve", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Approved Amazon Business")

	out, err = execute(t, db, "recategorize", "3", "Office Supplies")
	require.NoError(t, err)
	assert.Contains(t, out, "Office Supplies")

	_, err = execute(t, db, "complete")
	require.ErrorIs(t, err, common.ErrReviewIncomplete)

	_, err = execute(t, db, "approve", "4", "5")
	require.NoError(t, err)

	out, err = execute(t, db, "complete")
	require.NoError(t, err)
	assert.Contains(t, out, "All set")

	out, err = execute(t, db, "list", "--json", "--status", "auto-approved")
	require.NoError(t, err)
	var listed []api.TransactionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 7)

	out, err = execute(t, db, "history", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "recategorize")

	out, err = execute(t, db, "reset", "--all", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset 8 transactions")

	out, err = execute(t, db, "checkpoint", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "auto")

	out, err = execute(t, db, "flags", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "review_completed: true")
}

func TestResetRequiresTarget(t *testing.T) {
	db := testDBPath(t)

	_, err := execute(t, db, "reset", "1", "--all")
	assert.ErrorContains(t, err, "pass a transaction id or --all")
}

func TestIngestCommand(t *testing.T) {
	db := testDBPath(t)

	file := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"date": "2025-01-15", "vendor": "Sysco", "amount": "450.00",
		 "category": "Inventory - Food & Supplies", "confidence": 0.95, "explanation": "regular distributor"},
		{"date": "2025-01-14", "vendor": "Uber", "amount": "65.00",
		 "category": "Travel", "confidence": 0.72, "explanation": "unusual fare"}
	]`), 0600))

	out, err := execute(t, db, "ingest", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 2 transactions")
}

func TestReadIngestFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		want    int
	}{
		{name: "valid", input: `[{"date": "2025-01-15", "vendor": "Sysco", "amount": "1", "category": "Rent", "confidence": 1}]`, want: 1},
		{name: "empty", input: `[]`, want: 0},
		{name: "bad date", input: `[{"date": "15/01/2025", "vendor": "Sysco"}]`, wantErr: "transaction 1"},
		{name: "unknown field", input: `[{"date": "2025-01-15", "merchant": "Sysco"}]`, wantErr: "merchant"},
		{name: "not json", input: `nope`, wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := readIngestFile(strings.NewReader(tt.input), "-")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, batch, tt.want)
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.5 KB", formatFileSize(1536))
	assert.Equal(t, "2.0 MB", formatFileSize(2*1024*1024))

	assert.Equal(t, "just now", formatRelativeTime(time.Now()))
	assert.Equal(t, "5 minutes ago", formatRelativeTime(time.Now().Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "1 hour ago", formatRelativeTime(time.Now().Add(-61*time.Minute)))
	assert.Equal(t, "yesterday", formatRelativeTime(time.Now().Add(-25*time.Hour)))

	old := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-03-01 09:30", formatRelativeTime(old))
}
