package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescent-ops/lineup/internal/board"
)

const testSetupYAML = `
date: "2026-08-29"
shift: "1st"
lines:
  - letter: A
    leads: [Lead One]
    needed: 2
`

const testRosterJSON = `{
  "1000001": {"employeeNumber": "1000001", "firstName": "alice", "lastName": "smith", "status": "Active"},
  "1000002": {"employeeNumber": "1000002", "firstName": "bob", "lastName": "jones", "status": "Active"}
}`

// runCLI executes the root command against a shared data dir and returns
// combined output.
func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, "--data-dir", dataDir, "--date", "2026-08-29", "--shift", "1st"))
	err := cmd.Execute()
	return buf.String(), err
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func boardSnapshot(t *testing.T, dataDir string) board.Snapshot {
	t.Helper()
	out, err := runCLI(t, dataDir, "board", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Status string         `json:"status"`
		Data   board.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestCLI_SetupThenBoard(t *testing.T) {
	dir := t.TempDir()
	setupPath := writeFixture(t, dir, "setup.yaml", testSetupYAML)

	out, err := runCLI(t, dir, "setup", setupPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Board created for 2026-08-29 1st shift: 1 lines")

	out, err = runCLI(t, dir, "board")
	require.NoError(t, err)
	assert.Contains(t, out, "Line A  [0/2]")
	assert.Contains(t, out, "leads: Lead One")
	assert.Contains(t, out, "Waitlist (0)")
}

func TestCLI_ScanFlow(t *testing.T) {
	dir := t.TempDir()
	setupPath := writeFixture(t, dir, "setup.yaml", testSetupYAML)
	rosterPath := writeFixture(t, dir, "roster.json", testRosterJSON)

	_, err := runCLI(t, dir, "setup", setupPath)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "scan", "PLX-1000001-ABC", "--roster", rosterPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[added]")
	assert.Contains(t, out, "Alice Smith (1000001) - Welcome back!")
	assert.Contains(t, out, "Added to waitlist")

	// Same badge again: the waitlist entry survived the first invocation.
	out, err = runCLI(t, dir, "scan", "PLX-1000001-ABC", "--roster", rosterPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[duplicate]")
	assert.Contains(t, out, "You are on the waitlist")

	snap := boardSnapshot(t, dir)
	require.Len(t, snap.Waitlist, 1)
	assert.Equal(t, "1000001", snap.Waitlist[0].EmployeeNumber)

	// Both audited outcomes: one added entry.
	out, err = runCLI(t, dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "added")
	assert.Contains(t, out, "1000001")
	assert.Contains(t, out, "Alice Smith")
}

func TestCLI_ScanInvalidAndUnknown(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFixture(t, dir, "roster.json", testRosterJSON)

	out, err := runCLI(t, dir, "scan", "ab", "--roster", rosterPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[invalid]")
	assert.Contains(t, out, "Invalid badge format")

	out, err = runCLI(t, dir, "scan", "PLX-9999999-ABC", "--roster", rosterPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[unknown]")
	assert.Contains(t, out, "Welcome to Crescent!")
}

func TestCLI_MoveWaitlistToPosition(t *testing.T) {
	dir := t.TempDir()
	setupPath := writeFixture(t, dir, "setup.yaml", testSetupYAML)
	rosterPath := writeFixture(t, dir, "roster.json", testRosterJSON)

	_, err := runCLI(t, dir, "setup", setupPath)
	require.NoError(t, err)
	_, err = runCLI(t, dir, "scan", "1000001", "--roster", rosterPath)
	require.NoError(t, err)

	snap := boardSnapshot(t, dir)
	require.Len(t, snap.Waitlist, 1)
	require.Len(t, snap.Lines, 1)
	src := "w:" + snap.Waitlist[0].ID
	dst := "p:" + snap.Lines[0].ID + ":" + snap.Lines[0].Positions[0].ID

	out, err := runCLI(t, dir, "move", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Moved.")

	snap = boardSnapshot(t, dir)
	assert.Empty(t, snap.Waitlist)
	assert.Equal(t, "Alice Smith", snap.Lines[0].Positions[0].Name)
}

func TestCLI_MoveRejected(t *testing.T) {
	dir := t.TempDir()
	setupPath := writeFixture(t, dir, "setup.yaml", testSetupYAML)
	_, err := runCLI(t, dir, "setup", setupPath)
	require.NoError(t, err)

	snap := boardSnapshot(t, dir)
	src := "p:" + snap.Lines[0].ID + ":" + snap.Lines[0].Positions[0].ID

	// Vacant source: the engine rejects and the CLI maps it to ExitFailure.
	_, err = runCLI(t, dir, "move", src, "waitlist")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = runCLI(t, dir, "move", "bogus", "waitlist")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCLI_LockBlocksScans(t *testing.T) {
	dir := t.TempDir()
	setupPath := writeFixture(t, dir, "setup.yaml", testSetupYAML)
	rosterPath := writeFixture(t, dir, "roster.json", testRosterJSON)

	_, err := runCLI(t, dir, "setup", setupPath)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "lock")
	require.NoError(t, err)
	assert.Contains(t, out, "Board locked")

	out, err = runCLI(t, dir, "scan", "1000001", "--roster", rosterPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Scanning is unavailable right now")

	_, err = runCLI(t, dir, "unlock")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "scan", "1000001", "--roster", rosterPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[added]")
}

func TestCLI_ScanListen(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFixture(t, dir, "roster.json", testRosterJSON)

	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader("PLX-1000001-ABC\nshort\n1000002\n"))
	cmd.SetArgs([]string{"scan", "--listen", "--roster", rosterPath,
		"--data-dir", dir, "--date", "2026-08-29", "--shift", "1st"})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Alice Smith")
	assert.Contains(t, out, "Bob Jones")
	// "short" is under the wedge minimum and never reaches the pipeline.
	assert.NotContains(t, out, "[invalid]")
}

func TestCLI_AssignmentsDriveScanMessage(t *testing.T) {
	dir := t.TempDir()
	setupPath := writeFixture(t, dir, "setup.yaml", testSetupYAML)
	rosterPath := writeFixture(t, dir, "roster.json", testRosterJSON)

	_, err := runCLI(t, dir, "setup", setupPath)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "assignments", "set", "1000002",
		"--first", "Bob", "--last", "Jones", "--line", "A", "--lead", "Lead One")
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned 1000002 to Line A.")

	out, err = runCLI(t, dir, "assignments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1000002")
	assert.Contains(t, out, "Bob Jones")

	out, err = runCLI(t, dir, "scan", "1000002", "--roster", rosterPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned to: Line A")
	assert.Contains(t, out, "[Pre-assigned for today's shift]")

	out, err = runCLI(t, dir, "assignments", "remove", "1000002")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed assignment for 1000002.")

	out, err = runCLI(t, dir, "assignments", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Bob Jones")
}
