package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

const weekScenario = "../scenario/testdata/week.yaml"

func TestSimulateTable(t *testing.T) {
	out, errOut, err := execute(t, "simulate", "-f", weekScenario, "--format", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Date", "Day", "Start", "End", "Class", "Course", "Teacher"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2024-10-28", "Monday", "07:00", "07:45", "math-10a", "MATH", "t1"}, strings.Fields(lines[1]))
	assert.Contains(t, errOut, "3 assignments, 3 occurrences")
}

func TestSimulateCSV(t *testing.T) {
	out, _, err := execute(t, "simulate", "-f", weekScenario, "--format", "csv")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Date,Day,Start,End,Class,Course,Teacher\n"))
	assert.Contains(t, out, "2024-10-30,Wednesday,07:00,07:45,math-10a,MATH,t1")
}

func TestSimulateExhausted(t *testing.T) {
	out, _, err := execute(t, "simulate", "-f", "../scenario/testdata/contended.yaml", "--format", "table")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "after 5 attempts")
	assert.Empty(t, out)
}

func TestSimulateRejectsFormat(t *testing.T) {
	_, _, err := execute(t, "simulate", "-f", weekScenario, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, errOut, err := execute(t, "token", "--user", "u1", "--role", "admin", "--ttl", "10m")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))
	assert.Contains(t, errOut, "expires")
}
