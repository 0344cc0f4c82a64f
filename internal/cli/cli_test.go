package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a private config directory
func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCommandsAgainstLocalDatabase(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "project", "new", "Invoice SaaS", "--start", "2026-06-01", "--weeks", "6")
	assert.Contains(t, out, "Created project: Invoice SaaS")
	assert.Contains(t, out, "6 sprints")

	run(t, dir, "task", "add", "Stripe webhooks", "-p", "high", "--hours", "3")
	run(t, dir, "task", "add", "Landing page", "--category", "Marketing")

	out = run(t, dir, "task", "list")
	assert.Contains(t, out, "Stripe webhooks")
	assert.Contains(t, out, "Landing page")

	out = run(t, dir, "stats")
	assert.Contains(t, out, "0/2 completed")

	exportDir := filepath.Join(dir, "exports")
	out = run(t, dir, "export", "--kind", "tasks", "--format", "csv", "--out", exportDir)
	assert.Contains(t, out, "Exported tasks")
	files, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0].Name(), "Invoice_SaaS_tasks_"), files[0].Name())

	out = run(t, dir, "reset", "--force")
	assert.Contains(t, out, "All data cleared.")

	out = run(t, dir, "project", "list")
	assert.Contains(t, out, "No projects found")
}

func TestFindProjectByPrefixOrName(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "project", "new", "Alpha", "--start", "2026-06-01")
	run(t, dir, "project", "new", "Beta", "--start", "2026-06-01")

	out := run(t, dir, "project", "use", "beta")
	assert.Contains(t, out, "Switched to: Beta")
}
