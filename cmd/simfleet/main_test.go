package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("SIMFLEET_STORE_DRIVER", "memory")
	t.Setenv("SIMFLEET_SERVER_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "run", "migrate"}, names)
}

func TestMigrateCommand_RequiresPostgres(t *testing.T) {
	_, err := executeRoot(t, "migrate", "status")
	require.ErrorIs(t, err, ErrMigrationsUnsupported)
}

func TestMigrateCommand_RejectsUnknownAction(t *testing.T) {
	_, err := executeRoot(t, "migrate", "sideways")
	assert.Error(t, err)
}

func TestRunCommand_EmptyFleet(t *testing.T) {
	_, err := executeRoot(t, "run")
	assert.ErrorContains(t, err, "no accounts")
}
