package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommandTree verifies the CLI command hierarchy is correct.
func TestCommandTree(t *testing.T) {
	expected := []string{
		"connect",
		"history",
		"list",
		"refresh",
		"search",
		"update",
		"version",
	}

	var got []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			continue
		}
		got = append(got, cmd.Name())
	}
	slices.Sort(got)
	assert.Equal(t, expected, got)
}

// TestCommandsHaveRequiredMetadata verifies every command has Use and Short set.
func TestCommandsHaveRequiredMetadata(t *testing.T) {
	var walk func(cmd *cobra.Command, path string)
	walk = func(cmd *cobra.Command, path string) {
		if cmd.Use == "" {
			t.Errorf("%s: Use field is empty", path)
		}
		if cmd.Short == "" {
			t.Errorf("%s: Short field is empty", path)
		}
		for _, child := range cmd.Commands() {
			walk(child, path+"/"+child.Name())
		}
	}
	for _, cmd := range rootCmd.Commands() {
		walk(cmd, "wallix-ssh/"+cmd.Name())
	}
}

func TestRootAcceptsOptionalSearchTerm(t *testing.T) {
	require.NoError(t, rootCmd.Args(rootCmd, nil))
	require.NoError(t, rootCmd.Args(rootCmd, []string{"web"}))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"web", "extra"}))
}

func TestSessionFlagsRegistered(t *testing.T) {
	for _, name := range []string{"search", "connect", "history"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.NotNil(t, cmd.Flags().Lookup("interactive"), "%s missing --interactive", name)
		assert.NotNil(t, cmd.Flags().Lookup("no-deploy"), "%s missing --no-deploy", name)
	}
}

func TestFilterFlagsRegistered(t *testing.T) {
	for _, name := range []string{"list", "search"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		for _, flag := range []string{"filter", "services", "tags", "force-refresh"} {
			assert.NotNil(t, cmd.Flags().Lookup(flag), "%s missing --%s", name, flag)
		}
	}
}

func TestBuildCriteria(t *testing.T) {
	t.Cleanup(func() {
		flagFilter, flagServices, flagTags = "", "", ""
	})

	flagFilter = `^web-`
	flagServices = "ssh,rdp"
	flagTags = "env:prod"

	criteria, err := buildCriteria("  web  ")
	require.NoError(t, err)
	assert.Equal(t, "web", criteria.Term)
	assert.Equal(t, `^web-`, criteria.Pattern)
	assert.Equal(t, []string{"SSH", "RDP"}, criteria.Services)
	assert.Equal(t, map[string]string{"env": "prod"}, criteria.Tags)
}

func TestBuildCriteriaRejectsBadTags(t *testing.T) {
	t.Cleanup(func() { flagTags = "" })

	flagTags = "envprod"
	_, err := buildCriteria("")
	assert.Error(t, err)
}

func TestBuildCriteriaEmptyIsZero(t *testing.T) {
	criteria, err := buildCriteria("")
	require.NoError(t, err)
	assert.True(t, criteria.IsZero())
}
