package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func subcommandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	return names
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand("dev", "none", "unknown")
	assert.Equal(t, "vra", cmd.Use)
	assert.ElementsMatch(t,
		[]string{"version", "config", "login", "catalog", "deployments", "requests", "resources"},
		subcommandNames(cmd))

	for name := range flagKeys {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestNewCatalogCommand(t *testing.T) {
	cmd := NewCatalogCommand()
	assert.Equal(t, []string{"cat"}, cmd.Aliases)
	assert.ElementsMatch(t, []string{"items", "item", "request", "deploy", "sources", "types"}, subcommandNames(cmd))

	items := findSubcommand(cmd, "items")
	require.NotNil(t, items)
	assert.NotNil(t, items.Flags().Lookup("entitled"))
	assert.NotNil(t, items.Flags().Lookup("filter"))

	sources := findSubcommand(cmd, "sources")
	require.NotNil(t, sources)
	assert.ElementsMatch(t, []string{"list", "get", "create", "entitle"}, subcommandNames(sources))

	types := findSubcommand(cmd, "types")
	require.NotNil(t, types)
	assert.ElementsMatch(t, []string{"list", "get"}, subcommandNames(types))

	deploy := findSubcommand(cmd, "deploy")
	require.NotNil(t, deploy)

	for _, flag := range []string{"name", "project", "version", "image", "flavor", "count", "reason", "param", "int-param"} {
		assert.NotNil(t, deploy.Flags().Lookup(flag), flag)
	}
}

func TestNewDeploymentsCommand(t *testing.T) {
	cmd := NewDeploymentsCommand()
	assert.Equal(t, []string{"deployment", "dep"}, cmd.Aliases)
	assert.ElementsMatch(t,
		[]string{"list", "get", "actions", "resources", "requests", "power-on", "power-off", "destroy"},
		subcommandNames(cmd))

	powerOff := findSubcommand(cmd, "power-off")
	require.NotNil(t, powerOff)
	assert.Equal(t, "power-off DEPLOYMENT_ID", powerOff.Use)
	assert.NotNil(t, powerOff.Flags().Lookup("reason"))
	assert.NotNil(t, powerOff.Args)
}

func TestNewRequestsAndResourcesCommands(t *testing.T) {
	assert.ElementsMatch(t, []string{"list", "get", "resources"}, subcommandNames(NewRequestsCommand()))
	assert.ElementsMatch(t, []string{"list", "get", "destroy"}, subcommandNames(NewResourcesCommand()))
}

func TestParseParameters(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		typ     string
		want    []string
		wantErr bool
	}{
		{name: "strings", pairs: []string{"a=1", "b=x=y"}, typ: "string", want: []string{"a", "b"}},
		{name: "integers", pairs: []string{"count=3"}, typ: "integer", want: []string{"count"}},
		{name: "missing separator", pairs: []string{"novalue"}, typ: "string", wantErr: true},
		{name: "empty key", pairs: []string{"=x"}, typ: "string", wantErr: true},
		{name: "not an integer", pairs: []string{"count=three"}, typ: "integer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := parseParameters(tt.pairs, tt.typ)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			keys := make([]string, 0, len(params))
			for _, p := range params {
				keys = append(keys, p.Key)
				assert.Equal(t, tt.typ, p.Type)
			}

			assert.Equal(t, tt.want, keys)
		})
	}

	params, err := parseParameters([]string{"b=x=y"}, "string")
	require.NoError(t, err)
	assert.Equal(t, "x=y", params[0].Value)
}
