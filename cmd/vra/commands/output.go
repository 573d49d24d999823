package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultIndent = 2

// render writes data in the selected output format. fill populates the
// table for the table format.
func render(cmd *cobra.Command, data interface{}, fill func(*tablewriter.Table)) error {
	out := cmd.OutOrStdout()

	switch format := viper.GetString("output"); format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", strings.Repeat(" ", defaultIndent))

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding data to JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(defaultIndent)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding data to YAML: %w", err)
		}

		return encoder.Close()
	case constants.FormatTable, "":
		table := tablewriter.NewWriter(out)
		fill(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, format)
	}
}

// renderRequest prints the ID of a submitted request.
func renderRequest(cmd *cobra.Command, request *vra.Request, what string) error {
	return render(cmd, request, func(table *tablewriter.Table) {
		table.Header("Request", "Submitted")
		_ = table.Append(request.ID, what)
	})
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func listOptions(cmd *cobra.Command) *vra.ListOptions {
	filter, _ := cmd.Flags().GetString("filter")
	if filter == "" {
		return nil
	}

	return &vra.ListOptions{Filter: filter}
}

func addFilterFlag(cmd *cobra.Command) {
	cmd.Flags().String("filter", "", "OData $filter expression")
}

// parseParameters turns KEY=VALUE pairs into typed request parameters.
func parseParameters(pairs []string, typ string) ([]vra.RequestParameter, error) {
	params := make([]vra.RequestParameter, 0, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidParameter, pair)
		}

		if typ == vra.ParameterTypeInteger {
			_, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", constants.ErrInvalidParameter, pair)
			}
		}

		params = append(params, vra.RequestParameter{Key: key, Type: typ, Value: value})
	}

	return params, nil
}

// requestParameters reads the --param and --int-param flags.
func requestParameters(cmd *cobra.Command) ([]vra.RequestParameter, error) {
	strs, _ := cmd.Flags().GetStringArray("param")
	ints, _ := cmd.Flags().GetStringArray("int-param")

	params, err := parseParameters(strs, vra.ParameterTypeString)
	if err != nil {
		return nil, err
	}

	intParams, err := parseParameters(ints, vra.ParameterTypeInteger)
	if err != nil {
		return nil, err
	}

	return append(params, intParams...), nil
}

func addParameterFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("param", nil, "string parameter as KEY=VALUE (repeatable)")
	cmd.Flags().StringArray("int-param", nil, "integer parameter as KEY=VALUE (repeatable)")
}
