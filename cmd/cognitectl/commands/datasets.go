package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cognitedata-community/cognite-sdk-go/resources"
)

// NewDataSetsCommand creates the datasets command group, demonstrating
// the pagination orchestrator (C6) end to end against a real project.
func NewDataSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"dataset", "ds"},
		Short:   "List and inspect CDF data sets",
	}

	cmd.AddCommand(newDataSetsListCommand())

	return cmd
}

func newDataSetsListCommand() *cobra.Command {
	var (
		name        string
		partitions  int
		pageSizeArg int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List data sets, paging through all results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := createClient("cognitectl")
			if err != nil {
				return err
			}

			ds := resources.NewDataSets(client).WithPageSize(pageSizeArg)
			ctx := context.Background()
			filter := resources.DataSetFilter{Name: name}

			var items []resources.DataSet

			if partitions > 1 {
				items, err = ds.FilterAllPartitioned(ctx, filter, partitions)
			} else {
				items, err = ds.FilterAll(ctx, filter)
			}

			if err != nil {
				return fmt.Errorf("listing data sets: %w", err)
			}

			return renderDataSets(cmd, items)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by exact name")
	cmd.Flags().IntVar(&partitions, "partitions", 1, "number of concurrent partitions to read")
	cmd.Flags().IntVar(&pageSizeArg, "page-size", 100, "items requested per page")

	return cmd
}

func renderDataSets(cmd *cobra.Command, items []resources.DataSet) error {
	switch viper.GetString("output") {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(items)
	case "yaml":
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(items)
	default:
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No data sets found")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "External ID", "Name", "Write Protected")

		for _, item := range items {
			table.Append(fmt.Sprintf("%d", item.ID), item.ExternalID, item.Name, fmt.Sprintf("%t", item.WriteProtected))
		}

		table.Render()

		return nil
	}
}
