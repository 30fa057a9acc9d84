package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/persistence"
	costingCommands "github.com/andrescamacho/factoryplanner-go/internal/application/costing/commands"
	costingQueries "github.com/andrescamacho/factoryplanner-go/internal/application/costing/queries"
)

// NewCostsCommand creates the costs command
func NewCostsCommand() *cobra.Command {
	var milestones bool
	var top int

	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Run the cost analysis of a catalog",
		Long: `Estimate a cost for every good, recipe and entity of the catalog, store
the result as a snapshot and print the most important items.

Examples:
  factoryplanner costs --catalog base
  factoryplanner costs --catalog base --project main --milestones --top 5
  factoryplanner costs latest --catalog base --type item`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				catalog, err := a.catalog()
				if err != nil {
					return err
				}
				if top == 0 {
					top = a.cfg.Costing.Top
				}

				response, err := a.mediator.Send(a.context(), &costingCommands.ComputeCostsCommand{
					CatalogName:           catalog,
					ProjectName:           projectName,
					OnlyCurrentMilestones: milestones,
					Top:                   top,
				})
				if err != nil {
					return fmt.Errorf("failed to compute costs: %w", err)
				}
				result, ok := response.(*costingCommands.ComputeCostsResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				for _, warning := range result.Warnings {
					fmt.Printf("Warning (%s): %s\n", warning.Severity, warning.Message)
				}
				if !result.Solved {
					fmt.Println("Cost analysis has no solution for this catalog")
					return nil
				}

				fmt.Printf("\nSnapshot:        %s\n", result.SnapshotID)
				fmt.Printf("Estimated total: %s\n\n", result.EstimatedTotal.StringFixed(2))

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "GOODS\tCOST\tFLOW")
				fmt.Fprintln(w, "-----\t----\t----")
				for _, line := range result.Important {
					fmt.Fprintf(w, "%s\t%s\t%s\n", line.Goods, line.Cost.StringFixed(4), line.Flow.StringFixed(4))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&milestones, "milestones", false, "Only price what is accessible right now")
	cmd.Flags().IntVar(&top, "top", 0, "Number of important items to print (default: costing.top)")

	cmd.AddCommand(newCostsLatestCommand())

	return cmd
}

func newCostsLatestCommand() *cobra.Command {
	var milestones bool
	var objectType string

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the latest stored cost snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				catalog, err := a.catalog()
				if err != nil {
					return err
				}

				response, err := a.mediator.Send(a.context(), &costingQueries.LatestCostsQuery{
					CatalogName:           catalog,
					OnlyCurrentMilestones: milestones,
					ObjectType:            objectType,
				})
				if err != nil {
					return fmt.Errorf("failed to read costs: %w", err)
				}
				result, ok := response.(*costingQueries.LatestCostsResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tNAME\tCOST\tFLOW\tWASTE")
				fmt.Fprintln(w, "----\t----\t----\t----\t-----")
				for _, entry := range result.Entries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", entry.ObjectType, entry.ObjectName,
						persistence.FormatCost(entry.Cost), persistence.FormatCost(entry.Flow), persistence.FormatCost(entry.Waste))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&milestones, "milestones", false, "Read the milestone-scoped snapshot")
	cmd.Flags().StringVar(&objectType, "type", "", "Only show one object type (item, fluid, recipe, technology, entity)")

	return cmd
}
