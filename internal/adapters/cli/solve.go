package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	productionCommands "github.com/andrescamacho/factoryplanner-go/internal/application/production/commands"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// NewSolveCommand creates the solve command
func NewSolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "solve <page>",
		Short: "Solve a production page",
		Long: `Refresh the cost analysis, solve the page and print the row rates,
the warnings raised on rows and the net flow of the page.

Example:
  factoryplanner solve smelting --catalog base --project main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				catalog, err := a.catalog()
				if err != nil {
					return err
				}
				project, err := a.project()
				if err != nil {
					return err
				}

				response, err := a.mediator.Send(a.context(), &productionCommands.SolvePageCommand{
					CatalogName: catalog,
					ProjectName: project,
					PageName:    args[0],
				})
				if err != nil {
					return fmt.Errorf("failed to solve page: %w", err)
				}
				result, ok := response.(*productionCommands.SolvePageResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				for _, warning := range result.Warnings {
					fmt.Printf("Warning (%s): %s\n", warning.Severity, warning.Message)
				}
				if result.Message != "" {
					fmt.Printf("Solver: %s\n", result.Message)
				}

				fmt.Printf("\n=== Page %s ===\n", result.Page.Name())
				if err := printRows(os.Stdout, result.Page.Content()); err != nil {
					return err
				}
				fmt.Println()
				return printFlow(os.Stdout, result.Page.Content())
			})
		},
	}
}

func printRows(out io.Writer, table *production.ProductionTable) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECIPE\tENTITY\tRECIPES/S\tBUILDINGS\tWARNINGS")
	fmt.Fprintln(w, "------\t------\t---------\t---------\t--------")
	writeRows(w, table, 0)
	return w.Flush()
}

func writeRows(w io.Writer, table *production.ProductionTable, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, row := range table.Rows() {
		entity := "-"
		if row.Entity() != nil {
			entity = row.Entity().Name()
		}
		status := row.Parameters().WarningFlags.String()
		if !row.Enabled() {
			status = "disabled"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%.4f\t%.2f\t%s\n",
			indent, row.Recipe().Name(), entity, row.RecipesPerSecond(), row.BuildingCount(), status)
		if subgroup := row.Subgroup(); subgroup != nil {
			writeRows(w, subgroup, depth+1)
		}
	}
}

func printFlow(out io.Writer, table *production.ProductionTable) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GOODS\tAMOUNT/S\tLINK")
	fmt.Fprintln(w, "-----\t--------\t----")
	for _, entry := range table.Flow() {
		link := "-"
		if entry.Link != nil {
			link = linkStatus(entry.Link)
		}
		fmt.Fprintf(w, "%s\t%+.4f\t%s\n", entry.Goods, entry.Amount, link)
	}
	return w.Flush()
}

func linkStatus(link *production.ProductionLink) string {
	flags := link.Flags()
	switch {
	case link.State().Diagnosis() != production.DiagnosisNone:
		return strings.ToLower(string(link.State().Diagnosis()))
	case flags.Has(production.LinkNotMatched):
		return "not matched"
	case flags.Has(production.LinkChildNotMatched):
		return "child not matched"
	default:
		return "matched"
	}
}
