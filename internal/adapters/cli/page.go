package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	productionCommands "github.com/andrescamacho/factoryplanner-go/internal/application/production/commands"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// NewPageCommand creates the page command with subcommands
func NewPageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Manage production pages",
		Long: `Import production pages into a project. A page file is a JSON document
with a name and a nested table of rows and links.

Examples:
  factoryplanner page import smelting.json --catalog base --project main`,
	}

	cmd.AddCommand(newPageImportCommand())

	return cmd
}

func newPageImportCommand() *cobra.Command {
	var pageName string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a page, replacing any page with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec production.PageSpec
			if err := readJSONFile(args[0], &spec); err != nil {
				return err
			}
			if pageName != "" {
				spec.Name = pageName
			}

			return withApp(func(a *app) error {
				catalog, err := a.catalog()
				if err != nil {
					return err
				}
				project, err := a.project()
				if err != nil {
					return err
				}

				response, err := a.mediator.Send(a.context(), &productionCommands.ImportPageCommand{
					CatalogName: catalog,
					ProjectName: project,
					Page:        spec,
				})
				if err != nil {
					return fmt.Errorf("failed to import page: %w", err)
				}
				result, ok := response.(*productionCommands.ImportPageResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				switch {
				case result.Created:
					fmt.Printf("Project %s created\n", project)
					fmt.Printf("Page %s imported\n", result.Page.Name())
				case result.Replaced:
					fmt.Printf("Page %s replaced\n", result.Page.Name())
				default:
					fmt.Printf("Page %s imported\n", result.Page.Name())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pageName, "name", "", "Override the page name stored in the file")

	return cmd
}
