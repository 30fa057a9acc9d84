package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/persistence"
	catalogCommands "github.com/andrescamacho/factoryplanner-go/internal/application/catalog/commands"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage catalogs of goods, recipes and machines",
		Long: `Import and inspect catalogs. A catalog is a JSON document listing qualities,
goods, entities and recipes; pages and cost analyses are always evaluated
against one catalog.

Examples:
  factoryplanner catalog import base.json --catalog base
  factoryplanner catalog list
  factoryplanner catalog show --catalog base`,
	}

	cmd.AddCommand(newCatalogImportCommand())
	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogShowCommand())

	return cmd
}

func newCatalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a catalog document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc catalog.Document
			if err := readJSONFile(args[0], &doc); err != nil {
				return err
			}

			return withApp(func(a *app) error {
				name, err := a.catalog()
				if err != nil {
					return err
				}
				response, err := a.mediator.Send(a.context(), &catalogCommands.ImportCatalogCommand{
					Name:     name,
					Document: doc,
				})
				if err != nil {
					return fmt.Errorf("failed to import catalog: %w", err)
				}
				result, ok := response.(*catalogCommands.ImportCatalogResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				fmt.Printf("Catalog %s imported: %d goods, %d recipes, %d entities\n",
					result.Name, result.Goods, result.Recipes, result.Entities)
				return nil
			})
		},
	}
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				repo := persistence.NewGormCatalogRepository(a.db, shared.NewRealClock())
				names, err := repo.List(a.context())
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Println("No catalogs stored")
					return nil
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			})
		},
	}
}

func newCatalogShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the recipes of a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				name, err := a.catalog()
				if err != nil {
					return err
				}
				repo := persistence.NewGormCatalogRepository(a.db, shared.NewRealClock())
				db, err := repo.Load(a.context(), name)
				if err != nil {
					return err
				}

				fmt.Printf("\n=== Catalog %s ===\n", name)
				fmt.Printf("Qualities: %d  Goods: %d  Entities: %d\n\n",
					len(db.Qualities()), len(db.Goods()), len(db.Entities()))

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "RECIPE\tKIND\tTIME\tINGREDIENTS\tPRODUCTS\tCRAFTERS")
				fmt.Fprintln(w, "------\t----\t----\t-----------\t--------\t--------")
				for _, recipe := range db.RecipesAndTechnologies() {
					fmt.Fprintf(w, "%s\t%s\t%.2fs\t%d\t%d\t%d\n",
						recipe.Name(), recipe.Kind(), recipe.Time(),
						len(recipe.Ingredients()), len(recipe.Products()), len(recipe.Crafters()))
				}
				return w.Flush()
			})
		},
	}
}

func readJSONFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
