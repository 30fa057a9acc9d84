package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	productionCommands "github.com/andrescamacho/factoryplanner-go/internal/application/production/commands"
)

// NewProjectCommand creates the project command with subcommands
func NewProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage project settings",
		Long: `Change the settings the cost analysis reads from a project.

Examples:
  factoryplanner project set --pollution 0.5 --project main --catalog base
  factoryplanner project set --locked-penalty 4 --project main --catalog base
  factoryplanner project set --target-technology automation --project main --catalog base
  factoryplanner project set --target-technology "" --project main --catalog base`,
	}

	cmd.AddCommand(newProjectSetCommand())

	return cmd
}

func newProjectSetCommand() *cobra.Command {
	var pollution float64
	var penalty float64
	var target string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update project settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productionCommands.ConfigureProjectCommand{}
			if cmd.Flags().Changed("pollution") {
				request.PollutionCostModifier = &pollution
			}
			if cmd.Flags().Changed("locked-penalty") {
				request.InaccessibleRecipePenalty = &penalty
			}
			if cmd.Flags().Changed("target-technology") {
				request.TargetTechnology = &target
			}
			if request.PollutionCostModifier == nil && request.InaccessibleRecipePenalty == nil && request.TargetTechnology == nil {
				return fmt.Errorf("nothing to change: pass --pollution, --locked-penalty or --target-technology")
			}

			return withApp(func(a *app) error {
				var err error
				if request.CatalogName, err = a.catalog(); err != nil {
					return err
				}
				if request.ProjectName, err = a.project(); err != nil {
					return err
				}

				response, err := a.mediator.Send(a.context(), request)
				if err != nil {
					return fmt.Errorf("failed to update project: %w", err)
				}
				result, ok := response.(*productionCommands.ConfigureProjectResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				fmt.Printf("Pollution cost modifier: %g\n", result.Settings.PollutionCostModifier)
				fmt.Printf("Locked recipe penalty:   %g\n", result.Settings.InaccessibleRecipePenalty)
				if result.Settings.TargetTechnology != nil {
					fmt.Printf("Target technology:       %s\n", result.Settings.TargetTechnology.Name())
				} else {
					fmt.Println("Target technology:       (none)")
				}
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&pollution, "pollution", 1, "Pollution cost modifier")
	cmd.Flags().Float64Var(&penalty, "locked-penalty", 1, "Cost multiplier for recipes that are not unlocked yet")
	cmd.Flags().StringVar(&target, "target-technology", "", "Technology whose prerequisites drive science usage")

	return cmd
}
