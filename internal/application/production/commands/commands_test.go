package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/application/production/commands"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/test/helpers"
)

func setupRepos(t *testing.T) *helpers.TestRepositories {
	t.Helper()
	repos := helpers.NewTestRepositories(t)
	require.NoError(t, repos.CatalogRepo.Save(context.Background(), "base", helpers.SmeltingCatalog()))
	return repos
}

func platePage(name string, amount float64) production.PageSpec {
	return production.PageSpec{
		Name: name,
		Content: production.TableSpec{
			Links: []production.LinkSpec{{Goods: "iron-plate", Amount: amount, Algorithm: production.LinkMatch}},
			Rows:  []production.RowSpec{{Recipe: "iron-plate", Entity: "furnace", Fuel: "coal"}},
		},
	}
}

func TestImportPageHandler_CreatesProjectThenReplacesPage(t *testing.T) {
	// Arrange
	repos := setupRepos(t)
	handler := commands.NewImportPageHandler(repos.CatalogRepo, repos.ProjectRepo)
	ctx := context.Background()

	// Act
	first, err := handler.Handle(ctx, &commands.ImportPageCommand{
		CatalogName: "base", ProjectName: "main", Page: platePage("plates", 1),
	})
	require.NoError(t, err)
	second, err := handler.Handle(ctx, &commands.ImportPageCommand{
		CatalogName: "base", ProjectName: "main", Page: platePage("plates", 3),
	})
	require.NoError(t, err)

	// Assert
	firstResp := first.(*commands.ImportPageResponse)
	secondResp := second.(*commands.ImportPageResponse)
	assert.True(t, firstResp.Created)
	assert.False(t, firstResp.Replaced)
	assert.False(t, secondResp.Created)
	assert.True(t, secondResp.Replaced)

	db, err := repos.CatalogRepo.Load(ctx, "base")
	require.NoError(t, err)
	project, err := repos.ProjectRepo.FindByName(ctx, "main", db)
	require.NoError(t, err)
	require.Len(t, project.Pages(), 1)
	assert.Equal(t, 3.0, project.Pages()[0].Content().Links()[0].Amount())
	assert.Equal(t, production.DefaultSettings(), project.Settings())
}

func TestImportPageHandler_Validation(t *testing.T) {
	repos := setupRepos(t)
	handler := commands.NewImportPageHandler(repos.CatalogRepo, repos.ProjectRepo)

	tests := []struct {
		name    string
		cmd     *commands.ImportPageCommand
		wantErr string
	}{
		{"missing project", &commands.ImportPageCommand{CatalogName: "base", Page: platePage("plates", 1)}, "project name is required"},
		{"missing page name", &commands.ImportPageCommand{CatalogName: "base", ProjectName: "main"}, "page name is required"},
		{"unknown recipe", &commands.ImportPageCommand{CatalogName: "base", ProjectName: "main", Page: production.PageSpec{
			Name:    "broken",
			Content: production.TableSpec{Rows: []production.RowSpec{{Recipe: "circuit"}}},
		}}, "page broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportPageHandler_RejectsWrongRequestType(t *testing.T) {
	repos := setupRepos(t)
	handler := commands.NewImportPageHandler(repos.CatalogRepo, repos.ProjectRepo)

	_, err := handler.Handle(context.Background(), &commands.SolvePageCommand{})

	assert.EqualError(t, err, "invalid request type: expected *ImportPageCommand")
}

func TestConfigureProjectHandler_UpdatesPollutionModifier(t *testing.T) {
	// Arrange
	repos := setupRepos(t)
	handler := commands.NewConfigureProjectHandler(repos.CatalogRepo, repos.ProjectRepo)
	modifier := 2.5

	// Act
	resp, err := handler.Handle(context.Background(), &commands.ConfigureProjectCommand{
		CatalogName:           "base",
		ProjectName:           "main",
		PollutionCostModifier: &modifier,
	})

	// Assert
	require.NoError(t, err)
	settings := resp.(*commands.ConfigureProjectResponse).Settings
	assert.Equal(t, 2.5, settings.PollutionCostModifier)
	assert.Nil(t, settings.TargetTechnology)
}

func TestConfigureProjectHandler_UpdatesInaccessibleRecipePenalty(t *testing.T) {
	// Arrange
	repos := setupRepos(t)
	handler := commands.NewConfigureProjectHandler(repos.CatalogRepo, repos.ProjectRepo)
	penalty := 4.0
	ctx := context.Background()

	// Act
	_, err := handler.Handle(ctx, &commands.ConfigureProjectCommand{
		CatalogName:               "base",
		ProjectName:               "main",
		InaccessibleRecipePenalty: &penalty,
	})

	// Assert
	require.NoError(t, err)
	db, err := repos.CatalogRepo.Load(ctx, "base")
	require.NoError(t, err)
	project, err := repos.ProjectRepo.FindByName(ctx, "main", db)
	require.NoError(t, err)
	assert.Equal(t, 4.0, project.Settings().InaccessibleRecipePenalty)
	assert.Equal(t, 1.0, project.Settings().PollutionCostModifier)
}

func TestConfigureProjectHandler_RejectsInvalidSettings(t *testing.T) {
	repos := setupRepos(t)
	handler := commands.NewConfigureProjectHandler(repos.CatalogRepo, repos.ProjectRepo)
	negative := -1.0
	discount := 0.5
	notATechnology := "gear"
	unknown := "rocket-silo"

	tests := []struct {
		name    string
		cmd     *commands.ConfigureProjectCommand
		wantErr string
	}{
		{"negative modifier", &commands.ConfigureProjectCommand{CatalogName: "base", ProjectName: "main", PollutionCostModifier: &negative}, "must not be negative"},
		{"penalty below one", &commands.ConfigureProjectCommand{CatalogName: "base", ProjectName: "main", InaccessibleRecipePenalty: &discount}, "must be at least 1"},
		{"recipe target", &commands.ConfigureProjectCommand{CatalogName: "base", ProjectName: "main", TargetTechnology: &notATechnology}, "gear is not a technology"},
		{"unknown target", &commands.ConfigureProjectCommand{CatalogName: "base", ProjectName: "main", TargetTechnology: &unknown}, "rocket-silo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSolvePageHandler_UnknownPage(t *testing.T) {
	// Arrange
	repos := setupRepos(t)
	ctx := context.Background()
	_, err := commands.NewImportPageHandler(repos.CatalogRepo, repos.ProjectRepo).Handle(ctx, &commands.ImportPageCommand{
		CatalogName: "base", ProjectName: "main", Page: platePage("plates", 1),
	})
	require.NoError(t, err)
	handler := commands.NewSolvePageHandler(repos.CatalogRepo, repos.ProjectRepo, nil, nil)

	// Act
	_, err = handler.Handle(ctx, &commands.SolvePageCommand{CatalogName: "base", ProjectName: "main", PageName: "gears"})

	// Assert
	assert.EqualError(t, err, "page not found: gears")
}
