package production

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// Settings are the project-wide preferences the analyses read
type Settings struct {
	// PollutionCostModifier scales the pollution share of logistics cost
	PollutionCostModifier float64
	// TargetTechnology narrows science usage to one technology and its prerequisites
	TargetTechnology *catalog.Recipe
	// InaccessibleRecipePenalty multiplies the logistics cost of recipes not yet unlocked.
	// Values at or below 1 leave costs unchanged.
	InaccessibleRecipePenalty float64
}

// DefaultSettings are the settings of a freshly created project
func DefaultSettings() Settings {
	return Settings{PollutionCostModifier: 1, InaccessibleRecipePenalty: 1}
}

// Project is the user's workspace: settings plus an ordered list of pages
type Project struct {
	id       string
	name     string
	settings Settings
	pages    []*ProjectPage
}

func NewProject(name string, settings Settings) *Project {
	return &Project{id: uuid.NewString(), name: name, settings: settings}
}

// ReconstructProject rebuilds a project loaded from storage
func ReconstructProject(id, name string, settings Settings, pages []*ProjectPage) *Project {
	return &Project{id: id, name: name, settings: settings, pages: pages}
}

func (p *Project) ID() string { return p.id }
func (p *Project) Name() string { return p.name }
func (p *Project) Settings() Settings { return p.settings }
func (p *Project) Pages() []*ProjectPage { return p.pages }
func (p *Project) SetSettings(settings Settings) { p.settings = settings }

// AddPage creates a page with an empty root table
func (p *Project) AddPage(name string) *ProjectPage {
	page := &ProjectPage{id: uuid.NewString(), name: name, content: NewProductionTable()}
	p.pages = append(p.pages, page)
	return page
}

// FindPage looks a page up by name or id
func (p *Project) FindPage(key string) (*ProjectPage, bool) {
	for _, page := range p.pages {
		if page.name == key || page.id == key {
			return page, true
		}
	}
	return nil, false
}

// ProjectPage holds one root production table and the outcome of its last solve
type ProjectPage struct {
	id       string
	name     string
	content  *ProductionTable
	message  string
	solvedAt *time.Time
}

// ReconstructPage rebuilds a page loaded from storage
func ReconstructPage(id, name string, content *ProductionTable) *ProjectPage {
	if content == nil {
		content = NewProductionTable()
	}
	return &ProjectPage{id: id, name: name, content: content}
}

func (p *ProjectPage) ID() string { return p.id }
func (p *ProjectPage) Name() string { return p.name }
func (p *ProjectPage) Content() *ProductionTable { return p.content }
func (p *ProjectPage) LastMessage() string { return p.message }
func (p *ProjectPage) SolvedAt() *time.Time { return p.solvedAt }

// SetContent replaces the page tree and forgets the previous solve
func (p *ProjectPage) SetContent(content *ProductionTable) {
	if content == nil {
		content = NewProductionTable()
	}
	p.content = content
	p.message = ""
	p.solvedAt = nil
}

// RecordSolve stores the diagnostic of the latest solve, empty on success
func (p *ProjectPage) RecordSolve(message string, at time.Time) {
	p.message = message
	p.solvedAt = &at
}
