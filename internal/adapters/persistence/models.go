package persistence

import (
	"time"
)

// CatalogModel represents the catalogs table
type CatalogModel struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Version   int       `gorm:"column:version;not null;default:0"`
	Document  string    `gorm:"column:document;type:text;not null"` // JSON as text
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (CatalogModel) TableName() string {
	return "catalogs"
}

// ProjectModel represents the projects table
type ProjectModel struct {
	ID                        string             `gorm:"column:id;primaryKey"`
	Name                      string             `gorm:"column:name;unique;not null"`
	PollutionCostModifier     float64            `gorm:"column:pollution_cost_modifier;not null"`
	InaccessibleRecipePenalty float64            `gorm:"column:inaccessible_recipe_penalty;not null;default:1"`
	TargetTechnology          string             `gorm:"column:target_technology"`
	UpdatedAt                 time.Time          `gorm:"column:updated_at;not null"`
	Pages                     []ProjectPageModel `gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

// ProjectPageModel represents the project_pages table
type ProjectPageModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	ProjectID   string     `gorm:"column:project_id;not null;index"`
	Position    int        `gorm:"column:position;not null"`
	Name        string     `gorm:"column:name;not null"`
	Content     string     `gorm:"column:content;type:text;not null"` // JSON table tree as text
	LastMessage string     `gorm:"column:last_message;type:text"`
	SolvedAt    *time.Time `gorm:"column:solved_at"`
}

func (ProjectPageModel) TableName() string {
	return "project_pages"
}

// CostSnapshotModel represents the cost_snapshots table
type CostSnapshotModel struct {
	ID                    string                   `gorm:"column:id;primaryKey"`
	CatalogName           string                   `gorm:"column:catalog_name;not null;index:idx_snapshot_scope"`
	OnlyCurrentMilestones bool                     `gorm:"column:only_current_milestones;not null;index:idx_snapshot_scope"`
	Solved                bool                     `gorm:"column:solved;not null"`
	EstimatedTotal        string                   `gorm:"column:estimated_total;not null"` // decimal string
	ComputedAt            time.Time                `gorm:"column:computed_at;not null;index"`
	Entries               []CostSnapshotEntryModel `gorm:"foreignKey:SnapshotID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (CostSnapshotModel) TableName() string {
	return "cost_snapshots"
}

// CostSnapshotEntryModel represents the cost_snapshot_entries table
type CostSnapshotEntryModel struct {
	ID         int    `gorm:"column:id;primaryKey;autoIncrement"`
	SnapshotID string `gorm:"column:snapshot_id;not null;index"`
	ObjectType string `gorm:"column:object_type;not null"`
	ObjectName string `gorm:"column:object_name;not null"`
	Cost       string `gorm:"column:cost;not null"` // decimal string or "inf"
	Flow       string `gorm:"column:flow;not null"`
	Waste      string `gorm:"column:waste;not null"`
}

func (CostSnapshotEntryModel) TableName() string {
	return "cost_snapshot_entries"
}
