package costing

import "context"

// SnapshotEntry is one persisted cost
type SnapshotEntry struct {
	ObjectType string
	ObjectName string
	Cost       float64
	Flow       float64
	Waste      float64
}

// SnapshotRepository stores the costs of an analysis for later comparison
type SnapshotRepository interface {
	Save(ctx context.Context, catalogName string, analysis *Analysis) (string, error)
	Latest(ctx context.Context, catalogName string, onlyCurrentMilestones bool) ([]SnapshotEntry, error)
}
