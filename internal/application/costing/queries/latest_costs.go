package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/costing"
)

// LatestCostsQuery reads the newest stored cost snapshot of a catalog
type LatestCostsQuery struct {
	CatalogName           string
	OnlyCurrentMilestones bool
	// ObjectType filters entries when set (item, fluid, recipe, entity, ...)
	ObjectType string
}

// LatestCostsResponse lists snapshot entries, most expensive first
type LatestCostsResponse struct {
	Entries []costing.SnapshotEntry
}

// LatestCostsHandler handles the LatestCosts query
type LatestCostsHandler struct {
	snapshotRepo costing.SnapshotRepository
}

func NewLatestCostsHandler(snapshotRepo costing.SnapshotRepository) *LatestCostsHandler {
	return &LatestCostsHandler{snapshotRepo: snapshotRepo}
}

func (h *LatestCostsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*LatestCostsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LatestCostsQuery")
	}

	entries, err := h.snapshotRepo.Latest(ctx, query.CatalogName, query.OnlyCurrentMilestones)
	if err != nil {
		return nil, err
	}

	filtered := entries[:0]
	for _, entry := range entries {
		if query.ObjectType == "" || entry.ObjectType == query.ObjectType {
			filtered = append(filtered, entry)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Cost > filtered[j].Cost
	})

	return &LatestCostsResponse{Entries: filtered}, nil
}
