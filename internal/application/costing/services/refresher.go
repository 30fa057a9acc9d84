package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/costing"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// CostRefresher recomputes both cost scopes, at most once per interval.
// Throttled calls get the latest results back with refreshed = false.
// A catalog other than the one last priced is always recomputed, since
// analyses are keyed by that catalog's objects.
type CostRefresher struct {
	estimator *CostEstimator
	limiter   *rate.Limiter
}

func NewCostRefresher(estimator *CostEstimator, interval time.Duration, burst int) *CostRefresher {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &CostRefresher{
		estimator: estimator,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

func (r *CostRefresher) Refresh(ctx context.Context, db *catalog.Database, project *production.Project, warnings *common.ErrorCollector) (full, milestone *costing.Analysis, refreshed bool, err error) {
	allowed := r.limiter.Allow()
	if !allowed && r.priced(db) {
		common.LoggerFromContext(ctx).Log("DEBUG", "Cost refresh throttled", nil)
		return r.estimator.Latest(false), r.estimator.Latest(true), false, nil
	}

	// the two scopes own separate LP instances and can be solved side by side
	var wg sync.WaitGroup
	var fullErr, milestoneErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		full, fullErr = r.estimator.Compute(ctx, db, project, false, warnings)
	}()
	go func() {
		defer wg.Done()
		milestone, milestoneErr = r.estimator.Compute(ctx, db, project, true, warnings)
	}()
	wg.Wait()

	if fullErr != nil {
		return nil, nil, false, fullErr
	}
	if milestoneErr != nil {
		return nil, nil, false, milestoneErr
	}
	return full, milestone, true, nil
}

func (r *CostRefresher) priced(db *catalog.Database) bool {
	full, milestone := r.estimator.Latest(false), r.estimator.Latest(true)
	return full != nil && milestone != nil && full.Catalog == db && milestone.Catalog == db
}
