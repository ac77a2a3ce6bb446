package services

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/indicators"
	"github.com/samasastudio/sq-gendash/internal/models"
	"github.com/samasastudio/sq-gendash/internal/plan"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

type marketClient interface {
	Fetch(ctx context.Context, ds models.Dataset) models.DatasetResult
}

type datasetService struct {
	market      marketClient
	workspace   workspaceStore
	concurrency int
}

func NewDatasetService(market marketClient, workspace workspaceStore, concurrency int) *datasetService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &datasetService{market: market, workspace: workspace, concurrency: concurrency}
}

// Fetch validates and loads a single dataset description.
func (s *datasetService) Fetch(ctx context.Context, raw json.RawMessage) (models.DatasetResult, error) {
	if len(raw) == 0 {
		return models.DatasetResult{}, errs.NewValidationError("dataset is required")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return models.DatasetResult{}, errs.NewValidationError("dataset must be a JSON object")
	}
	ds, err := plan.ValidateDataset(v)
	if err != nil {
		return models.DatasetResult{}, err
	}
	return s.market.Fetch(ctx, ds), nil
}

// Load fetches every dataset of the workspace plan concurrently. Each
// dataset gets its own result; a failure never fails its siblings. Results
// are persisted only if generationID is still current.
func (s *datasetService) Load(ctx context.Context, uid, generationID string) (dto.LoadDatasetsResponse, error) {
	if generationID == "" {
		return dto.LoadDatasetsResponse{}, errs.NewValidationError("generationId is required")
	}
	log, ctx := logger.With(ctx, "generation_id", generationID)

	ws, err := s.workspace.Get(ctx, uid)
	if err != nil {
		return dto.LoadDatasetsResponse{}, err
	}
	out := dto.LoadDatasetsResponse{
		GenerationID: generationID,
		Datasets:     map[string]models.DatasetResult{},
		Notes:        []string{},
	}
	if ws.GenerationID != generationID {
		log.Info("skipping dataset load for superseded generation", "current", ws.GenerationID)
		out.Stale = true
		return out, nil
	}

	datasets := ws.Plan.Datasets
	results := make([]models.DatasetResult, len(datasets))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, ds := range datasets {
		i, ds := i, ds
		g.Go(func() error {
			results[i] = s.market.Fetch(ctx, ds)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		out.Datasets[res.DatasetID] = res
		if !res.OK() {
			out.Notes = append(out.Notes, fmt.Sprintf("%s: %s", res.DatasetID, res.Message))
		}
	}
	attachKPIs(ws.Plan.Widgets, out.Datasets)

	stale, err := s.workspace.SaveDatasetsIfCurrent(ctx, uid, generationID, out.Datasets, out.Notes)
	if err != nil {
		return dto.LoadDatasetsResponse{}, err
	}
	out.Stale = stale

	log.Info("datasets loaded", "count", len(results), "failed", len(out.Notes), "stale", stale)
	return out, nil
}

// KPIKey names the aggregate a KPI widget reads from DatasetResult.KPIs.
func KPIKey(w models.Widget) string {
	return w.Agg + ":" + w.Field
}

func attachKPIs(widgets []models.Widget, results map[string]models.DatasetResult) {
	for _, w := range widgets {
		if !w.IsKPI() {
			continue
		}
		res, ok := results[w.DatasetID]
		if !ok || !res.OK() {
			continue
		}
		v, ok := indicators.Aggregate(w.Agg, w.Field, res.Rows)
		if !ok {
			continue
		}
		if res.KPIs == nil {
			res.KPIs = map[string]float64{}
		}
		res.KPIs[KPIKey(w)] = v
		results[w.DatasetID] = res
	}
}
