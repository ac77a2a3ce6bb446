package services

import (
	"context"
	"sync"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/models"
)

// --- Fakes ---

type fakeVertex struct {
	configured bool
	text       string
	err        error
	lastReq    dto.VertexGenerateRequest
}

func (f *fakeVertex) Configured() bool { return f.configured }

func (f *fakeVertex) Model() string { return "gemini-test" }

func (f *fakeVertex) GenerateContent(_ context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return dto.VertexGenerateResponse{}, f.err
	}
	return dto.VertexGenerateResponse{Text: f.text, FinishReason: "STOP"}, nil
}

type fakeWorkspaceStore struct {
	mu        sync.Mutex
	spaces    map[string]*models.Workspace
	getErr    error
	saveErr   error
	deleteErr error
	// onSaveDatasets runs before the generation check, e.g. to simulate a
	// newer generation landing mid-load.
	onSaveDatasets func()
}

func newFakeWorkspaceStore() *fakeWorkspaceStore {
	return &fakeWorkspaceStore{spaces: make(map[string]*models.Workspace)}
}

func (f *fakeWorkspaceStore) Get(_ context.Context, uid string) (*models.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	ws, ok := f.spaces[uid]
	if !ok {
		return nil, errs.NewNotFoundError("workspace not found")
	}
	cp := *ws
	return &cp, nil
}

func (f *fakeWorkspaceStore) Save(_ context.Context, uid string, ws *models.Workspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *ws
	f.spaces[uid] = &cp
	return nil
}

func (f *fakeWorkspaceStore) Delete(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.spaces, uid)
	return nil
}

func (f *fakeWorkspaceStore) SaveDatasetsIfCurrent(_ context.Context, uid, generationID string, datasets map[string]models.DatasetResult, notes []string) (bool, error) {
	if f.onSaveDatasets != nil {
		f.onSaveDatasets()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ws, ok := f.spaces[uid]
	if !ok || ws.GenerationID != generationID {
		return true, nil
	}
	ws.Datasets = datasets
	ws.Notes = notes
	return false, nil
}

type fakeGenerationStore struct {
	saved   []models.Generation
	saveErr error
	listErr error
	limit   int
}

func (f *fakeGenerationStore) Save(_ context.Context, _ string, g models.Generation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, g)
	return nil
}

func (f *fakeGenerationStore) List(_ context.Context, _ string, limit int) ([]models.Generation, error) {
	f.limit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Generation, 0, len(f.saved))
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.saved[i])
	}
	return out, nil
}

type fakeMarket struct {
	mu      sync.Mutex
	results map[string]models.DatasetResult
	calls   []string
}

func (f *fakeMarket) Fetch(_ context.Context, ds models.Dataset) models.DatasetResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ds.ID)
	if res, ok := f.results[ds.ID]; ok {
		return res
	}
	return models.DatasetResult{DatasetID: ds.ID, Status: models.DatasetStatusError, Message: "unknown dataset", Rows: []models.Row{}}
}
