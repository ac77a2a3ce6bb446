package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/models"
)

func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestWorkspaceGenerationGuardWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewWorkspaceStore(client)
	uid := "user-" + time.Now().Format("150405.000000")

	if _, err := store.Get(ctx, uid); err == nil {
		t.Fatalf("expected not found before save")
	} else {
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	}

	ws := &models.Workspace{
		GenerationID: "g1",
		Prompt:       "apple",
		Plan:         models.Plan{Title: "Apple"},
		Datasets:     map[string]models.DatasetResult{},
		Notes:        []string{},
	}
	if err := store.Save(ctx, uid, ws); err != nil {
		t.Fatalf("save error: %v", err)
	}

	results := map[string]models.DatasetResult{
		"aapl": {DatasetID: "aapl", Status: models.DatasetStatusSuccess, Rows: []models.Row{{Time: "2024-01-02", Values: map[string]float64{"close": 10}}}},
	}
	stale, err := store.SaveDatasetsIfCurrent(ctx, uid, "g1", results, []string{"ok"})
	if err != nil || stale {
		t.Fatalf("expected current write, stale=%v err=%v", stale, err)
	}

	ws.GenerationID = "g2"
	ws.Datasets = map[string]models.DatasetResult{}
	if err := store.Save(ctx, uid, ws); err != nil {
		t.Fatalf("save error: %v", err)
	}
	stale, err = store.SaveDatasetsIfCurrent(ctx, uid, "g1", results, nil)
	if err != nil || !stale {
		t.Fatalf("expected stale write, stale=%v err=%v", stale, err)
	}

	got, err := store.Get(ctx, uid)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.GenerationID != "g2" || len(got.Datasets) != 0 {
		t.Fatalf("stale results leaked into workspace: %+v", got)
	}

	if err := store.Delete(ctx, uid); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	stale, err = store.SaveDatasetsIfCurrent(ctx, uid, "g2", results, nil)
	if err != nil || !stale {
		t.Fatalf("expected stale after reset, stale=%v err=%v", stale, err)
	}
}

func longRows(n int) []models.Row {
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{
			Time: fmt.Sprintf("t%05d", i),
			Values: map[string]float64{
				"open": 1, "high": 2, "low": 0.5, "close": 1.5, "volume": 1000,
				"sma_20": 1.25, "pct_change_1": 0.01,
			},
		}
	}
	return rows
}

func TestPersistedResultKeepsRecentRows(t *testing.T) {
	res := models.DatasetResult{DatasetID: "spy", Status: models.DatasetStatusSuccess, Note: "served from cache", Rows: longRows(maxPersistedRows + 10)}
	got := persistedResult(res)
	if len(got.Rows) != maxPersistedRows {
		t.Fatalf("expected %d rows, got %d", maxPersistedRows, len(got.Rows))
	}
	if got.Rows[0].Time != "t00010" {
		t.Fatalf("expected oldest rows dropped, first row %q", got.Rows[0].Time)
	}
	if !strings.HasPrefix(got.Note, "served from cache; ") {
		t.Fatalf("expected note to be extended, got %q", got.Note)
	}
	if len(res.Rows) != maxPersistedRows+10 {
		t.Fatalf("input rows were modified")
	}

	short := models.DatasetResult{DatasetID: "qqq", Rows: longRows(3)}
	if got := persistedResult(short); len(got.Rows) != 3 || got.Note != "" {
		t.Fatalf("short result changed: %+v", got)
	}
}

func TestDatasetDocID(t *testing.T) {
	a, b := datasetDocID("aapl/daily"), datasetDocID("aapl/daily")
	if a != b || strings.Contains(a, "/") || len(a) != 32 {
		t.Fatalf("unexpected doc id %q", a)
	}
	if datasetDocID("msft") == a {
		t.Fatalf("expected distinct ids")
	}
}

func TestWorkspaceLargeDatasetsWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewWorkspaceStore(client)
	uid := "large-" + time.Now().Format("150405.000000")
	savedAt := time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC)
	store.clockNow = func() time.Time { return savedAt }

	ws := &models.Workspace{GenerationID: "g1", Plan: models.Plan{Title: "Indexes"}, Notes: []string{}}
	if err := store.Save(ctx, uid, ws); err != nil {
		t.Fatalf("save error: %v", err)
	}

	results := map[string]models.DatasetResult{}
	for _, id := range []string{"spy", "qqq", "dia"} {
		results[id] = models.DatasetResult{DatasetID: id, Status: models.DatasetStatusSuccess, Rows: longRows(6000)}
	}
	stale, err := store.SaveDatasetsIfCurrent(ctx, uid, "g1", results, []string{})
	if err != nil || stale {
		t.Fatalf("expected current write, stale=%v err=%v", stale, err)
	}

	got, err := store.Get(ctx, uid)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(got.Datasets) != 3 {
		t.Fatalf("expected 3 datasets, got %d", len(got.Datasets))
	}
	if !got.UpdatedAt.Equal(savedAt) {
		t.Fatalf("expected updatedAt from store clock, got %v", got.UpdatedAt)
	}
	for id, res := range got.Datasets {
		if len(res.Rows) != maxPersistedRows || res.Note == "" {
			t.Fatalf("%s: expected %d rows with a note, got %d %q", id, maxPersistedRows, len(res.Rows), res.Note)
		}
	}

	ws = &models.Workspace{GenerationID: "g2", Notes: []string{}}
	if err := store.Save(ctx, uid, ws); err != nil {
		t.Fatalf("save error: %v", err)
	}
	got, err = store.Get(ctx, uid)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(got.Datasets) != 0 {
		t.Fatalf("expected datasets cleared by new generation, got %d", len(got.Datasets))
	}
}

func TestGenerationListWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewGenerationStore(client)
	uid := "gen-" + time.Now().Format("150405.000000")

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	store.clockNow = func() time.Time { return base.Add(time.Hour) }

	gens := []models.Generation{
		{GenerationID: "old", Title: "Old", CreatedAt: base.Add(-2 * time.Hour), ExpiresAt: base.Add(24 * time.Hour)},
		{GenerationID: "new", Title: "New", CreatedAt: base, ExpiresAt: base.Add(24 * time.Hour)},
		{GenerationID: "expired", Title: "Expired", CreatedAt: base.Add(-time.Hour), ExpiresAt: base},
	}
	for _, g := range gens {
		if err := store.Save(ctx, uid, g); err != nil {
			t.Fatalf("save error: %v", err)
		}
	}

	got, err := store.List(ctx, uid, 10)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(got) != 2 || got[0].GenerationID != "new" || got[1].GenerationID != "old" {
		t.Fatalf("unexpected generations %+v", got)
	}
}
