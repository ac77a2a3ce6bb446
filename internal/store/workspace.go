package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/models"
)

// Workspace paths
// users/{uid}/workspace/current
// users/{uid}/workspace/current/datasets/{datasetDocID}

const (
	workspaceDoc = "current"

	// maxPersistedRows keeps one dataset document well under the Firestore
	// document size limit. Only the most recent rows are kept.
	maxPersistedRows = 2000
)

type datasetDoc struct {
	GenerationID string               `firestore:"generationId"`
	Result       models.DatasetResult `firestore:"result"`
}

type workspaceStore struct {
	client   *firestore.Client
	clockNow func() time.Time
}

func NewWorkspaceStore(client *firestore.Client) *workspaceStore {
	return &workspaceStore{client: client, clockNow: time.Now}
}

func (s *workspaceStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("workspace").Doc(workspaceDoc)
}

func (s *workspaceStore) datasets(uid string) *firestore.CollectionRef {
	return s.doc(uid).Collection("datasets")
}

func (s *workspaceStore) Get(ctx context.Context, uid string) (*models.Workspace, error) {
	doc, err := s.doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("workspace not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get workspace", err)
	}
	var ws models.Workspace
	if err := doc.DataTo(&ws); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse workspace data", err)
	}

	docs, err := s.datasets(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get workspace datasets", err)
	}
	ws.Datasets = make(map[string]models.DatasetResult, len(docs))
	for _, d := range docs {
		var dd datasetDoc
		if err := d.DataTo(&dd); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse dataset data", err)
		}
		if dd.GenerationID != ws.GenerationID {
			continue
		}
		ws.Datasets[dd.Result.DatasetID] = dd.Result
	}
	return &ws, nil
}

// Save replaces the workspace, which starts a new generation. Dataset
// documents of earlier generations are removed in the same transaction.
func (s *workspaceStore) Save(ctx context.Context, uid string, ws *models.Workspace) error {
	ws.UpdatedAt = s.clockNow()
	ref := s.doc(uid)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(s.datasets(uid)).GetAll()
		if err != nil {
			return err
		}
		if err := tx.Set(ref, ws); err != nil {
			return err
		}
		return s.replaceDatasets(tx, uid, ws.GenerationID, ws.Datasets, existing)
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save workspace", err)
	}
	return nil
}

func (s *workspaceStore) Delete(ctx context.Context, uid string) error {
	ref := s.doc(uid)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(s.datasets(uid)).GetAll()
		if err != nil {
			return err
		}
		for _, d := range existing {
			if err := tx.Delete(d.Ref); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete workspace", err)
	}
	return nil
}

// SaveDatasetsIfCurrent writes dataset results only while generationID is
// still the workspace generation. It reports stale when a newer generation
// (or a reset) got there first.
func (s *workspaceStore) SaveDatasetsIfCurrent(ctx context.Context, uid, generationID string, datasets map[string]models.DatasetResult, notes []string) (bool, error) {
	ref := s.doc(uid)
	stale := false

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stale = false
		doc, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			stale = true
			return nil
		}
		if err != nil {
			return err
		}
		current, err := doc.DataAt("generationId")
		if err != nil {
			return err
		}
		if id, _ := current.(string); id != generationID {
			stale = true
			return nil
		}
		existing, err := tx.Documents(s.datasets(uid)).GetAll()
		if err != nil {
			return err
		}

		if err := s.replaceDatasets(tx, uid, generationID, datasets, existing); err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "notes", Value: notes},
			{Path: "updatedAt", Value: s.clockNow()},
		})
	})
	if err != nil {
		return false, errs.NewDatabaseError("update", "failed to save dataset results", err)
	}
	return stale, nil
}

// replaceDatasets writes one document per result and deletes the rest.
// Firestore transactions need every read done before this runs.
func (s *workspaceStore) replaceDatasets(tx *firestore.Transaction, uid, generationID string, datasets map[string]models.DatasetResult, existing []*firestore.DocumentSnapshot) error {
	keep := make(map[string]bool, len(datasets))
	for id, res := range datasets {
		res.DatasetID = id
		ref := s.datasets(uid).Doc(datasetDocID(id))
		keep[ref.ID] = true
		if err := tx.Set(ref, datasetDoc{GenerationID: generationID, Result: persistedResult(res)}); err != nil {
			return err
		}
	}
	for _, d := range existing {
		if keep[d.Ref.ID] {
			continue
		}
		if err := tx.Delete(d.Ref); err != nil {
			return err
		}
	}
	return nil
}

// datasetDocID derives a valid document id from a model-chosen dataset id.
func datasetDocID(datasetID string) string {
	sum := sha256.Sum256([]byte(datasetID))
	return hex.EncodeToString(sum[:16])
}

func persistedResult(res models.DatasetResult) models.DatasetResult {
	if len(res.Rows) <= maxPersistedRows {
		return res
	}
	dropped := len(res.Rows) - maxPersistedRows
	res.Rows = res.Rows[dropped:]
	note := fmt.Sprintf("stored the most recent %d rows, %d older rows not saved", maxPersistedRows, dropped)
	if res.Note != "" {
		note = res.Note + "; " + note
	}
	res.Note = note
	return res
}
