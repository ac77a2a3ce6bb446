package services

import (
	"context"

	"github.com/samasastudio/sq-gendash/internal/models"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

// workspaceStore is the Firestore storage interface for the per-user workspace.
type workspaceStore interface {
	Get(ctx context.Context, uid string) (*models.Workspace, error)
	Save(ctx context.Context, uid string, ws *models.Workspace) error
	Delete(ctx context.Context, uid string) error
	SaveDatasetsIfCurrent(ctx context.Context, uid, generationID string, datasets map[string]models.DatasetResult, notes []string) (bool, error)
}

type workspaceService struct {
	store workspaceStore
}

func NewWorkspaceService(store workspaceStore) *workspaceService {
	return &workspaceService{store: store}
}

func (s *workspaceService) Get(ctx context.Context, uid string) (*models.Workspace, error) {
	return s.store.Get(ctx, uid)
}

// Reset clears the persisted workspace. Dataset loads still in flight for
// the old generation will find it gone and report stale.
func (s *workspaceService) Reset(ctx context.Context, uid string) error {
	if err := s.store.Delete(ctx, uid); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("workspace reset")
	return nil
}
