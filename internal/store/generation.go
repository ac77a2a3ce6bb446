package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/models"
)

// Generations path
// users/{uid}/generations/{generationId}
// expiresAt is the Firestore TTL field.

type generationStore struct {
	client   *firestore.Client
	clockNow func() time.Time
}

func NewGenerationStore(client *firestore.Client) *generationStore {
	return &generationStore{client: client, clockNow: time.Now}
}

func (s *generationStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("generations")
}

func (s *generationStore) Save(ctx context.Context, uid string, g models.Generation) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.clockNow()
	}
	if _, err := s.collection(uid).Doc(g.GenerationID).Set(ctx, g); err != nil {
		return errs.NewDatabaseError("create", "failed to save generation", err)
	}
	return nil
}

// List returns the newest generations first. Expired records that the TTL
// policy has not removed yet are skipped.
func (s *generationStore) List(ctx context.Context, uid string, limit int) ([]models.Generation, error) {
	query := s.collection(uid).Query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	now := s.clockNow()
	out := []models.Generation{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list generations", err)
		}
		var g models.Generation
		if err := doc.DataTo(&g); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse generation data", err)
		}
		if !g.ExpiresAt.IsZero() && g.ExpiresAt.Before(now) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
