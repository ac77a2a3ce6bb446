package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
)

// InitFirestore connects to the named database, or the project's default
// database when databaseID is empty.
func InitFirestore(ctx context.Context, projectID, databaseID string) (*firestore.Client, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	return firestore.NewClientWithDatabase(ctx, projectID, databaseID)
}
