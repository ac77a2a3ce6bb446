package store

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/samasastudio/sq-gendash/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{secretID}/versions/latest

type secretsStore struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretsStore(client *secretmanager.Client, projectID string) *secretsStore {
	return &secretsStore{
		client:    client,
		projectID: projectID,
	}
}

func (s *secretsStore) secretName(secretID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, secretID)
}

func (s *secretsStore) ensureSecret(ctx context.Context, secretID string) error {
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: s.secretName(secretID)})
	if status.Code(err) == codes.NotFound {
		_, err = s.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: secretID,
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{Automatic: &secretmanagerpb.Replication_Automatic{}},
				},
			},
		})
	}
	return err
}

// StoreSecret adds a new version, creating the secret on first use.
func (s *secretsStore) StoreSecret(ctx context.Context, secretID, value string) error {
	if err := s.ensureSecret(ctx, secretID); err != nil {
		return errs.NewExternalServiceError("secretmanager", "ensure secret failed", false, err)
	}
	_, err := s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: s.secretName(secretID),
		Payload: &secretmanagerpb.SecretPayload{
			Data: []byte(value),
		},
	})
	if err != nil {
		return errs.NewExternalServiceError("secretmanager", "add secret version failed", false, err)
	}
	return nil
}

func (s *secretsStore) GetSecret(ctx context.Context, secretID string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", s.secretName(secretID)),
	})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError(fmt.Sprintf("secret %s not found", secretID))
	}
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "access secret failed", false, err)
	}
	return string(res.Payload.Data), nil
}
