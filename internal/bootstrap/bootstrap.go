package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	alphavantageclient "github.com/samasastudio/sq-gendash/internal/client/alphavantage"
	vertexclient "github.com/samasastudio/sq-gendash/internal/client/vertex"
	"github.com/samasastudio/sq-gendash/internal/config"
	"github.com/samasastudio/sq-gendash/internal/crypto"
	"github.com/samasastudio/sq-gendash/internal/store"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	KMS       *gcpkms.KeyManagementClient
	Secrets   *secretmanager.Client

	// VertexAdapter is nil when no model is configured; plan generation
	// then serves the sample plan.
	VertexAdapter *vertexclient.Adapter
	AlphaAdapter  *alphavantageclient.Adapter
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.CloudRunHandlerTo(logger.Output(cfg.LogFile)))
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID, cfg.FirestoreDatabase)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	if cfg.VertexModel != "" {
		bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Warn("VERTEXMODEL not set, plan generation will use the sample plan")
	}

	key, err := bs.resolveAlphaKey(applicationCtx, cfg)
	if err != nil {
		return bs, err
	}
	if key == "" {
		bs.Log.Warn("no alpha vantage key configured, datasets will report errors")
	}
	bs.AlphaAdapter = alphavantageclient.NewAdapter(alphavantageclient.Options{
		BaseURL:     cfg.AlphaVantageURL,
		APIKey:      key,
		DailyTTL:    cfg.AlphaCacheTTLDaily,
		IntradayTTL: cfg.AlphaCacheTTLIntraday,
	})

	return bs, nil
}

// resolveAlphaKey tries the plain key, then the KMS ciphertext, then
// Secret Manager. An empty key with a nil error means none is configured.
func (bs *Bootstrap) resolveAlphaKey(ctx context.Context, cfg *config.Config) (string, error) {
	var err error
	switch {
	case cfg.AlphaVantageKey != "":
		return cfg.AlphaVantageKey, nil
	case cfg.AlphaVantageKeyCiphertext != "":
		if cfg.KMSKeyName == "" {
			return "", errors.New("ALPHAVANTAGEKEYCIPHERTEXT requires KMSKEYNAME")
		}
		bs.KMS, err = InitKMS(ctx)
		if err != nil {
			return "", err
		}
		return crypto.NewKMS(bs.KMS, cfg.KMSKeyName).KmsDecrypt(ctx, cfg.AlphaVantageKeyCiphertext)
	case cfg.AlphaVantageSecret != "":
		bs.Secrets, err = InitSecretManager(ctx)
		if err != nil {
			return "", err
		}
		return store.NewSecretsStore(bs.Secrets, cfg.ProjectID).GetSecret(ctx, cfg.AlphaVantageSecret)
	default:
		return "", nil
	}
}

func (bs *Bootstrap) Close() {
	if bs.VertexAdapter != nil {
		_ = bs.VertexAdapter.Close()
	}
	if bs.KMS != nil {
		if err := bs.KMS.Close(); err != nil {
			bs.Log.Error("kms client close failed", "error", err)
		}
	}
	if bs.Secrets != nil {
		if err := bs.Secrets.Close(); err != nil {
			bs.Log.Error("secret manager client close failed", "error", err)
		}
	}
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Error("firestore client close failed", "error", err)
		}
	}
}
