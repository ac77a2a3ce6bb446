package firestore

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// SetupFirestore enables Firestore, creates the default database and turns
// on TTL deletion for generation history (users/{uid}/generations.expiresAt).
func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) (*firestore.Database, error) {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return nil, err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return nil, err
	}

	if err := createGenerationTTL(ctx, prov, db); err != nil {
		return nil, err
	}
	return db, nil
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require(("region"))

	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Project:    pulumi.String(projectID),
		Name:       pulumi.String("(default)"),
		LocationId: pulumi.String(region),
		Type:       pulumi.String("FIRESTORE_NATIVE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func createGenerationTTL(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	_, err := firestore.NewField(ctx, "generationExpiry", &firestore.FieldArgs{
		Project:    pulumi.String(projectID),
		Database:   db.Name,
		Collection: pulumi.String("generations"),
		Field:      pulumi.String("expiresAt"),
		TtlConfig:  &firestore.FieldTtlConfigArgs{},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{db}),
	)
	return err
}
