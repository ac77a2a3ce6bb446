package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/samasastudio/sq-gendash/infra/cloudrun"
	"github.com/samasastudio/sq-gendash/infra/docker"
	"github.com/samasastudio/sq-gendash/infra/firestore"
	"github.com/samasastudio/sq-gendash/infra/identity"
	"github.com/samasastudio/sq-gendash/infra/kms"
	"github.com/samasastudio/sq-gendash/infra/provider"
	"github.com/samasastudio/sq-gendash/infra/secret"
	"github.com/samasastudio/sq-gendash/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity platform so the api can verify firebase tokens
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// firestore database plus the TTL policy on generation history
		fs, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		vx, err := vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		km, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyName, err := kms.CreateKey(ctx, prov, "sq-gendash", "alpha-vantage")
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}
		sm, err := secret.SetupSecretManager(ctx, prov, apiSA)
		if err != nil {
			return err
		}
		if err := kms.GrantDecrypt(ctx, prov, apiSA, keyName); err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		apiService, err := cloudrun.SetupCloudRun(ctx, prov, apiSA, keyName, ident, fs, vx, km, sm, repo)
		if err != nil {
			return err
		}

		ctx.Export("apiService", apiService)
		ctx.Export("kmsKeyName", keyName)
		return nil
	})
}
