package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/samasastudio/sq-gendash/infra/common"
	"github.com/samasastudio/sq-gendash/infra/secret"
)

// SetupCloudRun builds the api image and deploys it. It returns the
// service name.
func SetupCloudRun(ctx *pulumi.Context,
	prov *gcp.Provider,
	apiSA *serviceaccount.Account,
	kmsKeyName pulumi.StringOutput,
	res ...pulumi.Resource) (pulumi.StringOutput, error) {
	empty := pulumi.String("").ToStringOutput()

	img, err := buildApiImage(ctx, res...)
	if err != nil {
		return empty, err
	}

	alphaSecretID, err := createAlphaVantageSecret(ctx)
	if err != nil {
		return empty, err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return empty, err
	}

	svc, err := createCloudRunService(ctx, img, apiSA, alphaSecretID, kmsKeyName, prov, append(res, srv)...)
	if err != nil {
		return empty, err
	}

	err = setIAMAccessPolicy(ctx, svc, prov)
	if err != nil {
		return empty, err
	}

	return svc.Name, nil
}

func buildApiImage(ctx *pulumi.Context, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.SourceHash("../")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "apiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),                    // build from repo root
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"), // Dockerfile path relative to repo root
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/gendash/gendash-api:%s", region, projectID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

// CreateServiceAccount creates the api identity with Firestore and Vertex
// AI access.
func CreateServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	apiSA, err := serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("gendash-api"),
		DisplayName: pulumi.String("Dashboard Plan API Service Account"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	member := apiSA.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)

	roles := map[string]string{
		"firestoreAccess": "roles/datastore.user",   // Firestore read/write
		"vertexAccess":    "roles/aiplatform.user", // plan generation
	}
	for name, role := range roles {
		_, err = projects.NewIAMMember(ctx, name, &projects.IAMMemberArgs{
			Role:    pulumi.String(role),
			Member:  member,
			Project: pulumi.String(projectID),
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return nil, err
		}
	}

	return apiSA, nil
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	alphaSecretID pulumi.StringOutput,
	kmsKeyName pulumi.StringOutput,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	appCfg := config.New(ctx, "gendash")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	logLevel := crCfg.Require("logLevel")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))
	vertexModel := appCfg.Get("vertexModel")
	datasetConcurrency := appCfg.Get("datasetConcurrency")
	generationTTL := appCfg.Get("generationTTL")

	env := func(name string, value pulumi.StringInput) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
		return &cloudrun.ServiceTemplateSpecContainerEnvArgs{Name: pulumi.String(name), Value: value}
	}

	return cloudrun.NewService(ctx, "apiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),

		Template: &cloudrun.ServiceTemplateArgs{

			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				// ---- AUTOSCALING + INSTANCE SIZE ----
				Annotations: pulumi.StringMap{
					// Enable Identity Platform (Firebase) authentication
					"run.googleapis.com/launch-stage":      pulumi.String("BETA"),
					"run.googleapis.com/identity-provider": pulumi.String("firebase"),

					// Autoscaling bounds
					"autoscaling.knative.dev/minScale": pulumi.String(minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					// Instance sizing
					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					// Allow throttling when idle (reduces cost)
					"run.googleapis.com/cpu-throttling": pulumi.String("true"),

					// Set the number of concurrent requests per container
					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: cloudrun.ServiceTemplateSpecContainerEnvArray{
							env("PROJECTID", pulumi.String(projectID)),
							env("REGION", pulumi.String(region)),
							env("LOGLEVEL", pulumi.String(logLevel)),
							env("VERTEXMODEL", pulumi.String(vertexModel)),
							env("DATASETCONCURRENCY", pulumi.String(datasetConcurrency)),
							env("GENERATIONTTL", pulumi.String(generationTTL)),
							env("KMSKEYNAME", kmsKeyName),
							// The api reads the key from Secret Manager at startup.
							env("ALPHAVANTAGESECRET", alphaSecretID),
						},
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	_, err := cloudrun.NewIamMember(ctx, "denyUnauthenticated", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),

		// Allow requests to reach Identity Platform (Firebase) auth
		Member: pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}

func createAlphaVantageSecret(ctx *pulumi.Context) (pulumi.StringOutput, error) {
	alphaCfg := config.New(ctx, "alphavantage")
	apiKey := alphaCfg.RequireSecret("apiKey")

	return secret.AddSecret(ctx, "alphaVantageKeySecret", "alphaVantageKey", apiKey)
}
