package main

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ecr"
	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type RestImage struct {
	image *docker.Image
}

func NewRestImageBuild(ctx *pulumi.Context) (*RestImage, error) {
	restImage := &RestImage{}
	repo, err := ecr.NewRepository(ctx, "rest-api-lambda", &ecr.RepositoryArgs{
		ForceDelete: pulumi.BoolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating repo: %w", err)
	}
	authToken := ecr.GetAuthorizationTokenOutput(ctx, ecr.GetAuthorizationTokenOutputArgs{
		RegistryId: repo.RegistryId,
	})

	// Tag with the source hash so each code change ships a distinct image.
	tag, err := hashDirectory("./cmd/rest")
	if err != nil {
		return nil, fmt.Errorf("Error hashing source: %w", err)
	}

	restImage.image, err = docker.NewImage(ctx, "rest-image", &docker.ImageArgs{
		Registry: docker.RegistryArgs{
			Username: authToken.UserName(),
			Password: pulumi.ToSecret(authToken.ApplyT(func(authToken ecr.GetAuthorizationTokenResult) (*string, error) {
				return &authToken.Password, nil
			})).(pulumi.StringPtrOutput),
		},
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/arm64"),
			Context:    pulumi.String("."),
			Dockerfile: pulumi.String("cmd/rest/Dockerfile"),
		},
		ImageName: repo.RepositoryUrl.ApplyT(func(url string) string {
			return fmt.Sprintf("%s:%s", url, tag[:12])
		}).(pulumi.StringOutput),
	})
	if err != nil {
		return nil, fmt.Errorf("Error building image: %w", err)
	}

	return restImage, nil
}
