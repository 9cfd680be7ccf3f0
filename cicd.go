package main

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// NewDeploymentRole creates the role GitHub Actions assumes through the
// account's OIDC provider to deploy the stack.
func NewDeploymentRole(ctx *pulumi.Context, cfg StackConfig) (*iam.Role, error) {
	ident, err := aws.GetCallerIdentity(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Error looking up caller identity: %w", err)
	}

	assumeRolePolicy, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: []iam.GetPolicyDocumentStatement{
			{
				Actions: []string{"sts:AssumeRoleWithWebIdentity"},
				Principals: []iam.GetPolicyDocumentStatementPrincipal{
					{
						Type: "Federated",
						Identifiers: []string{
							fmt.Sprintf("arn:aws:iam::%s:oidc-provider/token.actions.githubusercontent.com", ident.AccountId),
						},
					},
				},
				Conditions: []iam.GetPolicyDocumentStatementCondition{
					{
						Test:     "StringEquals",
						Variable: "token.actions.githubusercontent.com:aud",
						Values:   []string{"sts.amazonaws.com"},
					},
					{
						Test:     "StringLike",
						Variable: "token.actions.githubusercontent.com:sub",
						Values:   []string{fmt.Sprintf("repo:%s:*", cfg.githubRepo)},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating AssumeRolePolicy: %w", err)
	}

	role, err := iam.NewRole(ctx, "github-deployment-role", &iam.RoleArgs{
		Name:             pulumi.String("GitHubActionsDeploymentRole"),
		Description:      pulumi.String("Role for GitHub Actions deployments"),
		AssumeRolePolicy: pulumi.String(assumeRolePolicy.Json),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating deployment role: %w", err)
	}

	return role, nil
}
