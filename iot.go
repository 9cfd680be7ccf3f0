package main

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iot"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type IotRuleArgs struct {
	handler *lambda.Function
}

type IotRule struct {
	rule *iot.TopicRule
}

// NewIotRule routes broker messages on test/topic to the mqtt function.
// Failed deliveries republish to errors/topic under a dedicated role.
func NewIotRule(ctx *pulumi.Context, args IotRuleArgs) (*IotRule, error) {
	ir := &IotRule{}

	region, err := aws.GetRegion(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Error looking up region: %w", err)
	}
	ident, err := aws.GetCallerIdentity(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Error looking up caller identity: %w", err)
	}

	assumeRolePolicy, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: []iam.GetPolicyDocumentStatement{
			{
				Actions: []string{"sts:AssumeRole"},
				Principals: []iam.GetPolicyDocumentStatementPrincipal{
					{Type: "Service", Identifiers: []string{"iot.amazonaws.com"}},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating AssumeRolePolicy: %w", err)
	}

	republishPolicy, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: []iam.GetPolicyDocumentStatement{
			{
				Actions:   []string{"iot:Publish"},
				Resources: []string{fmt.Sprintf("arn:aws:iot:%s:%s:topic/errors/*", region.Name, ident.AccountId)},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating republish policy: %w", err)
	}

	republishRole, err := iam.NewRole(ctx, "iot-republish-role", &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(assumeRolePolicy.Json),
		InlinePolicies: iam.RoleInlinePolicyArray{
			iam.RoleInlinePolicyArgs{
				Name:   pulumi.String("republish-policy"),
				Policy: pulumi.String(republishPolicy.Json),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating republish role: %w", err)
	}

	ir.rule, err = iot.NewTopicRule(ctx, "mqtt-topic-rule", &iot.TopicRuleArgs{
		Name:       pulumi.String("microservices_mqtt_rule"),
		Enabled:    pulumi.Bool(true),
		Sql:        pulumi.String("SELECT * FROM 'test/topic'"),
		SqlVersion: pulumi.String("2016-03-23"),
		Lambdas: iot.TopicRuleLambdaArray{
			iot.TopicRuleLambdaArgs{
				FunctionArn: args.handler.Arn,
			},
		},
		ErrorAction: &iot.TopicRuleErrorActionArgs{
			Republish: &iot.TopicRuleErrorActionRepublishArgs{
				RoleArn: republishRole.Arn,
				Topic:   pulumi.String("errors/topic"),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating topic rule: %w", err)
	}

	_, err = lambda.NewPermission(ctx, "iot-lambda-permission", &lambda.PermissionArgs{
		Action:    pulumi.String("lambda:InvokeFunction"),
		SourceArn: ir.rule.Arn,
		Function:  args.handler.Name,
		Principal: pulumi.String("iot.amazonaws.com"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating permission: %w", err)
	}

	return ir, nil
}
