package main

import (
	"fmt"
	"strings"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi-command/sdk/go/command/local"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type Functions struct {
	rest      *lambda.Function
	webhook   *lambda.Function
	websocket *lambda.Function
	mqtt      *lambda.Function
}

type FunctionsArgs struct {
	network *Network
	image   *RestImage
	cfg     StackConfig
}

func NewFunctions(ctx *pulumi.Context, args FunctionsArgs) (*Functions, error) {
	fns := &Functions{}

	role, err := newExecutionRole(ctx)
	if err != nil {
		return nil, err
	}

	fns.webhook, err = newRouterFunction(ctx, "webhook", role, args)
	if err != nil {
		return nil, err
	}
	fns.websocket, err = newRouterFunction(ctx, "websocket", role, args)
	if err != nil {
		return nil, err
	}
	fns.mqtt, err = newRouterFunction(ctx, "mqtt", role, args)
	if err != nil {
		return nil, err
	}

	fns.rest, err = newRestFunction(ctx, role, args)
	if err != nil {
		return nil, err
	}

	return fns, nil
}

// newExecutionRole builds the execution role shared by all four functions:
// VPC networking and X-Ray via managed policies, plus inline grants to manage
// websocket connections and publish to the message broker.
func newExecutionRole(ctx *pulumi.Context) (*iam.Role, error) {
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
					{Type: "Service", Identifiers: []string{"lambda.amazonaws.com"}},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating AssumeRolePolicy: %w", err)
	}

	apiGatewayAccess, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: []iam.GetPolicyDocumentStatement{
			{
				Actions:   []string{"execute-api:ManageConnections"},
				Resources: []string{fmt.Sprintf("arn:aws:execute-api:%s:%s:*/*", region.Name, ident.AccountId)},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating apiGatewayAccess policy: %w", err)
	}

	iotAccess, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: []iam.GetPolicyDocumentStatement{
			{
				Actions:   []string{"iot:Publish"},
				Resources: []string{fmt.Sprintf("arn:aws:iot:%s:%s:topic/*", region.Name, ident.AccountId)},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating iotAccess policy: %w", err)
	}

	executionRole, err := iam.NewRole(ctx, "lambda-execution-role", &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(assumeRolePolicy.Json),
		ManagedPolicyArns: pulumi.ToStringArray([]string{
			string(iam.ManagedPolicyAWSLambdaVPCAccessExecutionRole),
			string(iam.ManagedPolicyAWSXRayDaemonWriteAccess),
		}),
		InlinePolicies: iam.RoleInlinePolicyArray{
			iam.RoleInlinePolicyArgs{
				Name:   pulumi.String("api-gateway-access"),
				Policy: pulumi.String(apiGatewayAccess.Json),
			},
			iam.RoleInlinePolicyArgs{
				Name:   pulumi.String("iot-access"),
				Policy: pulumi.String(iotAccess.Json),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating execution role: %w", err)
	}

	return executionRole, nil
}

// newRouterFunction compiles cmd/<name> into a bootstrap zip and deploys it
// into the VPC's private subnets.
func newRouterFunction(ctx *pulumi.Context, name string, role *iam.Role, args FunctionsArgs) (*lambda.Function, error) {
	_, err := local.Run(ctx, &local.RunArgs{
		Dir: pulumi.StringRef("."),
		Command: strings.Join([]string{
			fmt.Sprintf("rm -rf asset/%s && mkdir -p asset/%s", name, name),
			fmt.Sprintf("GOOS=linux GOARCH=arm64 go build -mod=readonly -o ./asset/%s/bootstrap ./cmd/%s", name, name),
			fmt.Sprintf("chmod +x ./asset/%s/bootstrap", name),
		}, " && "),
		AssetPaths: []string{fmt.Sprintf("asset/%s/bootstrap", name)},
	})
	if err != nil {
		return nil, fmt.Errorf("Error running local command: %w", err)
	}

	code := pulumi.NewAssetArchive(map[string]interface{}{
		"bootstrap": pulumi.NewFileAsset(fmt.Sprintf("./asset/%s/bootstrap", name)),
	})
	handler, err := newFunction(ctx, name, role, args, &lambda.FunctionArgs{
		Code:    code,
		Handler: pulumi.String("bootstrap"),
		Runtime: pulumi.String("provided.al2023"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating %s function: %w", name, err)
	}

	return handler, nil
}

// newRestFunction deploys the container-image function built by NewRestImageBuild.
func newRestFunction(ctx *pulumi.Context, role *iam.Role, args FunctionsArgs) (*lambda.Function, error) {
	handler, err := newFunction(ctx, "rest", role, args, &lambda.FunctionArgs{
		PackageType: pulumi.String("Image"),
		ImageUri:    args.image.image.RepoDigest,
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating rest function: %w", err)
	}

	return handler, nil
}

func newFunction(ctx *pulumi.Context, name string, role *iam.Role, args FunctionsArgs, fnArgs *lambda.FunctionArgs) (*lambda.Function, error) {
	sg, err := ec2.NewSecurityGroup(ctx, name+"-sg", &ec2.SecurityGroupArgs{
		VpcId:               args.network.vpc.VpcId,
		Egress:              egressAll(),
		RevokeRulesOnDelete: pulumi.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating security group: %w", err)
	}

	fnArgs.Architectures = pulumi.ToStringArray([]string{"arm64"})
	fnArgs.Role = role.Arn
	fnArgs.Timeout = pulumi.Int(30)
	fnArgs.MemorySize = pulumi.Int(args.cfg.lambdaMemory)
	fnArgs.VpcConfig = &lambda.FunctionVpcConfigArgs{
		SubnetIds:        args.network.vpc.PrivateSubnetIds,
		SecurityGroupIds: pulumi.StringArray{sg.ID()},
	}
	fnArgs.TracingConfig = &lambda.FunctionTracingConfigArgs{
		Mode: pulumi.String("Active"),
	}
	fnArgs.Environment = &lambda.FunctionEnvironmentArgs{
		Variables: pulumi.StringMap{
			"POWERTOOLS_SERVICE_NAME": pulumi.String(name),
			"LOG_LEVEL":               pulumi.String(args.cfg.logLevel),
		},
	}

	handler, err := lambda.NewFunction(ctx, name+"-handler", fnArgs)
	if err != nil {
		return nil, fmt.Errorf("Error creating lambda function: %w", err)
	}

	_, err = cloudwatch.NewLogGroup(ctx, name+"-log-group", &cloudwatch.LogGroupArgs{
		Name:            pulumi.Sprintf("/aws/lambda/%s", handler.Name),
		RetentionInDays: pulumi.IntPtr(7),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating log group: %w", err)
	}

	return handler, nil
}
