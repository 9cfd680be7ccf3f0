package main

import (
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		cfg := LoadStackConfig(ctx)

		network, err := NewNetwork(ctx)
		if err != nil {
			return err
		}

		image, err := NewRestImageBuild(ctx)
		if err != nil {
			return err
		}

		fns, err := NewFunctions(ctx, FunctionsArgs{
			network: network,
			image:   image,
			cfg:     cfg,
		})
		if err != nil {
			return err
		}

		_, err = NewRestApi(ctx, RestApiArgs{
			handler: fns.rest,
			webhook: fns.webhook,
			cfg:     cfg,
		})
		if err != nil {
			return err
		}

		_, err = NewWebSocketApi(ctx, WebSocketApiArgs{
			handler: fns.websocket,
			cfg:     cfg,
		})
		if err != nil {
			return err
		}

		_, err = NewIotRule(ctx, IotRuleArgs{
			handler: fns.mqtt,
		})
		if err != nil {
			return err
		}

		_, err = NewDeploymentRole(ctx, cfg)
		if err != nil {
			return err
		}

		region, err := aws.GetRegion(ctx, nil)
		if err != nil {
			return err
		}
		ctx.Export("xrayTraceLink", pulumi.Sprintf(
			"https://%s.console.aws.amazon.com/xray/home?region=%s#/traces", region.Name, region.Name))

		return nil
	})
}
