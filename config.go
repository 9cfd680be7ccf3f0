package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

type StackConfig struct {
	cacheTtl        int
	throttlingRate  float64
	throttlingBurst int
	lambdaMemory    int
	logLevel        string
	githubRepo      string
}

func LoadStackConfig(ctx *pulumi.Context) StackConfig {
	conf := config.New(ctx, "")
	cfg := StackConfig{
		cacheTtl:        10,
		throttlingRate:  1000,
		throttlingBurst: 500,
		lambdaMemory:    1024,
		logLevel:        "INFO",
		githubRepo:      "your-org/your-repo",
	}
	if v := conf.GetInt("cacheTtl"); v != 0 {
		cfg.cacheTtl = v
	}
	if v := conf.GetFloat64("throttlingRate"); v != 0 {
		cfg.throttlingRate = v
	}
	if v := conf.GetInt("throttlingBurst"); v != 0 {
		cfg.throttlingBurst = v
	}
	if v := conf.GetInt("lambdaMemory"); v != 0 {
		cfg.lambdaMemory = v
	}
	if v := conf.Get("logLevel"); v != "" {
		cfg.logLevel = v
	}
	if v := conf.Get("githubRepo"); v != "" {
		cfg.githubRepo = v
	}
	return cfg
}
