// Where: internal/infra/awsclient/awsclient.go
// What: AWS SDK configuration loading.
// Why: Share region, endpoint and credential handling between the mirror and ledger.
package awsclient

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/poruru/itchdeploy/internal/constants"
)

const defaultAWSRegion = "us-east-1"

// Options selects the region, an optional S3/DynamoDB compatible endpoint, and
// optional static credentials. Empty keys fall back to the default chain.
type Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Lookup    func(string) (string, bool)
}

// LoadConfig resolves an aws.Config for opts.
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(resolveRegion(opts)),
	}
	if strings.TrimSpace(opts.AccessKey) != "" && strings.TrimSpace(opts.SecretKey) != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}

// EndpointOrNil returns an aws.String for a non-empty endpoint.
func EndpointOrNil(endpoint string) *string {
	if strings.TrimSpace(endpoint) == "" {
		return nil
	}
	return aws.String(strings.TrimSpace(endpoint))
}

func resolveRegion(opts Options) string {
	if region := strings.TrimSpace(opts.Region); region != "" {
		return region
	}
	if opts.Lookup != nil {
		if region, ok := opts.Lookup(constants.EnvAWSRegion); ok && strings.TrimSpace(region) != "" {
			return strings.TrimSpace(region)
		}
	}
	return defaultAWSRegion
}
