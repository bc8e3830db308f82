package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/imamik/storagelab/internal/config"
)

// LoadConfig builds the SDK configuration. Static credentials, including a
// session token for temporary lab accounts, take precedence over the default
// credential chain. A non-empty endpoint overrides every service endpoint,
// which is how tests and local emulators are reached.
func LoadConfig(ctx context.Context, creds config.Credentials, region, endpoint string) (awssdk.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if creds.Static() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, creds.SessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if endpoint != "" {
		cfg.BaseEndpoint = awssdk.String(endpoint)
	}
	return cfg, nil
}
