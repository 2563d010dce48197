package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// LoadEnvironment fills the process environment before Load decodes it.
// In production the variables come from AWS SSM Parameter Store, elsewhere from an optional .env file.
func LoadEnvironment(ctx context.Context) error {
	if os.Getenv("GO_ENV") != EnvProduction {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}

	path := os.Getenv("SSM_PARAMETER_PATH")
	if path == "" {
		path = "/notes/prod/"
	}
	return loadParameterStore(ctx, region, path)
}

func loadParameterStore(ctx context.Context, region, prefix string) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return err
	}

	client := ssm.NewFromConfig(cfg)
	pages := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(false),
	})

	loaded := 0
	for pages.HasMorePages() {
		out, err := pages.NextPage(ctx)
		if err != nil {
			return err
		}

		// Export vars
		for _, param := range out.Parameters {
			key, ok := envName(prefix, aws.ToString(param.Name))
			if !ok {
				log.Warnf("skipping parameter %s: not a direct child of %s", aws.ToString(param.Name), prefix)
				continue
			}

			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return err
			}
			loaded++
		}
	}

	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}

// envName maps a parameter directly under prefix to its variable name.
func envName(prefix, name string) (string, bool) {
	key, found := strings.CutPrefix(name, prefix)
	if !found || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}
