package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// AWSSecretsProvider implements Provider using AWS Secrets Manager.
// The entire secret is stored as one JSON object and cached in-process
// after the first fetch.
type AWSSecretsProvider struct {
	client      *secretsmanager.Client
	secretName  string
	cache       map[string]string
	lastFetch   time.Time
	environment Environment
}

// NewAWSSecretsProvider creates a new AWS Secrets Manager based configuration provider
func NewAWSSecretsProvider(secretName string) (Provider, error) {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = string(Development)
	}

	return &AWSSecretsProvider{
		client:      secretsmanager.NewFromConfig(cfg),
		secretName:  secretName,
		cache:       make(map[string]string),
		environment: Environment(env),
	}, nil
}

// NewAWSConfigProvider creates a secrets-backed provider using the secret
// named by the AWS_SECRET_NAME environment variable.
func NewAWSConfigProvider() (Provider, error) {
	secretName := os.Getenv("AWS_SECRET_NAME")
	if secretName == "" {
		return nil, fmt.Errorf("AWS_SECRET_NAME environment variable not set")
	}
	return NewAWSSecretsProvider(secretName)
}

// GetEnvironment returns the current environment
func (p *AWSSecretsProvider) GetEnvironment() Environment {
	return p.environment
}

// GetString retrieves a string configuration value from AWS Secrets Manager
func (p *AWSSecretsProvider) GetString(ctx context.Context, key string) (string, error) {
	// Check cache first
	if value, ok := p.cache[key]; ok {
		return value, nil
	}

	secret, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret: %w", err)
	}

	var secretMap map[string]string
	if err := json.Unmarshal([]byte(*secret.SecretString), &secretMap); err != nil {
		return "", fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	if err := validateSecretSchema(secretMap); err != nil {
		return "", fmt.Errorf("invalid secret schema: %w", err)
	}

	p.cache = secretMap
	p.lastFetch = time.Now()

	value, ok := secretMap[key]
	if !ok {
		return "", fmt.Errorf("secret key %s not found", key)
	}
	return value, nil
}

// GetInt retrieves an integer configuration value from AWS Secrets Manager
func (p *AWSSecretsProvider) GetInt(ctx context.Context, key string) (int, error) {
	value, err := p.GetString(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// GetBool retrieves a boolean configuration value from AWS Secrets Manager
func (p *AWSSecretsProvider) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := p.GetString(ctx, key)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(value)
}

// GetSecret retrieves a secret value from AWS Secrets Manager
func (p *AWSSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	return p.GetString(ctx, key)
}

// validateSecretSchema checks that the secret JSON carries every key the
// database configuration needs. Value-level validation happens later in
// DatabaseConfig.Validate.
func validateSecretSchema(secrets map[string]string) error {
	requiredKeys := []string{
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
		"DB_SSLMODE",
	}

	for _, key := range requiredKeys {
		if _, ok := secrets[key]; !ok {
			return &ValidationError{
				Field:   key,
				Message: "required secret key not found",
			}
		}
	}

	if _, err := strconv.Atoi(secrets["DB_PORT"]); err != nil {
		return &ValidationError{
			Field:   "DB_PORT",
			Message: "port must be a valid number",
		}
	}

	if !validSSLModes[secrets["DB_SSLMODE"]] {
		return &ValidationError{
			Field:   "DB_SSLMODE",
			Message: "invalid SSL mode",
		}
	}

	return nil
}
