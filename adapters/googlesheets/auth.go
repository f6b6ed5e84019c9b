package googlesheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ideamans/go-sheetfdw"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ServiceAccountKey represents the structure of a service account JSON key file
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// NewWithJSONKeyFile opens a worksheet using a service account key file.
// An empty jsonPath falls back to GOOGLE_APPLICATION_CREDENTIALS.
func NewWithJSONKeyFile(ctx context.Context, config Config, jsonPath string, opts ...option.ClientOption) (*Sheet, error) {
	if jsonPath == "" {
		jsonPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if jsonPath == "" {
			return nil, fmt.Errorf("no JSON key file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
		}
	}

	tokenSource, err := createTokenSourceFromFile(ctx, jsonPath)
	if err != nil {
		return nil, err
	}
	return NewSheet(ctx, config, append(opts, option.WithTokenSource(tokenSource))...)
}

// NewWithJSONKeyData opens a worksheet using service account key JSON
func NewWithJSONKeyData(ctx context.Context, config Config, jsonData []byte, opts ...option.ClientOption) (*Sheet, error) {
	if _, err := ParseServiceAccountJSON(jsonData); err != nil {
		return nil, err
	}
	tokenSource, err := createTokenSourceFromJSON(ctx, jsonData)
	if err != nil {
		return nil, err
	}
	return NewSheet(ctx, config, append(opts, option.WithTokenSource(tokenSource))...)
}

// NewWithServiceAccountKey opens a worksheet using email and private key
func NewWithServiceAccountKey(ctx context.Context, config Config, email string, privateKey string, opts ...option.ClientOption) (*Sheet, error) {
	if email == "" || privateKey == "" {
		return nil, fmt.Errorf("service account email and private key are required")
	}
	tokenSource, err := createTokenSourceFromKey(ctx, &ServiceAccountKey{
		ClientEmail: email,
		PrivateKey:  privateKey,
	})
	if err != nil {
		return nil, err
	}
	return NewSheet(ctx, config, append(opts, option.WithTokenSource(tokenSource))...)
}

// NewWithDefaultCredentials opens a worksheet using Application Default Credentials
func NewWithDefaultCredentials(ctx context.Context, config Config, opts ...option.ClientOption) (*Sheet, error) {
	// This will use:
	// 1. GOOGLE_APPLICATION_CREDENTIALS environment variable if set
	// 2. gcloud auth application-default credentials if available
	// 3. GCE metadata service if running on Google Cloud
	tokenSource, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}
	return NewSheet(ctx, config, append(opts, option.WithTokenSource(tokenSource))...)
}

// NewFromOptions opens the worksheet named by foreign table options,
// authenticating with the configured key file.
func NewFromOptions(ctx context.Context, opts sheetfdw.Options, clientOpts ...option.ClientOption) (*Sheet, error) {
	return NewWithJSONKeyFile(ctx, ConfigFromOptions(opts), opts.KeyFile, clientOpts...)
}

// ParseServiceAccountJSON parses a service account JSON file or data
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing required fields in service account key")
	}

	return &key, nil
}

// CreateTokenSource creates an oauth2.TokenSource from various credential types
func CreateTokenSource(ctx context.Context, credentials interface{}) (oauth2.TokenSource, error) {
	switch cred := credentials.(type) {
	case string:
		// Assume it's a file path
		return createTokenSourceFromFile(ctx, cred)
	case []byte:
		// JSON data
		return createTokenSourceFromJSON(ctx, cred)
	case *ServiceAccountKey:
		// Parsed service account key
		return createTokenSourceFromKey(ctx, cred)
	default:
		return nil, fmt.Errorf("unsupported credential type: %T", credentials)
	}
}

func createTokenSourceFromFile(ctx context.Context, path string) (oauth2.TokenSource, error) {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return createTokenSourceFromJSON(ctx, jsonData)
}

func createTokenSourceFromJSON(ctx context.Context, jsonData []byte) (oauth2.TokenSource, error) {
	creds, err := google.CredentialsFromJSON(ctx, jsonData, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds.TokenSource, nil
}

func createTokenSourceFromKey(ctx context.Context, key *ServiceAccountKey) (oauth2.TokenSource, error) {
	jwtConfig := &jwt.Config{
		Email:      key.ClientEmail,
		PrivateKey: []byte(key.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return jwtConfig.TokenSource(ctx), nil
}
