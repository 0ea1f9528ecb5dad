// Package commands implements the cfops subcommands.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rvazquezglez/clouddriver/internal/logging"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
	"github.com/rvazquezglez/clouddriver/pkg/cfclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

const timeFormat = "2006-01-02 15:04:05"

// Static errors for the commands package.
var (
	ErrNotLoggedIn      = errors.New("not logged in; run 'cfops login' first")
	ErrUsernameRequired = errors.New("username is required")
)

// CreateClient builds an API client from the active configuration, with
// flags taking precedence over the stored config.
func CreateClient(ctx context.Context) (cf.Client, error) {
	config := loadConfig()

	apiHost := viper.GetString("api")
	if apiHost == "" {
		apiHost = config.API
	}

	if apiHost == "" || config.User == "" || config.Secret == "" {
		return nil, ErrNotLoggedIn
	}

	account := viper.GetString("account")
	if account == "" {
		account = config.Account
	}

	clientConfig := &cf.Config{
		Account:           account,
		APIHost:           apiHost,
		User:              config.User,
		Secret:            config.Secret,
		SkipTLSValidation: viper.GetBool("skip-tls-validation") || config.SkipTLSValidation,
		Debug:             viper.GetBool("debug"),
	}

	if viper.GetBool("debug") {
		clientConfig.Logger = logging.NewDebug()
	} else if viper.GetBool("verbose") {
		clientConfig.Logger = logging.New(os.Stderr, zerolog.InfoLevel)
	}

	client, err := cfclient.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	return client, nil
}

// StandardJSONRenderer writes data as indented JSON to stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML to stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// renderWith dispatches to the structured renderers or the table fallback
// based on the --output flag.
func renderWith[T any](data T, table func() error) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(data)
	case OutputFormatYAML:
		return StandardYAMLRenderer(data)
	default:
		return table()
	}
}
