package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/response"
)

type uploadConfig struct {
	APIEndpoint    string
	APIKey         string
	RequestTimeout time.Duration
}

func newUploadCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <analysis_type> <file>",
		Short: "Upload a JSON or CSV samples file to a lab API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := assay.ParseType(args[0])
			if err != nil {
				return err
			}

			config, err := uploadConfigFrom(v)
			if err != nil {
				return err
			}

			logger := newLogger(cmd, v)
			logger.Info("Uploading samples", "analysis_type", t, "file", args[1], "endpoint", config.APIEndpoint)

			body, err := uploadSamples(cmd.Context(), config, t, args[1])
			if err != nil {
				logger.Error("Failed to upload samples", "error", err)
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("api-endpoint", "", "base URL of the lab API")
	flags.String("api-key", "", "bearer token of the lab API")
	flags.Duration("request-timeout", 10*time.Second, "HTTP request timeout")
	bindFlags(v, flags.Lookup("api-endpoint"), flags.Lookup("api-key"), flags.Lookup("request-timeout"))

	return cmd
}

func uploadConfigFrom(v *viper.Viper) (*uploadConfig, error) {
	apiEndpoint := v.GetString("api-endpoint")
	if apiEndpoint == "" {
		return nil, fmt.Errorf("%s_API_ENDPOINT is not set", envPrefix)
	}

	apiKey := v.GetString("api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("%s_API_KEY is not set", envPrefix)
	}

	return &uploadConfig{
		APIEndpoint:    apiEndpoint,
		APIKey:         apiKey,
		RequestTimeout: v.GetDuration("request-timeout"),
	}, nil
}

// uploadSamples posts the file to the samples collection of t and returns
// the response body.
func uploadSamples(ctx context.Context, config *uploadConfig, t assay.Type, path string) ([]byte, error) {

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open samples file: %w", err)
	}
	defer file.Close()

	resourceURL, err := url.JoinPath(config.APIEndpoint, "assays", string(t), "samples")
	if err != nil {
		return nil, fmt.Errorf("failed to join URL path: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resourceURL, file)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	contentType := response.JSONContentType
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		contentType = response.CSVContentType
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+config.APIKey)
	req.Header.Set("Accept", response.JSONContentType)

	httpClient := &http.Client{Timeout: config.RequestTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
