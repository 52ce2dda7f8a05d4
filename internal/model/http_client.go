// Package model provides the HTTP client for the external model service.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// ServiceModel is a Model backed by the external model service over HTTP.
// Retries are delegated to retryablehttp; a response that still fails after
// retries propagates as a fatal prediction error.
type ServiceModel struct {
	client  *retryablehttp.Client
	baseURL string
	variant string
	logger  *logrus.Logger
}

// NewServiceModel creates a model-service client. variant selects a served
// model head ("primary", or an ensemble member name such as "ensemble_0").
func NewServiceModel(cfg *config.ModelServiceConfig, variant string, logger *logrus.Logger) *ServiceModel {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryAttempts
	client.HTTPClient.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	client.Logger = nil

	return &ServiceModel{
		client:  client,
		baseURL: cfg.HTTPAddress,
		variant: variant,
		logger:  logger,
	}
}

// predictRequest is the wire payload for a prediction call.
type predictRequest struct {
	Sport      models.Sport         `json:"sport"`
	Variant    string               `json:"variant"`
	Stochastic bool                 `json:"stochastic"`
	Rows       []map[string]float64 `json:"rows"`
}

// predictResponse is the wire shape of a prediction response.
type predictResponse struct {
	Regression     []float64 `json:"regression"`
	Classification []float64 `json:"classification"`
}

// Predict sends one feature batch to the model service. When stochastic is
// true the service re-samples dropout noise per call.
func (m *ServiceModel) Predict(ctx context.Context, in *Input, stochastic bool) (*Output, error) {
	start := time.Now()
	defer func() {
		PredictionLatency.WithLabelValues(string(in.Sport), m.variant).Observe(time.Since(start).Seconds())
	}()

	rows := make([]map[string]float64, in.Len())
	for i, row := range in.Rows {
		rows[i] = row.Features
	}
	payload := predictRequest{
		Sport:      in.Sport,
		Variant:    m.variant,
		Stochastic: stochastic,
		Rows:       rows,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/v1/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		PredictionErrorsTotal.WithLabelValues(string(in.Sport), "network").Inc()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		PredictionErrorsTotal.WithLabelValues(string(in.Sport), "http_error").Inc()
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(data))
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		PredictionErrorsTotal.WithLabelValues(string(in.Sport), "decode").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(parsed.Regression) != in.Len() || len(parsed.Classification) != in.Len() {
		PredictionErrorsTotal.WithLabelValues(string(in.Sport), "shape").Inc()
		return nil, fmt.Errorf("%w: got %d/%d rows, want %d",
			ErrOutputShape, len(parsed.Regression), len(parsed.Classification), in.Len())
	}

	PredictionsTotal.WithLabelValues(string(in.Sport), m.variant).Inc()
	return &Output{
		Regression:     parsed.Regression,
		Classification: parsed.Classification,
	}, nil
}
