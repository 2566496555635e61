package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPPredictor calls a model server that hosts the trained regressor.
type HTTPPredictor struct {
	endpoint string
	client   *http.Client
}

// NewHTTPPredictor creates a predictor that POSTs feature rows to endpoint.
func NewHTTPPredictor(endpoint string) *HTTPPredictor {
	return &HTTPPredictor{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type predictRequest struct {
	Features [][]float64 `json:"features"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict sends a single-row batch and returns the prediction for that row.
func (c *HTTPPredictor) Predict(ctx context.Context, fv FeatureVector) (float64, error) {
	body, err := json.Marshal(predictRequest{Features: [][]float64{fv.Slice()}})
	if err != nil {
		return 0, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model server returned status: %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, fmt.Errorf("decode predict response: %w", err)
	}
	if len(pr.Predictions) == 0 {
		return 0, fmt.Errorf("model server returned no predictions")
	}
	return pr.Predictions[0], nil
}
