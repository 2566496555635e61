package scoring

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// Predictor returns a raw exam score estimate for one feature vector.
type Predictor interface {
	Predict(ctx context.Context, fv FeatureVector) (float64, error)
}

//go:embed coefficients.json
var defaultCoefficients []byte

// LinearModel is a fitted linear regression over FeatureVector.
type LinearModel struct {
	Name         string    `json:"name"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// DefaultLinearModel returns the model shipped with the binary.
func DefaultLinearModel() (*LinearModel, error) {
	return parseLinearModel(defaultCoefficients)
}

// LoadLinearModel reads model coefficients from a JSON file.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	m, err := parseLinearModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func parseLinearModel(data []byte) (*LinearModel, error) {
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(m.Coefficients) != NumFeatures {
		return nil, fmt.Errorf("model has %d coefficients, want %d", len(m.Coefficients), NumFeatures)
	}
	return &m, nil
}

// Predict computes intercept + coefficients · features. It never fails.
func (m *LinearModel) Predict(_ context.Context, fv FeatureVector) (float64, error) {
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * fv[i]
	}
	return y, nil
}
