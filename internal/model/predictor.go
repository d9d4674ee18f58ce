package model

import (
	"fmt"

	"bike-stock-lab/internal/domain"
)

// Predictor produces a one-step-ahead stock estimate for a feature row.
type Predictor interface {
	Kind() string
	Predict(row *domain.FeatureRow) float64
}

// CarryForward predicts that the next bin's stock equals the current one.
// It is the persistence baseline the performance reports are scored against.
type CarryForward struct{}

func (CarryForward) Kind() string { return "carry_forward" }

func (CarryForward) Predict(row *domain.FeatureRow) float64 { return row.Stock }

// Apply fills the prediction column of every row in place.
func Apply(p Predictor, rows []*domain.FeatureRow) {
	for _, row := range rows {
		v := p.Predict(row)
		row.Prediction = &v
	}
}

// Load decodes an artifact and instantiates the predictor it names.
func Load(data []byte, wantFeatures []string) (Predictor, error) {
	artifact, err := Decode(data, wantFeatures)
	if err != nil {
		return nil, err
	}

	switch artifact.Kind {
	case "carry_forward":
		return CarryForward{}, nil
	default:
		return nil, fmt.Errorf("unknown predictor kind %q", artifact.Kind)
	}
}
