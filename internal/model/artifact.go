// Package model manages versioned predictor artifacts for the performance
// monitoring mode.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bike-stock-lab/internal/idhash"
)

// ArtifactVersion is the current artifact encoding version.
const ArtifactVersion = 1

var (
	ErrVersionMismatch = errors.New("artifact version mismatch")
	ErrSchemaMismatch  = errors.New("artifact feature schema mismatch")
)

// Artifact is a serialized predictor together with the metadata needed to
// refuse loading it against an incompatible feature schema.
type Artifact struct {
	Version   int             `json:"version"`
	Kind      string          `json:"kind"`
	SchemaID  string          `json:"schema_id"`
	Features  []string        `json:"features"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewArtifact builds an artifact for the given predictor kind and feature
// columns, stamping the schema hash and creation time.
func NewArtifact(kind string, features []string, payload json.RawMessage) *Artifact {
	return &Artifact{
		Version:   ArtifactVersion,
		Kind:      kind,
		SchemaID:  idhash.ComputeSchemaID(features),
		Features:  features,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}

// Encode serializes the artifact.
func (a *Artifact) Encode() ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return data, nil
}

// Decode deserializes an artifact and verifies it against the expected
// feature columns. Loading succeeds only when the encoding version matches
// and the stored schema hash equals the hash of wantFeatures.
func Decode(data []byte, wantFeatures []string) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, a.Version, ArtifactVersion)
	}

	wantSchema := idhash.ComputeSchemaID(wantFeatures)
	if a.SchemaID != wantSchema {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrSchemaMismatch, a.SchemaID, wantSchema)
	}

	return &a, nil
}
