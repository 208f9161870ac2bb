package artifacts

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"appraiser/internal/valuation"
)

// LoadModel reads a model artifact. JSON documents are accepted as well since they are
// valid YAML.
func LoadModel(path string) (valuation.Model, error) {
	var doc modelDoc
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}
	m, err := buildModel(doc)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// LoadScaler reads a fitted scaler artifact.
func LoadScaler(path string) (*Scaler, error) {
	var doc scalerDoc
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}
	s, err := buildScaler(doc)
	if err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	return s, nil
}

func decodeFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return nil
}
