package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadGenesis decodes the YAML genesis file at path into T. Unknown keys are
// rejected so a typo in a fee field cannot silently fall back to "unset".
func LoadGenesis[T any](path string) (*T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	return DecodeGenesis[T](raw)
}

// DecodeGenesis decodes genesis YAML already held in memory.
func DecodeGenesis[T any](raw []byte) (*T, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var out T
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode genesis: %w", err)
	}
	return &out, nil
}
