package spec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var errEmptyStudy = errors.New("empty document")

// ParseConfig decodes one study document. Unknown keys and a second document
// are errors.
func ParseConfig(data []byte) (Config, error) {
	cfg, err := decodeStudy(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse study file: %w", err)
	}
	return cfg, nil
}

func decodeStudy(data []byte) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); errors.Is(err, io.EOF) {
		return cfg, errEmptyStudy
	} else if err != nil {
		return cfg, err
	}

	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return cfg, nil
	case err != nil:
		return cfg, err
	}
	return cfg, fmt.Errorf("found a second document at line %d", extra.Line)
}
