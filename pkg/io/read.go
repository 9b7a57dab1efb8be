package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/scene"
)

// Format is the encoding of a scene file.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the scene encoding from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// ReadScene loads and validates the scene file at path.
func ReadScene(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "scene %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	s, err := DecodeScene(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DecodeScene reads a scene in the given format from r. FormatAuto treats
// input starting with '{' as JSON and anything else as YAML.
func DecodeScene(r io.Reader, format Format) (*scene.Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read scene")
	}
	if format == FormatAuto {
		format = sniff(data)
	}
	switch format {
	case FormatJSON:
		return scene.Parse(data)
	case FormatYAML:
		js, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		return scene.Parse(js)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown scene format %q", format)
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "decode yaml scene")
	}
	doc, err := jsonValue(doc)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "convert yaml scene")
	}
	return out, nil
}

// jsonValue rewrites YAML maps with non-string keys into JSON objects.
func jsonValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			c, err := jsonValue(e)
			if err != nil {
				return nil, err
			}
			t[k] = c
		}
		return t, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			c, err := jsonValue(e)
			if err != nil {
				return nil, err
			}
			m[fmt.Sprint(k)] = c
		}
		return m, nil
	case []any:
		for i, e := range t {
			c, err := jsonValue(e)
			if err != nil {
				return nil, err
			}
			t[i] = c
		}
		return t, nil
	}
	return v, nil
}
