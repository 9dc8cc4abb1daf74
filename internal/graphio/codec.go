package graphio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a description encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat maps a name to a Format. An empty name selects YAML.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown description format %q (want yaml or toml)", name)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer description format of %q", path)
	}
	return ParseFormat(ext)
}

// DescriptionPath replaces the extension of imagePath with .noise.yaml or
// .noise.toml.
func DescriptionPath(imagePath string, format Format) string {
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))
	return base + ".noise." + string(format)
}

// Encode writes f to w.
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode yaml description: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(f); err != nil {
			return fmt.Errorf("failed to encode toml description: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown description format %q", format)
	}
}

// Decode reads a description from r. Unknown keys are rejected.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode yaml description: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode toml description: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown description format %q", format)
	}
	return &f, nil
}

// WriteFile encodes f to path in the format named by its extension.
func WriteFile(path string, f *File) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, f, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create description directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write description: %w", err)
	}
	return nil
}

// ReadFile decodes the description at path.
func ReadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open description: %w", err)
	}
	defer fh.Close()

	return Decode(fh, format)
}
