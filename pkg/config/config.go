package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a descriptor file.
type Format int

const (
	TOML Format = iota
	YAML
	HCL
)

func (f Format) String() string {
	return [...]string{"toml", "yaml", "hcl"}[f]
}

// FormatOf picks the descriptor syntax from the file extension. Anything that
// is not YAML or HCL is read as TOML.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YAML
	case ".hcl":
		return HCL
	default:
		return TOML
	}
}

func LoadProject(filename string) (*Project, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Error loading project")
		return nil, fmt.Errorf("%w: reading %s: %w", ErrConfig, filename, err)
	}
	p, err := parseProject(data, FormatOf(filename), filename)
	if err != nil {
		log.Error().Err(err).Msg("Decoding " + filename + " failed! Check syntax and try again")
		return nil, err
	}
	return p, nil
}

func LoadCollection(filename string) (*Collection, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Error loading collection")
		return nil, fmt.Errorf("%w: reading %s: %w", ErrConfig, filename, err)
	}
	c, err := parseCollection(data, FormatOf(filename), filename)
	if err != nil {
		log.Error().Err(err).Msg("Decoding " + filename + " failed! Check syntax and try again")
		return nil, err
	}
	return c, nil
}

// ParseProject decodes a project descriptor.
func ParseProject(data []byte, format Format) (*Project, error) {
	return parseProject(data, format, "project."+format.String())
}

// ParseCollection decodes a collection descriptor. Every project reference is
// checked for conflicting sources while it is decoded; cross-project rules are
// left to Collection.Validate.
func ParseCollection(data []byte, format Format) (*Collection, error) {
	return parseCollection(data, format, "collection."+format.String())
}

func parseProject(data []byte, format Format, filename string) (*Project, error) {
	var p Project
	if err := decode(data, format, filename, &p); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseCollection(data []byte, format Format, filename string) (*Collection, error) {
	var raw rawCollection
	if err := decode(data, format, filename, &raw); err != nil {
		return nil, err
	}
	return raw.toCollection()
}

func decode(data []byte, format Format, filename string, v any) error {
	var err error
	switch format {
	case YAML:
		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(v)
		if errors.Is(err, io.EOF) {
			// empty document, every required field is missing
			err = nil
		}
	case HCL:
		err = decodeHCL(data, filename, v)
	default:
		err = toml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrConfig, filename, err)
	}
	return nil
}
