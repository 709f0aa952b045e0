package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Codec converts a settings value to and from its on-disk text form.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the default codec. Output is indented with two spaces.
var JSON Codec = jsonCodec{}

// YAML encodes settings with gopkg.in/yaml.v3.
var YAML Codec = yamlCodec{}

// TOML encodes settings with github.com/pelletier/go-toml/v2. The stored type
// must be a struct or a map.
var TOML Codec = tomlCodec{}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.MarshalIndent(v, "", "  ") }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

type tomlCodec struct{}

func (tomlCodec) Marshal(v any) ([]byte, error)      { return toml.Marshal(v) }
func (tomlCodec) Unmarshal(data []byte, v any) error { return toml.Unmarshal(data, v) }

// CodecFor returns the codec matching a file extension, with or without the
// leading dot. Unknown extensions get JSON.
func CodecFor(ext string) Codec {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		return YAML
	case "toml":
		return TOML
	default:
		return JSON
	}
}

// encode marshals v, turning encoder panics (yaml panics on funcs and
// channels) into ErrFormat.
func encode(c Codec, v any) (data []byte, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			retErr = fmt.Errorf("%w: %v", ErrFormat, r)
		}
	}()

	data, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return data, nil
}

func decode(c Codec, data []byte, v any) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()

	if err := c.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return nil
}
