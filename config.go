package keycast

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Configuration errors. Every load failure wraps exactly one of these.
var (
	ErrConfigNotFound  = errors.New("configuration file not found")
	ErrConfigMalformed = errors.New("configuration could not be decoded")
	ErrConfigInvalid   = errors.New("configuration is invalid")
)

// Defaults applied to fields the document leaves out.
const (
	DefaultConfigFile     = "keyboard_config.json"
	DefaultLayoutName     = "qwerty_us"
	DefaultTypingSpeed    = 0.2
	DefaultHighlightColor = "#00FF88"
	DefaultRandomness     = 0.1
)

//go:embed config.schema.json
var configSchemaJSON []byte

const configSchemaURL = "keycast://config.schema.json"

var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, bytes.NewReader(configSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(configSchemaURL)
})

// Config is the declarative description of one clip.
type Config struct {
	SelectedLayout string            `json:"selected_layout"`
	Layouts        Layouts           `json:"layouts"`
	Categories     map[string]string `json:"categories"`
	VideoTopic     TopicConfig       `json:"video_topic"`
	Animation      AnimationConfig   `json:"animation"`
}

// TopicConfig is the `video_topic` object.
type TopicConfig struct {
	Keys     []string          `json:"keys"`
	Title    string            `json:"title"`
	Sections map[string]string `json:"sections"`
}

// AnimationConfig is the `animation` object.
type AnimationConfig struct {
	TypingSpeed    float64 `json:"typing_speed"`
	HighlightColor string  `json:"highlight_color"`
	Randomness     float64 `json:"randomness"`
	SoundFile      string  `json:"sound_file"`
}

// Layout is a named list of rows, each row a list of key labels.
type Layout struct {
	Name string
	Rows [][]string
}

// Layouts keeps the `layouts` object in declaration order.
type Layouts []Layout

// UnmarshalJSON decodes a JSON object of name -> rows, preserving key order.
func (ls *Layouts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*ls = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("layouts: expected object, got %v", tok)
	}
	var out Layouts
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var rows [][]string
		if err := dec.Decode(&rows); err != nil {
			return fmt.Errorf("layouts[%q]: %w", name, err)
		}
		out = append(out, Layout{Name: name, Rows: rows})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ls = out
	return nil
}

// Get returns the layout with the given name.
func (ls Layouts) Get(name string) (Layout, bool) {
	for _, l := range ls {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}

// ConfigFormat is the syntax of a configuration document.
type ConfigFormat uint8

const (
	FormatJSON ConfigFormat = iota
	FormatYAML
)

// FormatForPath picks the document syntax from a file extension. Anything
// that is not .yaml or .yml is read as JSON.
func FormatForPath(path string) ConfigFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a configuration document. YAML documents
// are converted to JSON first so both syntaxes share one schema and decoder.
func ParseConfig(data []byte, format ConfigFormat) (*Config, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigMalformed, err)
		}
		data = converted
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigMalformed, err)
	}

	schema, err := configSchema()
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	cfg := &Config{
		SelectedLayout: DefaultLayoutName,
		Animation: AnimationConfig{
			TypingSpeed:    DefaultTypingSpeed,
			HighlightColor: DefaultHighlightColor,
			Randomness:     DefaultRandomness,
		},
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigMalformed, err)
	}
	if cfg.Categories == nil {
		cfg.Categories = map[string]string{}
	}
	return cfg, nil
}

// Layout returns the selected layout, falling back to the first declared
// layout when the selected name is not declared. An empty layout is returned
// when no layouts are declared at all.
func (c *Config) Layout() Layout {
	if l, ok := c.Layouts.Get(c.SelectedLayout); ok {
		return l
	}
	if len(c.Layouts) == 0 {
		slog.Warn("no layouts declared; keyboard will be empty", "selected_layout", c.SelectedLayout)
		return Layout{}
	}
	fallback := c.Layouts[0]
	slog.Warn("selected layout not found; using first declared layout",
		"selected_layout", c.SelectedLayout, "fallback", fallback.Name)
	return fallback
}

// Topic returns the topic descriptor.
func (c *Config) Topic() Topic {
	return Topic{
		Title:    c.VideoTopic.Title,
		Keys:     c.VideoTopic.Keys,
		Sections: c.VideoTopic.Sections,
	}
}

// AnimationSettings returns the parsed animation settings.
func (c *Config) AnimationSettings() (AnimationSettings, error) {
	col, err := ParseColor(c.Animation.HighlightColor)
	if err != nil {
		return AnimationSettings{}, fmt.Errorf("%w: highlight_color: %v", ErrConfigInvalid, err)
	}
	return AnimationSettings{
		TypingSpeed:    c.Animation.TypingSpeed,
		HighlightColor: col,
		Randomness:     c.Animation.Randomness,
		SoundFile:      c.Animation.SoundFile,
	}, nil
}

// --- YAML ---

// yamlToJSON re-encodes a YAML document as JSON, keeping mapping key order.
// Scalars inside sequences are always emitted as strings because every
// sequence in the document holds key labels, and labels like 1 or 2 must not
// turn into numbers.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeYAMLNode(&buf, &doc, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeYAMLNode(buf *bytes.Buffer, n *yaml.Node, inSeq bool) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLNode(buf, n.Content[0], false)
	case yaml.AliasNode:
		return writeYAMLNode(buf, n.Alias, inSeq)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeYAMLNode(buf, n.Content[i+1], false); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLNode(buf, item, true); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		var v any = n.Value
		if !inSeq {
			if err := n.Decode(&v); err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
		}
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(out)
		return nil
	}
	return fmt.Errorf("line %d: unsupported YAML node", n.Line)
}
