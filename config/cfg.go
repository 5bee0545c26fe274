package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// PreviewConfig controls generation of the XHTML preview page next to the
	// produced stylesheet.
	PreviewConfig struct {
		Generate      bool   `yaml:"generate"`
		TitleTemplate string `yaml:"title_template" validate:"required_unless=Generate false"`
		SampleText    string `yaml:"sample_text"`
	}

	// SwatchConfig controls generation of the palette swatch image.
	SwatchConfig struct {
		Generate bool        `yaml:"generate"`
		Shape    SwatchShape `yaml:"shape" validate:"oneof=0 1"`
		CellSize int         `yaml:"cell_size" validate:"min=16,max=512"`
		Columns  int         `yaml:"columns" validate:"min=1,max=16"`
	}

	DocumentConfig struct {
		FixZip                bool          `yaml:"fix_zip"`
		RuleOrder             RuleOrder     `yaml:"rule_order" validate:"oneof=0 1"`
		OutputNameTemplate    string        `yaml:"output_name_template"`
		FileNameTransliterate bool          `yaml:"file_name_transliterate"`
		BundleNameCharset     string        `yaml:"bundle_name_charset"`
		Preview               PreviewConfig `yaml:"preview"`
		Swatch                SwatchConfig  `yaml:"swatch"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// values must match the yaml tags above - template processing skips
	// fields by their yaml name
	OutputNameTemplateFieldName   TemplateFieldName = "output_name_template"
	PreviewTitleTemplateFieldName TemplateFieldName = "title_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(PreviewTitleTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// misspelled keys must fail the load, not silently drop settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposing its values on top of the expanded configuration template so
// every setting has a sane default, and validates the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("unable to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("unable to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal config to yaml: %w", err)
	}
	return data, nil
}
