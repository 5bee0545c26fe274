package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigurationNoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Document.RuleOrder != RuleOrderRecipe {
		t.Errorf("RuleOrder = %v, want recipe", cfg.Document.RuleOrder)
	}

	// runtime templates must survive template processing untouched
	if cfg.Document.OutputNameTemplate != "{{.Name}}" {
		t.Errorf("OutputNameTemplate = %q, want {{.Name}}", cfg.Document.OutputNameTemplate)
	}
	if cfg.Document.Preview.TitleTemplate != "{{.Name}} preview" {
		t.Errorf("Preview.TitleTemplate = %q, want {{.Name}} preview", cfg.Document.Preview.TitleTemplate)
	}

	if cfg.Document.Swatch.Shape != SwatchShapeSquare {
		t.Errorf("Swatch.Shape = %v, want square", cfg.Document.Swatch.Shape)
	}
	if cfg.Document.Swatch.CellSize != 64 || cfg.Document.Swatch.Columns != 4 {
		t.Errorf("Swatch geometry = %dx%d cells, want 64 cell size and 4 columns",
			cfg.Document.Swatch.CellSize, cfg.Document.Swatch.Columns)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("ConsoleLogger.Level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("FileLogger.Level = %q, want none", cfg.Logging.FileLogger.Level)
	}
	if len(cfg.Reporting.Destination) == 0 {
		t.Error("Reporting.Destination is empty")
	}
}

func TestLoadConfigurationWithFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `version: 1
document:
  fix_zip: true
  rule_order: sorted
  swatch:
    generate: true
    shape: circle
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Document.FixZip {
		t.Error("Expected FixZip to be true")
	}
	if cfg.Document.RuleOrder != RuleOrderSorted {
		t.Errorf("RuleOrder = %v, want sorted", cfg.Document.RuleOrder)
	}
	if !cfg.Document.Swatch.Generate || cfg.Document.Swatch.Shape != SwatchShapeCircle {
		t.Errorf("Swatch = %+v, want generated circles", cfg.Document.Swatch)
	}

	// values not present in the file keep template defaults
	if cfg.Document.Swatch.CellSize != 64 {
		t.Errorf("Swatch.CellSize = %d, want default 64", cfg.Document.Swatch.CellSize)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("ConsoleLogger.Level = %q, want default normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown field",
			content: `version: 1
spam: true
`,
		},
		{
			name: "invalid yaml",
			content: `version: 1
document:
  fix_zip: true
  invalid indent
`,
		},
		{
			name:    "bad version",
			content: "version: 2\n",
		},
		{
			name: "bad enum value",
			content: `version: 1
document:
  rule_order: fancy
`,
		},
		{
			name: "preview without title template",
			content: `version: 1
document:
  preview:
    generate: true
    title_template: ""
`,
		},
		{
			name: "swatch cell too small",
			content: `version: 1
document:
  swatch:
    cell_size: 4
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("LoadConfiguration() error = nil, want error")
			}
		})
	}
}

func TestLoadConfigurationNonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}

	cfg := &Config{}
	if _, err = unmarshalConfig(data, cfg, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Document.RuleOrder = RuleOrderSorted
	cfg.Document.Swatch.Shape = SwatchShapeCircle

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	// enums dump as their names, not numbers
	if !strings.Contains(string(data), "rule_order: sorted") {
		t.Errorf("Dump() output does not contain rule_order: sorted:\n%s", data)
	}
	if !strings.Contains(string(data), "shape: circle") {
		t.Errorf("Dump() output does not contain shape: circle:\n%s", data)
	}

	cfg2 := &Config{}
	if _, err := unmarshalConfig(data, cfg2, false); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Document.RuleOrder != RuleOrderSorted {
		t.Errorf("RuleOrder after round trip = %v, want sorted", cfg2.Document.RuleOrder)
	}
}

func TestUnmarshalConfigWrapsValidationError(t *testing.T) {
	// version: 99 fails the eq=1 validation and the error must carry context
	// while keeping the chain reachable for errors.Is / errors.Unwrap.
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestOutputFmt(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFmt
		wantErr bool
	}{
		{"css", OutputFmtCss, false},
		{"CSS", OutputFmtCss, false},
		{"bundle", OutputFmtBundle, false},
		{"scss", OutputFmt(0), true},
		{"", OutputFmt(0), true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFmt(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFmt(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseOutputFmt(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if got := OutputFmt(99).String(); got != "OutputFmt(99)" {
		t.Errorf("String() = %q, want OutputFmt(99)", got)
	}
	if OutputFmt(99).IsValid() {
		t.Error("IsValid() = true for out of range value")
	}
}

func TestOutputFmtExt(t *testing.T) {
	if got := OutputFmtCss.Ext(); got != ".css" {
		t.Errorf("OutputFmtCss.Ext() = %q, want .css", got)
	}
	if got := OutputFmtBundle.Ext(); got != ".zip" {
		t.Errorf("OutputFmtBundle.Ext() = %q, want .zip", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Ext() should panic for invalid format")
		}
	}()
	OutputFmt(99).Ext()
}

func TestRuleOrderNames(t *testing.T) {
	names := RuleOrderNames()
	want := []string{"recipe", "sorted"}

	if len(names) != len(want) {
		t.Fatalf("RuleOrderNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("RuleOrderNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
