package build

import (
	"strings"
	"testing"

	"cssg/config"
	"cssg/recipe"
)

func setupTestRecipeForTemplate(t *testing.T, rcp *recipe.Recipe) *recipe.Recipe {
	t.Helper()
	if rcp == nil {
		rcp = &recipe.Recipe{
			ID:   "test-id",
			Name: "Test Theme",
		}
	}
	return rcp
}

func TestExpandTemplate_SimpleText(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, nil)

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "simple-text", config.OutputFmtCss, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "simple-text" {
		t.Errorf("expandTemplate() = %q, want %q", result, "simple-text")
	}
}

func TestExpandTemplate_Name(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, &recipe.Recipe{
		ID:   "test-id",
		Name: "My Great Theme",
	})

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .Name }}", config.OutputFmtCss, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "My Great Theme" {
		t.Errorf("expandTemplate() = %q, want %q", result, "My Great Theme")
	}
}

func TestExpandTemplate_ID(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, &recipe.Recipe{
		ID:   "unique-theme-id-123",
		Name: "Theme",
	})

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .ID }}", config.OutputFmtCss, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "unique-theme-id-123" {
		t.Errorf("expandTemplate() = %q, want %q", result, "unique-theme-id-123")
	}
}

func TestExpandTemplate_Palette(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, &recipe.Recipe{
		ID:   "test-id",
		Name: "Theme",
		Palette: map[string]string{
			"text":   "#222",
			"accent": "#4488cc",
			"base":   "#fff",
		},
	})

	// Palette names come natural-sorted.
	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ index .Palette 0 }}", config.OutputFmtCss, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "accent" {
		t.Errorf("expandTemplate() = %q, want %q", result, "accent")
	}
}

func TestExpandTemplate_Rules(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, &recipe.Recipe{
		ID:   "test-id",
		Name: "Theme",
		Rules: []recipe.RuleSpec{
			{Selector: recipe.SelectorSpec{Element: "p"}, Properties: map[string]string{"margin": "0"}},
			{Selector: recipe.SelectorSpec{Element: "h1"}, Properties: map[string]string{"margin": "0"}},
		},
	})

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .Rules }}", config.OutputFmtCss, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "2" {
		t.Errorf("expandTemplate() = %q, want %q", result, "2")
	}
}

func TestExpandTemplate_Format(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, nil)

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .Format }}", config.OutputFmtBundle, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "bundle" {
		t.Errorf("expandTemplate() = %q, want %q", result, "bundle")
	}
}

func TestExpandTemplate_SourceFile(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, nil)

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .SourceFile }}", config.OutputFmtCss, "path/to/mytheme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "mytheme" {
		t.Errorf("expandTemplate() = %q, want %q", result, "mytheme")
	}
}

func TestExpandTemplate_ComplexTemplate(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, &recipe.Recipe{
		ID:   "test-id",
		Name: "The Great Theme",
		Palette: map[string]string{
			"accent": "#4488cc",
		},
		Rules: []recipe.RuleSpec{
			{Selector: recipe.SelectorSpec{Element: "p"}, Properties: map[string]string{"margin": "0"}},
		},
	})

	template := "{{ .Format }}/{{ index .Palette 0 }}/{{ printf \"%02d\" .Rules }} - {{ .Name }}"
	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, template, config.OutputFmtCss, "source.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}

	expected := "css/accent/01 - The Great Theme"
	if result != expected {
		t.Errorf("expandTemplate() = %q, want %q", result, expected)
	}
}

func TestExpandTemplate_SprigFunctions(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, &recipe.Recipe{
		ID:   "test-id",
		Name: "test theme",
	})

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .Name | title }}", config.OutputFmtCss, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "Test Theme" {
		t.Errorf("expandTemplate() = %q, want %q", result, "Test Theme")
	}
}

func TestExpandTemplate_InvalidTemplate(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, nil)

	_, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .Name", config.OutputFmtCss, "theme.yaml")
	if err == nil {
		t.Error("expandTemplate() expected error for invalid template, got nil")
	}
}

func TestExpandTemplate_InvalidField(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, nil)

	_, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .NonExistentField }}", config.OutputFmtCss, "theme.yaml")
	if err == nil {
		t.Error("expandTemplate() expected error for invalid field, got nil")
	}
}

func TestExpandTemplate_PathSeparators(t *testing.T) {
	rcp := setupTestRecipeForTemplate(t, &recipe.Recipe{
		ID:   "test-id",
		Name: "Theme",
	})

	result, err := expandTemplate(rcp, config.OutputNameTemplateFieldName, "{{ .Format }}/{{ .Name }}", config.OutputFmtCss, "theme.yaml")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}

	// Should contain forward slash for path separation
	if !strings.Contains(result, "/") {
		t.Errorf("expandTemplate() = %q, want to contain /", result)
	}
}
