package build

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"cssg/config"
	"cssg/recipe"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Name       string
	ID         string
	Palette    []string
	Rules      int
	Fonts      int
	Format     string
	SourceFile string
}

func expandTemplate(rcp *recipe.Recipe, name config.TemplateFieldName, field string, format config.OutputFmt, srcName string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Name:       rcp.Name,
		ID:         rcp.ID,
		Palette:    rcp.PaletteNames(),
		Rules:      len(rcp.Rules),
		Fonts:      len(rcp.Fonts),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
