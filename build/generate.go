package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"cssg/config"
	"cssg/recipe"
	"cssg/stylesheet"
)

// Sidecar suffixes for artifacts written next to a plain stylesheet. Inside a
// bundle the same artifacts use their fixed member names instead.
const (
	previewSuffix = ".preview.xhtml"
	swatchSuffix  = ".swatch.png"
)

// generateCSS creates the plain stylesheet output file, with optional preview
// page and palette swatch written next to it.
func generateCSS(ctx context.Context, rcp *recipe.Recipe, css *stylesheet.Stylesheet, outputPath, srcName string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("Generating stylesheet", zap.String("output", outputPath))

	if err := writeStylesheetFile(css, outputPath); err != nil {
		return err
	}

	if cfg.Preview.Generate {
		doc, err := generatePreview(rcp, cfg, config.OutputFmtCss, filepath.Base(outputPath), srcName)
		if err != nil {
			return fmt.Errorf("unable to generate preview: %w", err)
		}
		name := sidecarName(outputPath, previewSuffix)
		if err := doc.WriteToFile(name); err != nil {
			return fmt.Errorf("unable to write preview: %w", err)
		}
		log.Debug("Wrote preview", zap.String("file", name))
	}

	if cfg.Swatch.Generate {
		data, err := generateSwatch(rcp, &cfg.Swatch)
		if err != nil {
			return fmt.Errorf("unable to generate swatch: %w", err)
		}
		if len(data) > 0 {
			name := sidecarName(outputPath, swatchSuffix)
			if err := os.WriteFile(name, data, 0644); err != nil {
				return fmt.Errorf("unable to write swatch: %w", err)
			}
			log.Debug("Wrote swatch", zap.String("file", name))
		}
	}
	return nil
}

// generateBundle prepares everything that goes into a bundle and writes the
// archive: assets are pulled in and stylesheet references rewritten to their
// bundled locations first.
func generateBundle(ctx context.Context, rcp *recipe.Recipe, css *stylesheet.Stylesheet, fsys fs.FS, workDir, outputPath, srcName string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	assets := resolveAssets(css, fsys, log)
	rewriteForBundle(css, assets)

	var preview *etree.Document
	if cfg.Preview.Generate {
		doc, err := generatePreview(rcp, cfg, config.OutputFmtBundle, bundleStylesheetName, srcName)
		if err != nil {
			return fmt.Errorf("unable to generate preview: %w", err)
		}
		preview = doc
	}

	var swatch []byte
	if cfg.Swatch.Generate {
		data, err := generateSwatch(rcp, &cfg.Swatch)
		if err != nil {
			return fmt.Errorf("unable to generate swatch: %w", err)
		}
		swatch = data
	}

	return writeBundle(ctx, rcp, css, assets, preview, swatch, workDir, outputPath, cfg, log)
}

func writeStylesheetFile(css *stylesheet.Stylesheet, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	if _, err := css.WriteTo(f); err != nil {
		return fmt.Errorf("unable to render stylesheet: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	return nil
}

// sidecarName swaps the output extension for a sidecar suffix, so "dark.css"
// gets "dark.preview.xhtml" and "dark.swatch.png" next to it.
func sidecarName(outputPath, suffix string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + suffix
}
