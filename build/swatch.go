package build

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"

	"cssg/config"
	"cssg/recipe"
	imgutil "cssg/utils/images"
)

const (
	swatchSupersample = 2
	// upper bound on the supersampled raster so very large palettes with the
	// maximum cell size cannot exhaust memory
	maxSwatchPixels = 1 << 24
)

var swatchAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")

// generateSwatch renders the recipe palette as a PNG color grid: one cell per
// palette entry in name order, square or round per configuration. The grid is
// drawn as SVG, rasterized supersampled and scaled back down for clean cell
// edges. A recipe without a palette produces no swatch.
func generateSwatch(rcp *recipe.Recipe, cfg *config.SwatchConfig) ([]byte, error) {
	names := rcp.PaletteNames()
	if len(names) == 0 {
		return nil, nil
	}

	cell := cfg.CellSize
	columns := cfg.Columns
	if len(names) < columns {
		columns = len(names)
	}
	rows := (len(names) + columns - 1) / columns
	grid := imgutil.NewRect(columns*cell, rows*cell)

	svg := buildSwatchSVG(rcp.Palette, names, cfg.Shape, cell, columns, grid)

	target := grid.Scale(swatchSupersample)
	if target.Area() > maxSwatchPixels {
		target = grid
	}

	img, err := imgutil.RasterizeSVGToImage([]byte(svg), target.Width, target.Height)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize swatch: %w", err)
	}

	if target != grid {
		resized := imaging.Resize(img, grid.Width, grid.Height, imaging.Lanczos)
		if resized == nil {
			return nil, fmt.Errorf("unable to resize swatch to %dx%d", grid.Width, grid.Height)
		}
		img = resized
	}

	// All-gray palettes encode smaller as grayscale
	if imgutil.IsGrayscale(img) {
		img = imgutil.ToGray(img)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("unable to encode swatch: %w", err)
	}
	return buf.Bytes(), nil
}

func buildSwatchSVG(palette map[string]string, names []string, shape config.SwatchShape, cell, columns int, grid imgutil.Rect) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		grid.Width, grid.Height, grid.Width, grid.Height)
	b.WriteString("\n")

	for i, name := range names {
		x := (i % columns) * cell
		y := (i / columns) * cell
		fill := swatchAttrEscaper.Replace(palette[name])

		if shape == config.SwatchShapeCircle {
			fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`,
				x+cell/2, y+cell/2, cell/2, fill)
		} else {
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
				x, y, cell, cell, fill)
		}
		b.WriteString("\n")
	}

	b.WriteString("</svg>\n")
	return b.String()
}
