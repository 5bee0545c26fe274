package build

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"cssg/stylesheet"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Bundle directories for resolved assets, split by kind.
const (
	FontsDir = "assets/fonts"
	OtherDir = "assets/other"
)

// urlExtractPattern extracts URLs from raw CSS value strings such as @font-face src
// or background property values. It matches url("path"), url('path'), and url(path).
var urlExtractPattern = regexp.MustCompile(`url\s*\(\s*(?:["']([^"']*)["']|([^)"]*))\s*\)`)

// cssExternalRef represents a reference found in CSS
type cssExternalRef struct {
	URL     string // URL as it appears in CSS
	Context string // "font-face", "import", "include", "other"
}

// bundleAsset is a resource loaded for bundling, with the path it will
// occupy inside the bundle.
type bundleAsset struct {
	OriginalURL string // URL as authored in the recipe or include
	ID          string // unique id derived from the file name
	MimeType    string
	Data        []byte
	Filename    string // path inside the bundle
}

// collectStylesheetRefs extracts external resource references from the
// compiled stylesheet: @import URLs, @font-face sources, url() values in
// declarations and references inside included raw CSS.
func collectStylesheetRefs(css *stylesheet.Stylesheet) []cssExternalRef {
	var refs []cssExternalRef
	seen := make(map[string]bool)

	addURL := func(url, context string) {
		url = strings.TrimSpace(url)
		if url != "" && !seen[url] {
			refs = append(refs, cssExternalRef{URL: url, Context: context})
			seen[url] = true
		}
	}

	// extractURLs pulls url() references out of a raw CSS value string.
	extractURLs := func(raw, context string) {
		for _, m := range urlExtractPattern.FindAllStringSubmatch(raw, -1) {
			// Group 1 is quoted URL, group 2 is unquoted
			u := m[1]
			if u == "" {
				u = m[2]
			}
			addURL(u, context)
		}
	}

	for _, item := range css.Items {
		switch {
		case item.Import != nil:
			addURL(item.Import.URL, "import")

		case item.FontFace != nil:
			extractURLs(item.FontFace.Src, "font-face")

		case item.Rule != nil:
			for _, val := range item.Rule.Properties {
				if strings.Contains(val, "url(") {
					extractURLs(val, "other")
				}
			}

		case item.MediaBlock != nil:
			for _, rule := range item.MediaBlock.Rules {
				for _, val := range rule.Properties {
					if strings.Contains(val, "url(") {
						extractURLs(val, "other")
					}
				}
			}

		case item.Raw != nil:
			for _, u := range stylesheet.ExtractURLs([]byte(*item.Raw)) {
				addURL(u, "include")
			}
		}
	}

	return refs
}

// resolveAssets loads every local resource the compiled stylesheet references
// from the recipe's filesystem. References that cannot be loaded or fail
// validation are left alone with a warning so the stylesheet still renders
// with its original URLs. fsys is rooted at the recipe's directory and
// fs.ReadFile refuses absolute paths and paths containing ".." that would
// escape the root, which prevents path traversal (e.g. url('../../etc/passwd')).
func resolveAssets(css *stylesheet.Stylesheet, fsys fs.FS, log *zap.Logger) []bundleAsset {
	refs := collectStylesheetRefs(css)
	if len(refs) == 0 {
		return nil
	}

	log.Debug("Found external references in stylesheet", zap.Int("count", len(refs)))

	var assets []bundleAsset
	usedIDs := make(map[string]bool)

	for _, ref := range refs {
		// Skip data: URLs (already embedded)
		if strings.HasPrefix(ref.URL, "data:") {
			log.Debug("Skipping data URL", zap.String("url", ref.URL[:min(50, len(ref.URL))]))
			continue
		}

		// Warn about absolute HTTP(S) URLs - cannot be bundled
		if strings.HasPrefix(ref.URL, "http://") || strings.HasPrefix(ref.URL, "https://") {
			log.Warn("External URL in stylesheet cannot be bundled",
				zap.String("url", ref.URL),
				zap.String("context", ref.Context))
			continue
		}

		if asset := loadAsset(ref, fsys, usedIDs, log); asset != nil {
			assets = append(assets, *asset)
		}
	}

	return assets
}

// loadAsset reads one referenced resource and prepares it for bundling.
func loadAsset(ref cssExternalRef, fsys fs.FS, usedIDs map[string]bool, log *zap.Logger) *bundleAsset {
	// fs.FS uses forward-slash paths, so normalize.
	resourcePath := filepath.ToSlash(ref.URL)

	data, err := fs.ReadFile(fsys, resourcePath)
	if err != nil {
		log.Warn("Unable to load stylesheet resource from file",
			zap.String("url", ref.URL),
			zap.String("context", ref.Context),
			zap.Error(err))
		return nil
	}

	// Detect MIME type - prefer extension-based detection for fonts
	mimeType := ""
	if ext := filepath.Ext(ref.URL); ext != "" {
		mimeType = extToMimeType(ext)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	if !validateLoadedResource(mimeType, data) {
		log.Warn("Loaded stylesheet resource failed validation",
			zap.String("url", ref.URL),
			zap.String("path", resourcePath),
			zap.String("context", ref.Context))
		return nil
	}

	// Use only basename from original URL for the filename
	baseName := filepath.Base(ref.URL)

	// Generate unique ID for this resource (without extension)
	resourceID := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	resourceID = sanitizeResourceFilename(resourceID)
	if resourceID == "" || resourceID == "." {
		resourceID = fmt.Sprintf("loaded-resource-%d", len(usedIDs))
	}

	// Make sure ID is unique
	counter := 0
	originalID := resourceID
	for {
		if !usedIDs[resourceID] {
			break
		}
		counter++
		resourceID = fmt.Sprintf("%s-%d", originalID, counter)
	}
	usedIDs[resourceID] = true

	// Determine directory based on MIME type
	var dir string
	if isFontMIME(mimeType) {
		dir = FontsDir
	} else {
		dir = OtherDir
	}

	asset := &bundleAsset{
		OriginalURL: ref.URL,
		ID:          resourceID,
		MimeType:    mimeType,
		Data:        data,
		Filename:    baseName,
	}

	// Ensure filename has extension
	if filepath.Ext(asset.Filename) == "" {
		ext := mimeToExtension(mimeType)
		asset.Filename = asset.Filename + ext
	}

	// Resources with clashing base names follow their unique id
	if counter > 0 {
		asset.Filename = resourceID + filepath.Ext(asset.Filename)
	}

	// Set full path with directory
	asset.Filename = path.Join(dir, asset.Filename)

	log.Info("Loaded stylesheet resource from file",
		zap.String("url", ref.URL),
		zap.String("path", resourcePath),
		zap.String("id", resourceID),
		zap.String("filename", asset.Filename),
		zap.String("mime", mimeType),
		zap.Int("bytes", len(data)))

	return asset
}

// rewriteForBundle replaces authored URLs with bundle paths for every
// resolved asset, covering both structured items and included raw CSS.
func rewriteForBundle(css *stylesheet.Stylesheet, assets []bundleAsset) {
	if len(assets) == 0 {
		return
	}

	mapped := make(map[string]string, len(assets))
	for i := range assets {
		mapped[assets[i].OriginalURL] = assets[i].Filename
	}

	css.RewriteURLs(func(u string) string {
		if p, ok := mapped[u]; ok {
			return p
		}
		return u
	})

	for i := range css.Items {
		if css.Items[i].Raw == nil {
			continue
		}
		rewritten := urlExtractPattern.ReplaceAllStringFunc(*css.Items[i].Raw, func(match string) string {
			sub := urlExtractPattern.FindStringSubmatch(match)
			if len(sub) < 3 {
				return match
			}
			u := sub[1]
			if u == "" {
				u = sub[2]
			}
			if p, ok := mapped[strings.TrimSpace(u)]; ok {
				return stylesheet.URLValue(p)
			}
			return match
		})
		css.Items[i].Raw = &rewritten
	}
}

// sanitizeResourceFilename creates a safe filename from URL
func sanitizeResourceFilename(url string) string {
	// Remove path traversal attempts
	url = strings.ReplaceAll(url, "..", "")
	url = strings.TrimPrefix(url, "/")

	// Get base filename
	base := filepath.Base(url)

	// If no extension or empty, return as-is
	if base == "" || base == "." {
		return ""
	}

	return base
}

// validateLoadedResource performs additional sanity checks on loaded resource data
func validateLoadedResource(mimeType string, data []byte) bool {
	// do additional sanity check
	switch mimeType {
	case "font/woff":
		return filetype.Is(data, "woff")
	case "font/woff2":
		return filetype.Is(data, "woff2")
	case "font/ttf":
		return filetype.Is(data, "ttf")
	case "font/otf":
		return filetype.Is(data, "otf")
	}
	// Raster images must at least carry a parsable header
	if strings.HasPrefix(mimeType, "image/") && mimeType != "image/svg+xml" {
		_, _, err := image.DecodeConfig(bytes.NewReader(data))
		return err == nil
	}
	return true
}

// mimeToExtension returns file extension for common MIME types
func mimeToExtension(mimeType string) string {
	switch mimeType {
	case "font/woff", "application/font-woff":
		return ".woff"
	case "font/woff2", "application/font-woff2":
		return ".woff2"
	case "font/ttf", "application/x-font-ttf", "application/font-sfnt":
		return ".ttf"
	case "font/otf", "application/x-font-otf":
		return ".otf"
	case "application/vnd.ms-fontobject":
		return ".eot"
	case "image/svg+xml":
		return ".svg"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// extToMimeType returns MIME type for common font and image file extensions
func extToMimeType(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".eot":
		return "application/vnd.ms-fontobject"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}

// isFontMIME returns true if the MIME type indicates a font resource
func isFontMIME(mimeType string) bool {
	return strings.HasPrefix(mimeType, "font/") ||
		strings.HasPrefix(mimeType, "application/font-") ||
		strings.HasPrefix(mimeType, "application/x-font-") ||
		mimeType == "application/vnd.ms-fontobject"
}
