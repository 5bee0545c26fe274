package build

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"cssg/config"
	"cssg/recipe"
	"cssg/stylesheet"
)

// Fixed member names inside a bundle. Resolved assets go under FontsDir and
// OtherDir next to them.
const (
	bundleStylesheetName = "stylesheet.css"
	bundleRecipeName     = "recipe.json"
	bundlePreviewName    = "preview.xhtml"
	bundleSwatchName     = "swatch.png"
)

// writeBundle creates the bundle output file: a zip archive with the rendered
// stylesheet, a machine-readable copy of the recipe, optional preview page and
// palette swatch, and all bundled assets. The archive is assembled in workDir
// first and moved into place only when complete.
func writeBundle(ctx context.Context, rcp *recipe.Recipe, css *stylesheet.Stylesheet, assets []bundleAsset, preview *etree.Document, swatch []byte, workDir, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("Generating bundle", zap.String("output", outputPath))

	nameEnc := resolveNameEncoding(cfg.BundleNameCharset, log)

	_, tmpName := filepath.Split(outputPath)
	tmpName = filepath.Join(workDir, tmpName)

	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	var buf bytes.Buffer
	if _, err := css.WriteTo(&buf); err != nil {
		return fmt.Errorf("unable to render stylesheet: %w", err)
	}
	if err := writeDataToZip(zw, bundleStylesheetName, buf.Bytes()); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}

	buf.Reset()
	if err := rcp.MarshalTo(&buf); err != nil {
		return fmt.Errorf("unable to write recipe: %w", err)
	}
	if err := writeDataToZip(zw, bundleRecipeName, buf.Bytes()); err != nil {
		return fmt.Errorf("unable to write recipe: %w", err)
	}

	if preview != nil {
		if err := writeXMLToZip(zw, bundlePreviewName, preview); err != nil {
			return fmt.Errorf("unable to write preview: %w", err)
		}
	}

	if len(swatch) > 0 {
		if err := writeDataToZip(zw, bundleSwatchName, swatch); err != nil {
			return fmt.Errorf("unable to write swatch: %w", err)
		}
	}

	if err := writeAssets(zw, assets, nameEnc, log); err != nil {
		return fmt.Errorf("unable to write assets: %w", err)
	}

	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	// clean temporary file
	defer os.Remove(tmpName)

	if cfg.FixZip {
		return copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return copyFile(tmpName, outputPath)
}

func writeAssets(zw *zip.Writer, assets []bundleAsset, nameEnc encoding.Encoding, log *zap.Logger) error {
	for _, asset := range assets {
		if err := writeEncodedToZip(zw, asset.Filename, asset.Data, nameEnc, log); err != nil {
			return fmt.Errorf("unable to write asset %s: %w", asset.ID, err)
		}
		log.Debug("Wrote asset", zap.String("id", asset.ID), zap.String("file", asset.Filename))
	}
	return nil
}

// resolveNameEncoding looks up the configured charset for bundle member names.
// The zip "standard" does not define file name encoding, so consumers stuck on
// an archaic code page may need member names in that code page.
func resolveNameEncoding(label string, log *zap.Logger) encoding.Encoding {
	if len(label) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", label), zap.Error(err))
		return nil
	}
	if enc == nil {
		// registered with IANA but not carried by x/text
		log.Warn("Unsupported character set specification. Ignoring...", zap.String("charset", label))
		return nil
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully converting non ASCII member names in bundle", zap.String("charset", n))
	return enc
}

// writeEncodedToZip stores data under a member name re-encoded with enc,
// clearing the name's UTF-8 flag when re-encoding actually changed it. Names
// the target code page cannot express stay in UTF-8.
func writeEncodedToZip(zw *zip.Writer, name string, data []byte, enc encoding.Encoding, log *zap.Logger) error {
	encoded := name
	if enc != nil {
		if n, err := enc.NewEncoder().String(name); err == nil {
			encoded = n
		} else {
			cs, _ := ianaindex.IANA.Name(enc)
			log.Warn("Unable to convert bundle member name to specified encoding",
				zap.String("charset", cs), zap.String("name", name), zap.Error(err))
		}
	}
	if encoded == name {
		return writeDataToZip(zw, name, data)
	}
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:    encoded,
		Method:  zip.Deflate,
		NonUTF8: true,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err = destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}
