// Package build implements the generation pipeline: it locates theme recipes
// in files, directories and zip archives, compiles them into stylesheets and
// writes the requested output next to optional preview and swatch artifacts.
package build

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// detectionHeadSize is how many bytes from the beginning of a file are
// examined when sniffing its type.
const detectionHeadSize = 512

// srcEncoding identifies source text encoding detected from the BOM.
type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF sniffs text encoding from the BOM. The UTF-32 little endian BOM
// starts with the UTF-16 one, so 4 byte BOMs are checked first.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// isArchiveFile checks if the file is a zip archive: both proper extension and
// matching content are required.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, detectionHeadSize)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	return filetype.Is(buf[:n], "zip"), nil
}

func hasRecipeExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// sniffRecipe decides whether head bytes look like recipe text. YAML has no
// magic to match, so the check is negative: after BOM detection anything
// carrying NUL bytes in an 8-bit encoding is binary garbage, everything else
// passes and real problems surface when the recipe is decoded.
func sniffRecipe(head []byte) (bool, srcEncoding) {
	enc := detectUTF(head)
	switch enc {
	case encUnknown, encUTF8:
		if bytes.IndexByte(head, 0x00) >= 0 {
			return false, encUnknown
		}
	}
	return true, enc
}

// isRecipeFile checks if the file looks like a theme recipe, returning the
// text encoding detected from the BOM when there is one.
func isRecipeFile(path string) (bool, srcEncoding, error) {
	if !hasRecipeExt(path) {
		return false, encUnknown, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	buf := make([]byte, detectionHeadSize)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, encUnknown, err
	}

	recipe, enc := sniffRecipe(buf[:n])
	return recipe, enc, nil
}

// isRecipeInArchive checks if the archive member looks like a theme recipe,
// same rules as isRecipeFile.
func isRecipeInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !hasRecipeExt(f.FileHeader.Name) {
		return false, encUnknown, nil
	}

	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	buf := make([]byte, detectionHeadSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, encUnknown, err
	}

	recipe, enc := sniffRecipe(buf[:n])
	return recipe, enc, nil
}

// selectReader wraps r with a decoder matching the detected encoding. The
// decoders consume the BOM, so the recipe parser always sees clean UTF-8.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder())
	default:
		// this should never happen
		panic("unsupported source encoding")
	}
}
