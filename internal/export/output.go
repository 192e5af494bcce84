package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/mesh-intelligence/timelog/pkg/types"
)

// Output encodings accepted by Encode.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
)

const utf8BOM = "\uFEFF"

// encodingAliases maps accepted spellings to canonical encoding names.
var encodingAliases = map[string]string{
	"":             EncodingUTF8,
	"utf-8":        EncodingUTF8,
	"utf8":         EncodingUTF8,
	"utf-8-bom":    EncodingUTF8BOM,
	"utf8-bom":     EncodingUTF8BOM,
	"windows-1252": EncodingWindows1252,
	"cp1252":       EncodingWindows1252,
	"iso-8859-1":   EncodingISO88591,
	"latin1":       EncodingISO88591,
}

var charmaps = map[string]encoding.Encoding{
	EncodingWindows1252: charmap.Windows1252,
	EncodingISO88591:    charmap.ISO8859_1,
}

// CanonicalEncoding resolves name to one of the Encoding constants.
func CanonicalEncoding(name string) (string, error) {
	canon, ok := encodingAliases[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownEncoding, name)
	}
	return canon, nil
}

// Encode converts the export text to the named encoding. Characters the
// target encoding cannot represent fail the conversion.
func Encode(text, name string) ([]byte, error) {
	canon, err := CanonicalEncoding(name)
	if err != nil {
		return nil, err
	}
	switch canon {
	case EncodingUTF8:
		return []byte(text), nil
	case EncodingUTF8BOM:
		return []byte(utf8BOM + text), nil
	}
	out, err := charmaps[canon].NewEncoder().String(text)
	if err != nil {
		return nil, fmt.Errorf("encoding output as %s: %w", canon, err)
	}
	return []byte(out), nil
}

// WriteFile atomically writes data to path using the temp-file, fsync,
// rename pattern, so a failed export never leaves a partial file behind.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing export: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
