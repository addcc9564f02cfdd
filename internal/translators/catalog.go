package translators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/transcheck/internal/models"
)

// FilePattern matches translator files at the repository top level only
const FilePattern = "*.js"

var (
	// ErrNoHeader is returned when a file does not start with a JSON metadata header
	ErrNoHeader = errors.New("translator has no metadata header")

	// ErrNoTranslatorID is returned when the header has no translatorID
	ErrNoTranslatorID = errors.New("translator header has no translatorID")
)

// Catalog indexes the translators of a repository by filename and ID
type Catalog struct {
	dir        string
	byFilename map[string]*models.Translator
	byID       map[string]*models.Translator
	ordered    []*models.Translator
}

// LoadCatalog loads every top-level translator file in dir.
// Files without a usable header are skipped with a warning.
func LoadCatalog(dir string, logger arbor.ILogger) (*Catalog, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), FilePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list translators in %s: %w", dir, err)
	}
	sort.Strings(matches)

	c := &Catalog{
		dir:        dir,
		byFilename: make(map[string]*models.Translator, len(matches)),
		byID:       make(map[string]*models.Translator, len(matches)),
	}

	for _, name := range matches {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read translator %s: %w", name, err)
		}

		translator, err := ParseTranslator(name, data)
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("Skipping translator")
			continue
		}

		if existing, ok := c.byID[translator.ID()]; ok {
			logger.Warn().
				Str("file", name).
				Str("translator_id", translator.ID()).
				Str("existing_file", existing.Filename).
				Msg("Skipping translator with duplicate ID")
			continue
		}

		c.byFilename[name] = translator
		c.byID[translator.ID()] = translator
		c.ordered = append(c.ordered, translator)
	}

	logger.Debug().
		Str("dir", dir).
		Int("files", len(matches)).
		Int("translators", len(c.ordered)).
		Msg("Translator catalog loaded")

	return c, nil
}

// ParseTranslator reads the leading JSON metadata object of a translator file
func ParseTranslator(filename string, data []byte) (*models.Translator, error) {
	trimmed := bytes.TrimLeft(data, "\ufeff \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoHeader)
	}

	var meta models.TranslatorMetadata
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	if err := decoder.Decode(&meta); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filename, ErrNoHeader, err)
	}
	if meta.TranslatorID == "" {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoTranslatorID)
	}

	return &models.Translator{
		Filename: filename,
		Metadata: meta,
		Content:  string(data),
	}, nil
}

// Dir returns the directory the catalog was loaded from
func (c *Catalog) Dir() string {
	return c.dir
}

// ByFilename looks up a translator by its file name relative to the repository root
func (c *Catalog) ByFilename(name string) (*models.Translator, bool) {
	t, ok := c.byFilename[filepath.ToSlash(name)]
	return t, ok
}

// ByID looks up a translator by translatorID
func (c *Catalog) ByID(id string) (*models.Translator, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// All returns every translator ordered by filename
func (c *Catalog) All() []*models.Translator {
	out := make([]*models.Translator, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// IDs returns every translator ID ordered by filename
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.ordered))
	for _, t := range c.ordered {
		ids = append(ids, t.ID())
	}
	return ids
}

// Metadata returns the metadata of every translator ordered by filename
func (c *Catalog) Metadata() []models.TranslatorMetadata {
	out := make([]models.TranslatorMetadata, 0, len(c.ordered))
	for _, t := range c.ordered {
		out = append(out, t.Metadata)
	}
	return out
}

// Len returns the number of translators
func (c *Catalog) Len() int {
	return len(c.ordered)
}
