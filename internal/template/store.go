package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/common"
)

// Every template file must match this shape: field name -> {x,y,w,h}.
var templateSchema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"additionalProperties": map[string]any{
		"type":     "object",
		"required": []string{"x", "y", "w", "h"},
		"properties": map[string]any{
			"x": map[string]any{"type": "integer", "minimum": 0},
			"y": map[string]any{"type": "integer", "minimum": 0},
			"w": map[string]any{"type": "integer", "minimum": 1},
			"h": map[string]any{"type": "integer", "minimum": 1},
		},
	},
}

// Store reads templates from a directory. Files are named after the
// lowercased region (e.g. negeri-sembilan.json). Loaded templates are cached
// and safe for concurrent readers.
type Store struct {
	dir           string
	createMissing bool
	schema        *jsonschema.Schema
	logger        *slog.Logger

	mu    sync.RWMutex
	cache map[constants.Region]Template
}

func NewStore(dir string, createMissing bool, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := json.Marshal(templateSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("template.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("template.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Store{
		dir:           dir,
		createMissing: createMissing,
		schema:        schema,
		logger:        logger,
		cache:         make(map[constants.Region]Template),
	}, nil
}

// Path returns the file a region's template is read from.
func (s *Store) Path(region constants.Region) string {
	return filepath.Join(s.dir, region.TemplateName())
}

// Missing lists the known regions that have no template file in the store.
func (s *Store) Missing() []constants.Region {
	var out []constants.Region
	for _, r := range constants.Regions() {
		if _, err := os.Stat(s.Path(r)); err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Load returns the template for region. A missing or empty template yields a
// TEMPLATE_MISSING error; with createMissing set an empty skeleton file is
// written for authoring before the error is returned.
func (s *Store) Load(region constants.Region) (Template, error) {
	if !region.IsKnown() {
		return Template{}, common.TemplateMissingError(region.String())
	}
	s.mu.RLock()
	t, ok := s.cache[region]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	path := s.Path(region)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if s.createMissing {
			s.writeSkeleton(path)
		}
		return Template{}, common.TemplateMissingError(region.String())
	}
	if err != nil {
		return Template{}, common.WrapError(err, "read template "+path)
	}

	t, err = s.parse(region, data)
	if err != nil {
		return Template{}, err
	}
	if t.Empty() {
		s.logger.Warn("template has no fields", "region", region, "path", path)
		return Template{}, common.TemplateMissingError(region.String())
	}

	s.mu.Lock()
	s.cache[region] = t
	s.mu.Unlock()
	s.logger.Debug("template loaded", "region", region, "fields", len(t.Fields))
	return t, nil
}

func (s *Store) parse(region constants.Region, data []byte) (Template, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Template{}, common.NewAppError(common.CodeTemplate,
			fmt.Sprintf("template %q is not valid JSON", region), err)
	}
	if err := s.schema.Validate(v); err != nil {
		return Template{}, common.NewAppError(common.CodeTemplate,
			fmt.Sprintf("template %q does not match schema", region), err)
	}

	var boxes map[string]FieldBox
	if err := json.Unmarshal(data, &boxes); err != nil {
		return Template{}, common.NewAppError(common.CodeTemplate,
			fmt.Sprintf("decode template %q", region), err)
	}
	for name, b := range boxes {
		b.Name = name
		boxes[name] = b
	}
	return Template{Region: region, Fields: boxes}, nil
}

func (s *Store) writeSkeleton(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Warn("create template dir failed", "path", path, "error", err)
		return
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if !errors.Is(err, fs.ErrExist) {
			s.logger.Warn("create template skeleton failed", "path", path, "error", err)
		}
		return
	}
	defer f.Close()
	if _, err := f.WriteString("{}\n"); err != nil {
		s.logger.Warn("write template skeleton failed", "path", path, "error", err)
		return
	}
	s.logger.Info("template skeleton created", "path", path)
}
