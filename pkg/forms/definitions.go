package forms

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Form identifiers shipped with the embedded definitions.
const (
	CreateFurnitureID = "furniture-create"
	EditFurnitureID   = "furniture-edit"
	RegisterID        = "register"
)

//go:embed definitions/*.yaml
var definitionsFS embed.FS

// DefinitionsFS exposes the embedded form definitions.
func DefinitionsFS() fs.FS {
	sub, err := fs.Sub(definitionsFS, "definitions")
	if err != nil {
		return definitionsFS
	}
	return sub
}

type definitionFile struct {
	Forms []model.FormModel `yaml:"forms"`
}

// Set holds parsed form definitions keyed by form ID.
type Set struct {
	forms map[string]model.FormModel
}

// Load parses every *.yaml / *.yml file at the root of fsys. Each form's
// rules are compiled once so broken definitions fail here rather than on
// the first submission.
func Load(fsys fs.FS) (*Set, error) {
	if fsys == nil {
		return nil, fmt.Errorf("forms: definitions fs is nil")
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("forms: read definitions: %w", err)
	}

	set := &Set{forms: make(map[string]model.FormModel)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("forms: read %s: %w", entry.Name(), err)
		}
		var file definitionFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("forms: decode %s: %w", entry.Name(), err)
		}
		for _, form := range file.Forms {
			if err := set.add(form); err != nil {
				return nil, fmt.Errorf("forms: %s: %w", entry.Name(), err)
			}
		}
	}
	return set, nil
}

func (s *Set) add(form model.FormModel) error {
	id := strings.TrimSpace(form.ID)
	if id == "" {
		return fmt.Errorf("form id is required")
	}
	if _, exists := s.forms[id]; exists {
		return fmt.Errorf("form %q defined twice", id)
	}
	if _, err := validation.CompileAll(form); err != nil {
		return fmt.Errorf("form %q: %w", id, err)
	}
	s.forms[id] = form
	return nil
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
	defaultErr  error
)

// Default returns the embedded definitions.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Load(DefinitionsFS())
	})
	return defaultSet, defaultErr
}

// Form returns a copy of the form registered under id.
func (s *Set) Form(id string) (model.FormModel, error) {
	form, ok := s.forms[id]
	if !ok {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrUnknownForm, id)
	}
	return form, nil
}

// IDs lists the registered form IDs.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
