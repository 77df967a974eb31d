// Package patterns loads per-screen selector pattern definitions and
// flattens them into the variable store under the pattern.<screenCode>.*
// namespace.
package patterns

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/fieldmark-ai/fieldmark/internal/vars"
)

// Templates for one element category are stored as a single
// semicolon-delimited string; list order is fallback priority.
const TemplateSeparator = ";"

// Namespace segments under pattern.<screenCode>.
const (
	CategoryFields    = "fields"
	CategorySections  = "sections"
	CategoryLocations = "locations"
)

// Definition is the pattern set of one screen.
type Definition struct {
	ScreenCode    string            `yaml:"screen" json:"screen"`
	Fields        map[string]string `yaml:"fields" json:"fields,omitempty"`
	Sections      map[string]string `yaml:"sections" json:"sections,omitempty"`
	Locations     map[string]string `yaml:"locations" json:"locations,omitempty"`
	ScrollTargets []string          `yaml:"scroll_targets" json:"scroll_targets,omitempty"`
}

// File is one pattern definition file; it may declare several screens.
type File struct {
	Version string       `yaml:"version" json:"version"`
	Screens []Definition `yaml:"screens" json:"screens"`
}

// ParseYAML parses and validates a single pattern definition file.
func ParseYAML(yamlPayload []byte) (*File, error) {
	if err := ValidateYAMLWithSchema(yamlPayload); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(yamlPayload, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	for i, screen := range f.Screens {
		if screen.ScreenCode == "" {
			return nil, fmt.Errorf("screen %d: a screen code is required", i)
		}
	}

	return &f, nil
}

// Repository holds the loaded screen definitions and exposes template
// lookup through the variable store. Read-only after Load; safe for
// concurrent readers.
type Repository struct {
	store   *vars.Store
	screens map[string]Definition
	logger  *slog.Logger
}

func NewRepository(store *vars.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		store:   store,
		screens: make(map[string]Definition),
		logger:  logger,
	}
}

// Load reads pattern definition files from the given files or directories
// (directories are walked for .yaml/.yml). A file that fails to read,
// parse, or validate is skipped with a warning; one bad file must not
// abort startup. Duplicate screen codes are last-write-wins across the
// whole load, in file order.
func (r *Repository) Load(paths ...string) error {
	files, err := collectYAMLFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no pattern definition files found in %v", paths)
	}

	loaded := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			r.logger.Warn("pattern file skipped", "file", file, "error", err)
			continue
		}
		f, err := ParseYAML(data)
		if err != nil {
			r.logger.Warn("pattern file skipped", "file", file, "error", err)
			continue
		}
		for _, screen := range f.Screens {
			r.register(screen)
		}
		loaded++
	}

	if loaded == 0 {
		return fmt.Errorf("all %d pattern definition files failed to load", len(files))
	}
	r.logger.Info("pattern repository loaded", "files", loaded, "screens", len(r.screens))
	return nil
}

// register flattens one screen definition into the store. A re-registered
// screen code replaces the previous definition wholesale, so its old keys
// are dropped first rather than merged over.
func (r *Repository) register(screen Definition) {
	prefix := "pattern." + screen.ScreenCode + "."
	if _, exists := r.screens[screen.ScreenCode]; exists {
		r.logger.Warn("duplicate screen code, previous definition replaced", "screen", screen.ScreenCode)
		r.store.DeletePrefix(prefix)
	}

	for name, tmpl := range screen.Fields {
		r.store.Set(prefix+CategoryFields+"."+name, tmpl)
	}
	for name, tmpl := range screen.Sections {
		r.store.Set(prefix+CategorySections+"."+name, tmpl)
	}
	for name, tmpl := range screen.Locations {
		r.store.Set(prefix+CategoryLocations+"."+name, tmpl)
	}
	r.screens[screen.ScreenCode] = screen
}

// Lookup returns the raw template string registered under
// pattern.<screenCode>.<category>.<name>.
func (r *Repository) Lookup(screenCode, category, name string) (string, bool) {
	key := Key(screenCode, category, name)
	if !r.store.Has(key) {
		return "", false
	}
	return r.store.Get(key, false), true
}

// FieldTemplates returns the ordered fallback list for one element
// category on one screen, split on the template separator.
func (r *Repository) FieldTemplates(screenCode, category string) []string {
	raw, ok := r.Lookup(screenCode, CategoryFields, category)
	if !ok {
		return nil
	}
	return SplitTemplates(raw)
}

// ScrollTargets returns the screen's configured scroll-target templates,
// or nil when the screen has none (callers fall back to a full-page
// scroll).
func (r *Repository) ScrollTargets(screenCode string) []string {
	screen, ok := r.screens[screenCode]
	if !ok {
		return nil
	}
	return screen.ScrollTargets
}

// HasScreen reports whether a definition is registered for screenCode.
func (r *Repository) HasScreen(screenCode string) bool {
	_, ok := r.screens[screenCode]
	return ok
}

// Screens returns the registered screen codes, sorted.
func (r *Repository) Screens() []string {
	codes := make([]string, 0, len(r.screens))
	for code := range r.screens {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Screen returns the registered definition for screenCode.
func (r *Repository) Screen(screenCode string) (Definition, bool) {
	screen, ok := r.screens[screenCode]
	return screen, ok
}

// Key builds the flattened store key for a template.
func Key(screenCode, category, name string) string {
	return "pattern." + screenCode + "." + category + "." + name
}

// SplitTemplates splits a semicolon-delimited template list, preserving
// order and dropping empty entries.
func SplitTemplates(raw string) []string {
	parts := strings.Split(raw, TemplateSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func collectYAMLFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		stat, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if !stat.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && (filepath.Ext(p) == ".yaml" || filepath.Ext(p) == ".yml") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
	}
	return files, nil
}
