package templates

import (
	"bytes"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"finadvisor/pkg/errors"
)

//go:embed assets/**/*.tmpl
var embeddedFS embed.FS

// Template is a parsed prompt template.
type Template struct {
	ID      string
	Path    string
	Content string

	parsed *template.Template
}

// Render executes the template with the provided data and returns the result.
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.parsed.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render template %s", t.ID)
	}

	return buf.String(), nil
}

// Registry holds loaded templates and resolves them by ID ("prompts/stock_system").
// Later layers override earlier ones with the same ID.
type Registry struct {
	layers    []fs.FS
	templates map[string]*Template
	mu        sync.RWMutex
}

// NewRegistry loads all templates from the provided base path.
func NewRegistry(basePath string) (*Registry, error) {
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errors.Wrap(err, "resolve template base path")
	}

	return NewRegistryFromFS(os.DirFS(absBase))
}

// NewRegistryFromFS constructs a registry from one or more filesystems.
func NewRegistryFromFS(layers ...fs.FS) (*Registry, error) {
	r := &Registry{
		layers:    layers,
		templates: map[string]*Template{},
	}

	for _, layer := range layers {
		if err := r.loadAll(layer); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// NewRegistryWithOverride returns the embedded prompts with templates from dir
// layered on top. An empty dir yields the embedded registry.
func NewRegistryWithOverride(dir string) (*Registry, error) {
	embedded, err := embeddedAssets()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dir) == "" {
		return NewRegistryFromFS(embedded)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "prompt override directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("PROMPTS_DIR", "must be a directory", dir)
	}

	return NewRegistryFromFS(embedded, os.DirFS(dir))
}

// Get returns a lazily initialized default registry rooted at embedded assets.
func Get() *Registry {
	defaultOnce.Do(func() {
		var embedded fs.FS
		embedded, defaultErr = embeddedAssets()
		if defaultErr == nil {
			defaultRegistry, defaultErr = NewRegistryFromFS(embedded)
		}
	})

	if defaultErr != nil {
		panic(defaultErr)
	}

	return defaultRegistry
}

// GetTemplate retrieves a template by its ID.
func (r *Registry) GetTemplate(id string) (*Template, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[id]
	r.mu.RUnlock()

	if ok {
		return tmpl, nil
	}

	// Files added after construction are picked up from the topmost layer that has them.
	path := id + ".tmpl"
	for i := len(r.layers) - 1; i >= 0; i-- {
		if _, err := fs.Stat(r.layers[i], path); err != nil {
			continue
		}
		if err := r.loadTemplate(r.layers[i], path); err != nil {
			return nil, err
		}
		r.mu.RLock()
		tmpl = r.templates[id]
		r.mu.RUnlock()
		return tmpl, nil
	}

	return nil, errors.Wrapf(errors.ErrNotFound, "template %s", id)
}

// Render executes a template by ID using the provided data.
func (r *Registry) Render(id string, data any) (string, error) {
	tmpl, err := r.GetTemplate(id)
	if err != nil {
		return "", err
	}

	return tmpl.Render(data)
}

// List returns all known template IDs in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func (r *Registry) loadAll(layer fs.FS) error {
	return fs.WalkDir(layer, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || filepath.Ext(path) != ".tmpl" {
			return nil
		}

		return r.loadTemplate(layer, path)
	})
}

func (r *Registry) loadTemplate(layer fs.FS, path string) error {
	id := pathToID(path)
	content, err := fs.ReadFile(layer, path)
	if err != nil {
		return errors.Wrapf(err, "read template %s", id)
	}

	parsed, err := template.New(id).Funcs(FuncMap()).Parse(string(content))
	if err != nil {
		return errors.Wrapf(err, "parse template %s", id)
	}

	r.mu.Lock()
	r.templates[id] = &Template{
		ID:      id,
		Path:    path,
		Content: string(content),
		parsed:  parsed,
	}
	r.mu.Unlock()

	return nil
}

func pathToID(rel string) string {
	normalized := filepath.ToSlash(rel)
	normalized = strings.TrimPrefix(normalized, "/")
	return strings.TrimSuffix(normalized, filepath.Ext(normalized))
}

func embeddedAssets() (fs.FS, error) {
	subFS, err := fs.Sub(embeddedFS, "assets")
	if err != nil {
		return nil, errors.Wrap(err, "prepare embedded templates")
	}
	return subFS, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)
