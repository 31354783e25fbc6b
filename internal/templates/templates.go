// Package templates resolves named layouts and renders pages through them.
//
// Layouts are looked up in the configured layouts directory first, then in
// the embedded builtin set. A layout reference that resolves in neither place
// is a configuration error surfaced at build time.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sync"
)

//go:embed builtin/*.html
var builtinFS embed.FS

// ErrLayoutNotFound indicates a document referenced a layout that exists
// neither in the layouts directory nor among the builtins.
var ErrLayoutNotFound = errors.New("layout not found")

// Engine resolves layout names to parsed templates, caching the result.
type Engine struct {
	dir         string // optional on-disk layouts directory, overrides builtins
	defaultName string
	funcs       template.FuncMap

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewEngine creates a layout engine. dir may be empty to use builtins only.
func NewEngine(dir, defaultName string, site Site) *Engine {
	if defaultName == "" {
		defaultName = "default"
	}
	return &Engine{
		dir:         dir,
		defaultName: defaultName,
		funcs:       builtinFuncs(site),
		cache:       map[string]*template.Template{},
	}
}

// Resolve returns the parsed template for the named layout. An empty name
// selects the configured default layout.
func (e *Engine) Resolve(name string) (*template.Template, error) {
	if name == "" {
		name = e.defaultName
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tpl, ok := e.cache[name]; ok {
		return tpl, nil
	}

	tpl, err := e.load(name)
	if err != nil {
		return nil, err
	}
	e.cache[name] = tpl
	return tpl, nil
}

func (e *Engine) load(name string) (*template.Template, error) {
	file := name + ".html"

	if e.dir != "" {
		tpl, err := template.New(file).Funcs(e.funcs).ParseFiles(joinLayoutPath(e.dir, file))
		if err == nil {
			return tpl, nil
		}
		if !isNotExist(err) {
			return nil, fmt.Errorf("parse layout %s: %w", name, err)
		}
	}

	raw, err := builtinFS.ReadFile("builtin/" + file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	tpl, err := template.New(file).Funcs(e.funcs).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse builtin layout %s: %w", name, err)
	}
	return tpl, nil
}

// Render applies the named layout to the page.
func (e *Engine) Render(w io.Writer, layout string, page Page) error {
	tpl, err := e.Resolve(layout)
	if err != nil {
		return err
	}
	if err := tpl.Execute(w, page); err != nil {
		return fmt.Errorf("render layout %s: %w", layoutOrDefault(layout, e.defaultName), err)
	}
	return nil
}

func layoutOrDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}
