// Package render wraps text/template with a parse cache and the helper
// functions generator templates use.
package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"

	"github.com/simonhull/firebird-suite/nest/internal/pathutil"
)

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with built-in helper functions
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	return r.render("string:"+name, data, func() (*template.Template, error) {
		return r.parse(name, templateStr)
	})
}

// RenderFS renders a template read from fsys, usually an embed.FS.
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	return r.render("fs:"+path, data, func() (*template.Template, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return r.parse(path, string(b))
	})
}

// ClearCache drops every parsed template.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) render(key string, data any, load func() (*template.Template, error)) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()

	if !ok {
		var err error
		if tmpl, err = load(); err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[key] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) parse(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(r.funcMap).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}
	return tmpl, nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"quote":    Quote,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"join":     strings.Join,
		"prefix":   Prefix,
		"esc":      MakeEscape,
		"winpath":  WindowsPath,
		"name":     pathutil.Name,
		"basename": pathutil.Basename,
		"default":  Default,
	}
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Prefix puts pre in front of every value and joins the results with
// spaces: prefix "/d:" ["A" "B"] → "/d:A /d:B".
func Prefix(pre string, values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = pre + v
	}
	return strings.Join(out, " ")
}

// MakeEscape escapes spaces so a path survives as one make word.
func MakeEscape(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}

// WindowsPath converts p to backslashes, doubled so that make passes them
// through to the compiler intact.
func WindowsPath(p string) string {
	return strings.ReplaceAll(pathutil.Translate(p, `\`), `\`, `\\`)
}

// Default returns def when val is empty.
func Default(def, val string) string {
	if val == "" {
		return def
	}
	return val
}
