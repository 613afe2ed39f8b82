// Package pathutil holds the path helpers generators use on script paths.
// Script paths are always written with forward slashes; helpers here
// accept either separator and return forward slashes unless told otherwise.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// ToSlash rewrites backslashes to forward slashes on every host.
// filepath.ToSlash only does so on Windows.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Extension returns the extension of p including the dot, or "".
func Extension(p string) string {
	return path.Ext(Name(p))
}

// Name returns the last element of p.
func Name(p string) string {
	p = ToSlash(p)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Basename returns the last element of p without its extension.
func Basename(p string) string {
	name := Name(p)
	return strings.TrimSuffix(name, path.Ext(name))
}

// Dir returns everything before the last element of p, or "" when p has no
// directory part.
func Dir(p string) string {
	p = ToSlash(p)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}

// Join builds dir/name.ext. Empty parts are skipped; ext may be given with
// or without its leading dot.
func Join(dir, name, ext string) string {
	out := ToSlash(name)
	if ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out += ext
	}
	if dir == "" || dir == "." {
		return out
	}
	dir = strings.TrimSuffix(ToSlash(dir), "/")
	return dir + "/" + out
}

// Translate rewrites every separator in p to sep. An empty sep selects the
// host separator.
func Translate(p, sep string) string {
	if sep == "" {
		sep = string(filepath.Separator)
	}
	r := strings.NewReplacer("/", sep, "\\", sep)
	return r.Replace(p)
}

// Rel returns target relative to base using forward slashes. When no
// relative path exists target is returned unchanged.
func Rel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
