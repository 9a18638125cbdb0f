package uihelpers

import (
	"path/filepath"
	"strings"
)

// ComputeChartDimensions applies width/height clamp rules used for charts.
// Input: available width (e.g., scroll container width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	if w > 1600 {
		w = 1600
	}
	h := int(float32(w) * 0.6)
	if h < 380 {
		h = 380
	}
	if h > 800 {
		h = 800
	}
	return w, h
}

// TruncatePath shortens p to about n characters, always keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

// MaxRecentFiles bounds the Open Recent menu.
const MaxRecentFiles = 10

// ParseRecentFiles splits the newline separated preference value, dropping blanks.
func ParseRecentFiles(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AddRecentFile puts path first, removes duplicates and keeps at most MaxRecentFiles entries.
func AddRecentFile(list []string, path string) []string {
	out := []string{path}
	for _, f := range list {
		if f != path && len(out) < MaxRecentFiles {
			out = append(out, f)
		}
	}
	return out
}

// EnsureExt appends ext to name unless it already ends with it (case-insensitive).
func EnsureExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return name + ext
}
