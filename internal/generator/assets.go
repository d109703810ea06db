package generator

import (
	"maps"
	"path/filepath"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// collectThemeAssets resolves the asset file list for a theme selection.
// Variant-level assets shadow base entries that share a manifest key.
func collectThemeAssets(selection *gotheme.Selection) []string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}

	files := selection.Manifest.Assets.Files
	if variant := strings.TrimSpace(selection.Variant); variant != "" {
		if v, ok := selection.Manifest.Variants[variant]; ok && len(v.Assets.Files) > 0 {
			merged := make(map[string]string, len(files)+len(v.Assets.Files))
			maps.Copy(merged, files)
			maps.Copy(merged, v.Assets.Files)
			files = merged
		}
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(files))
	for _, asset := range files {
		asset = strings.TrimPrefix(strings.TrimSpace(asset), "/")
		if asset == "" {
			continue
		}
		asset = filepath.ToSlash(asset)
		if _, dup := seen[asset]; dup {
			continue
		}
		seen[asset] = struct{}{}
		out = append(out, asset)
	}
	sort.Strings(out)
	return out
}

var assetContentTypes = map[string]string{
	"css":   "text/css",
	"js":    "application/javascript",
	"json":  "application/json",
	"svg":   "image/svg+xml",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"webp":  "image/webp",
	"ico":   "image/x-icon",
	"woff":  "font/woff",
	"woff2": "font/woff2",
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(asset), "."))
	if ct, ok := assetContentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
