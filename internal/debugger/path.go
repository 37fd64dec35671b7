package debugger

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RelativePath converts a file under sourceRoot into the script path the server expects:
// slash separated, relative to the source root, with a leading slash.
//
//	RelativePath("/work/shop/cartridges", "/work/shop/cartridges/app_store/cartridge/controllers/Cart.js")
//	// "/app_store/cartridge/controllers/Cart.js"
func RelativePath(sourceRoot, file string) (string, error) {
	root, err := filepath.Abs(sourceRoot)
	if err != nil {
		return "", fmt.Errorf("resolve source root: %w", err)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", file, err)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("%s is not under %s: %w", file, sourceRoot, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not under %s", file, sourceRoot)
	}

	return "/" + filepath.ToSlash(rel), nil
}
