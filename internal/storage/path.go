package storage

import "strings"

// NormalizePath canonicalizes a user-supplied path into a slash-rooted form
// that can never climb above the root it is later joined with.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}

	p = strings.ReplaceAll(p, "\\", "/")

	parts := make([]string, 0, strings.Count(p, "/")+1)
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "", ".":
		case "..":
			// clamp at root
			if len(parts) > 0 && parts[len(parts)-1] != ".." {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// ParentPath returns the parent of a normalized path. The parent of "/" is "/".
func ParentPath(p string) string {
	p = NormalizePath(p)
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}
	return p[:i]
}

// Base returns the last segment of a normalized path, or "" for the root.
func Base(p string) string {
	p = NormalizePath(p)
	return p[strings.LastIndex(p, "/")+1:]
}
