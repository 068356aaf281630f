package listing

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"

	"fileport/internal/models"
	"fileport/internal/storage"

	"github.com/spf13/afero"
)

var ErrNotFound = errors.New("directory not found")

const (
	TimeLayout  = "2006/01/02 15:04:05"
	FolderLabel = "Folder"
	UnknownType = "Unknown type"

	// ListingEndpoint is where directory links point back to.
	ListingEndpoint = "/dir"
)

// Page is everything the listing template needs.
type Page struct {
	Path    string
	Entries []models.DirectoryEntry
}

// List returns the immediate children of relPath inside fsys, directories
// first, then case-insensitive by name. Non-root listings start with a
// parent entry.
func List(fsys afero.Fs, relPath string) (*Page, error) {
	dir := storage.NormalizePath(relPath)

	info, err := fsys.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotFound)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, ErrNotFound)
	}

	children, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	SortInfos(children)

	entries := make([]models.DirectoryEntry, 0, len(children)+1)
	if dir != "/" {
		entries = append(entries, models.DirectoryEntry{
			Name:     "../",
			Href:     dirHref(storage.ParentPath(dir)),
			IsDir:    true,
			IsParent: true,
			Size:     "-",
			Type:     FolderLabel,
		})
	}

	for _, child := range children {
		entries = append(entries, newEntry(dir, child))
	}

	return &Page{Path: dir, Entries: entries}, nil
}

// Filter drops child entries for which keep returns false. The parent entry
// is always kept.
func (p *Page) Filter(keep func(childPath string, isDir bool) bool) {
	kept := p.Entries[:0]
	for _, e := range p.Entries {
		if e.IsParent || keep(path.Join(p.Path, e.Name), e.IsDir) {
			kept = append(kept, e)
		}
	}
	p.Entries = kept
}

// SortInfos orders directories before files, each group by name ignoring case.
func SortInfos(infos []os.FileInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].IsDir() != infos[j].IsDir() {
			return infos[i].IsDir()
		}
		return strings.ToLower(infos[i].Name()) < strings.ToLower(infos[j].Name())
	})
}

func newEntry(dir string, info os.FileInfo) models.DirectoryEntry {
	childPath := path.Join(dir, info.Name())
	entry := models.DirectoryEntry{
		Name:         info.Name(),
		IsDir:        info.IsDir(),
		LastModified: info.ModTime().Format(TimeLayout),
	}

	if info.IsDir() {
		entry.Href = dirHref(childPath)
		entry.Size = "-"
		entry.Type = FolderLabel
		return entry
	}

	entry.Href = fileHref(childPath)
	entry.SizeBytes = info.Size()
	entry.Size = FormatBytes(info.Size())
	entry.Type = TypeLabel(info.Name())
	return entry
}

func dirHref(p string) string {
	return ListingEndpoint + "?path=" + url.QueryEscape(p)
}

func fileHref(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(segments, "/")
}

// TypeLabel derives a label from the text after the last dot of name.
func TypeLabel(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return UnknownType
	}
	return name[i+1:] + " file"
}

// FormatBytes renders n with binary prefixes and two decimals: 1536 -> "1.50 KB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < len("KMGTPE")-1; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
