package listing

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/a.txt", []byte("hello"), 0o644))
	require.NoError(t, fs.MkdirAll("/docs/B", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/docs/Zeta.md", bytes.Repeat([]byte("x"), 1536), 0o644))
	require.NoError(t, fs.MkdirAll("/docs/alpha", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/docs/README", []byte("r"), 0o644))
	return fs
}

func names(page *Page) []string {
	out := make([]string, 0, len(page.Entries))
	for _, e := range page.Entries {
		out = append(out, e.Name)
	}
	return out
}

func TestList_DirectoriesFirstCaseInsensitive(t *testing.T) {
	fs := newTestFs(t)

	page, err := List(fs, "/docs")
	require.NoError(t, err)
	require.Equal(t, "/docs", page.Path)
	require.Equal(t, []string{"../", "alpha", "B", "a.txt", "README", "Zeta.md"}, names(page))
}

func TestList_SubdirectoryBeforeFileRegardlessOfInsertionOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("a"), 0o644))
	require.NoError(t, fs.Mkdir("/B", 0o755))

	page, err := List(fs, "/")
	require.NoError(t, err)
	require.Equal(t, []string{"B", "a.txt"}, names(page))
}

func TestList_EntryFields(t *testing.T) {
	fs := newTestFs(t)
	modTime := time.Date(2025, 8, 24, 12, 19, 5, 0, time.Local)
	require.NoError(t, fs.Chtimes("/docs/Zeta.md", modTime, modTime))

	page, err := List(fs, "docs/")
	require.NoError(t, err)

	parent := page.Entries[0]
	require.True(t, parent.IsParent)
	require.Equal(t, "/dir?path=%2F", parent.Href)

	dir := page.Entries[1]
	require.Equal(t, "alpha", dir.Name)
	require.True(t, dir.IsDir)
	require.Equal(t, "-", dir.Size)
	require.Equal(t, FolderLabel, dir.Type)
	require.Equal(t, "/dir?path=%2Fdocs%2Falpha", dir.Href)

	zeta := page.Entries[5]
	require.Equal(t, "Zeta.md", zeta.Name)
	require.False(t, zeta.IsDir)
	require.Equal(t, "/docs/Zeta.md", zeta.Href)
	require.Equal(t, int64(1536), zeta.SizeBytes)
	require.Equal(t, "1.50 KB", zeta.Size)
	require.Equal(t, "md file", zeta.Type)
	require.Equal(t, "2025/08/24 12:19:05", zeta.LastModified)

	readme := page.Entries[4]
	require.Equal(t, UnknownType, readme.Type)
}

func TestList_RootHasNoParentEntry(t *testing.T) {
	fs := newTestFs(t)

	for _, p := range []string{"", "/", "/..", "../../"} {
		page, err := List(fs, p)
		require.NoError(t, err)
		require.Equal(t, "/", page.Path)
		require.Equal(t, []string{"docs"}, names(page), "path %q", p)
	}
}

func TestList_ParentOfNestedDirectory(t *testing.T) {
	fs := newTestFs(t)

	page, err := List(fs, "/docs/alpha")
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, "/dir?path=%2Fdocs", page.Entries[0].Href)
}

func TestList_NotFound(t *testing.T) {
	fs := newTestFs(t)

	_, err := List(fs, "/missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = List(fs, "/docs/a.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPage_Filter(t *testing.T) {
	fs := newTestFs(t)

	page, err := List(fs, "/docs")
	require.NoError(t, err)

	var seen []string
	page.Filter(func(childPath string, isDir bool) bool {
		seen = append(seen, childPath)
		return isDir && childPath != "/docs/B"
	})
	require.Equal(t, []string{"../", "alpha"}, names(page))
	require.Contains(t, seen, "/docs/a.txt")
	require.NotContains(t, seen, "/docs/../")
}

func TestFileHrefEscapesSegments(t *testing.T) {
	require.Equal(t, "/my%20docs/a%23b.txt", fileHref("/my docs/a#b.txt"))
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		0:                   "0 B",
		1:                   "1 B",
		1023:                "1023 B",
		1024:                "1.00 KB",
		1536:                "1.50 KB",
		1024 * 1024:         "1.00 MB",
		5 * 1024 * 1024 / 2: "2.50 MB",
		1 << 30:             "1.00 GB",
		1 << 40:             "1.00 TB",
		1 << 50:             "1.00 PB",
		1 << 60:             "1.00 EB",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatBytes(in), "FormatBytes(%d)", in)
	}
}

func TestTypeLabel(t *testing.T) {
	require.Equal(t, "txt file", TypeLabel("a.txt"))
	require.Equal(t, "gz file", TypeLabel("archive.tar.gz"))
	require.Equal(t, " file", TypeLabel("trailing."))
	require.Equal(t, UnknownType, TypeLabel("Makefile"))
}

func TestRender(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/docs/<script>.txt", []byte("x"), 0o644))

	page, err := List(fs, "/docs")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, page))
	html := buf.String()

	require.Contains(t, html, "<h1>/docs</h1>")
	require.Contains(t, html, `<a class="folder" href="/dir?path=%2Fdocs%2Falpha">alpha</a>`)
	require.Contains(t, html, `<a class="file" href="/docs/a.txt" target="_blank">a.txt</a>`)
	require.Contains(t, html, "1.50 KB")
	require.NotContains(t, html, "<script>.txt")
	require.Contains(t, html, "&lt;script&gt;.txt")
}
