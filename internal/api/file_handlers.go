package api

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"fileport/internal/listing"
	"fileport/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const multipartMemory = 32 << 20

// @Summary      Browse the upload root
// @Description  Renders an HTML listing of one directory of the global upload root.
// @Tags         files
// @Produce      html
// @Param        path  query     string  false  "Directory to list, defaults to /"
// @Success      200   {string}  string "HTML listing"
// @Failure      403   {string}  string "Forbidden"
// @Failure      404   {string}  string "Not found"
// @Router       /dir [get]
func (s *Server) DirHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	dir := storage.NormalizePath(r.URL.Query().Get("path"))
	if !canList(user, dir) {
		respondError(w, "list directory", errForbidden)
		return
	}

	page, err := listing.List(s.storage.Fs(), dir)
	if err != nil {
		respondError(w, "list directory "+dir, err)
		return
	}
	page.Filter(func(childPath string, isDir bool) bool {
		if isDir {
			return canList(user, childPath)
		}
		return canAccess(user, childPath)
	})

	var buf bytes.Buffer
	if err := listing.Render(&buf, page); err != nil {
		respondError(w, "render directory "+dir, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// @Summary      Upload to the global root
// @Description  Stores a file under the upload root. Folder defaults to <year>_<month>; name defaults to <day>-<uuid> plus the original extension.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      plain
// @Param        file    formData  file    true   "File to upload"
// @Param        path    formData  string  false  "Destination folder"
// @Param        name    formData  string  false  "File name without suffix"
// @Param        suffix  formData  string  false  "Suffix appended to the name"
// @Success      200     {string}  string  "Public URL of the stored file"
// @Failure      400     {string}  string  "File is empty"
// @Failure      500     {string}  string  "Internal Server Error"
// @Router       /upload [post]
func (s *Server) UploadHandler(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	target := globalUploadPath(s.now(), r.FormValue("path"), r.FormValue("name"), r.FormValue("suffix"), header.Filename)
	if !canAccess(GetUserFromContext(r.Context()), target) {
		respondError(w, "global upload", errForbidden)
		return
	}

	written, n, err := s.storage.Save(target, file)
	if err != nil {
		respondError(w, "global upload "+target, err)
		return
	}
	uploadedBytesTotal.WithLabelValues("global").Add(float64(n))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(strings.TrimRight(s.config.Server.PublicURL, "/") + written))
}

// @Summary      Download from the global root
// @Tags         files
// @Produce      octet-stream
// @Param        filename  path      string  true  "Path of the file under the upload root"
// @Success      200       {file}    file
// @Failure      403       {string}  string "Forbidden"
// @Failure      404       {string}  string "Not found"
// @Router       /download/{filename} [get]
func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	rel := storage.NormalizePath(chi.URLParam(r, "*"))
	if !canAccess(GetUserFromContext(r.Context()), rel) {
		respondError(w, "download", errForbidden)
		return
	}
	serveAttachment(w, r, s.storage, rel)
}

// StaticHandler serves the upload root as plain files. Directories are not
// listed; /dir does that.
func (s *Server) StaticHandler() http.HandlerFunc {
	files := http.FileServer(filesOnly{afero.NewHttpFs(s.storage.Fs()).Dir("/")})
	return files.ServeHTTP
}

// globalUploadPath picks the destination of a global upload. A missing
// folder becomes <year>_<month>; a missing name becomes <day>-<uuid> and
// then borrows the original file's extension unless a suffix is given.
func globalUploadPath(now time.Time, folder, name, suffix, original string) string {
	if folder == "" {
		folder = fmt.Sprintf("%d_%d", now.Year(), int(now.Month()))
	}
	if name == "" {
		name = fmt.Sprintf("%d-%s", now.Day(), uuid.New())
		if suffix == "" {
			suffix = path.Ext(original)
		}
	}
	return storage.NormalizePath(path.Join(folder, name+suffix))
}

// readUpload parses the multipart body and returns its "file" part. On
// failure the response has already been written.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	if limit := s.config.Server.MaxUploadBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		}
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return nil, nil, false
	}

	if header.Size == 0 {
		file.Close()
		http.Error(w, "File is empty", http.StatusBadRequest)
		return nil, nil, false
	}

	return file, header, true
}

func serveAttachment(w http.ResponseWriter, r *http.Request, ls *storage.LocalStorage, rel string) {
	file, info, err := ls.Open(rel)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrIsDirectory) {
			log.Printf("WARN: Cannot open %s for download: %v", rel, err)
		}
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", contentDisposition(info.Name()))
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}

func contentDisposition(name string) string {
	name = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "").Replace(name)
	return `attachment; filename="` + name + `"`
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
