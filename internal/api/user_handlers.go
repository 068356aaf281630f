package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"

	"fileport/internal/models"
	"fileport/internal/quota"
	"fileport/internal/storage"
	"fileport/internal/websocket"

	"github.com/go-chi/chi/v5"
)

// userStorage scopes the upload root to the session user. It writes the
// error response itself when it fails.
func (s *Server) userStorage(w http.ResponseWriter, user *models.User) (*storage.LocalStorage, bool) {
	ls, err := s.storage.ForUser(user.UserID)
	if err != nil {
		respondError(w, "scope storage for user "+user.UserID, err)
		return nil, false
	}
	return ls, true
}

// @Summary      Session user
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {string}  string "Unauthorized"
// @Router       /user/info [get]
func (s *Server) UserInfoHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// @Summary      Storage usage
// @Description  Quota summary computed from a live scan of the user's directory.
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.StorageInfo
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /user/storage [get]
func (s *Server) StorageInfoHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	info, err := s.accountant.Info(user)
	if err != nil {
		respondError(w, "storage info", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// @Summary      List the user's files
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.UserFile
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /user/files [get]
func (s *Server) UserFilesHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	ls, ok := s.userStorage(w, user)
	if !ok {
		return
	}

	files, err := ls.Files()
	if err != nil {
		respondError(w, "list files for user "+user.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

// @Summary      Check whether a path exists
// @Tags         users
// @Produce      json
// @Param        path  query     string  true  "Path under the user's directory"
// @Success      200   {boolean} bool
// @Failure      401   {string}  string "Unauthorized"
// @Router       /user/exits [get]
func (s *Server) FileExistsHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	ls, ok := s.userStorage(w, user)
	if !ok {
		return
	}

	exists, err := ls.Exists(r.URL.Query().Get("path"))
	if err != nil {
		respondError(w, "check existence", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(exists)
}

// @Summary      Download one of the user's files
// @Tags         users
// @Produce      octet-stream
// @Param        filename  path      string  true  "Path under the user's directory"
// @Success      200       {file}    file
// @Failure      401       {string}  string "Unauthorized"
// @Failure      404       {string}  string "Not found"
// @Router       /user/download/{filename} [get]
func (s *Server) UserDownloadHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	ls, ok := s.userStorage(w, user)
	if !ok {
		return
	}
	serveAttachment(w, r, ls, chi.URLParam(r, "*"))
}

// @Summary      Delete one of the user's files
// @Tags         users
// @Produce      plain
// @Param        filename  path      string  true  "Path under the user's directory"
// @Success      200       {string}  string "File deleted"
// @Failure      401       {string}  string "Unauthorized"
// @Failure      404       {string}  string "Not found"
// @Failure      500       {string}  string "Failed to delete file"
// @Router       /user/delete/{filename} [delete]
func (s *Server) UserDeleteHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	ls, ok := s.userStorage(w, user)
	if !ok {
		return
	}

	rel := storage.NormalizePath(chi.URLParam(r, "*"))
	size, err := ls.Delete(rel)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidPath):
			respondError(w, "delete", err)
		default:
			log.Printf("ERROR: Failed to delete %s for user %s: %v", rel, user.UserID, err)
			http.Error(w, "Failed to delete file", http.StatusInternalServerError)
		}
		return
	}

	updated := user
	if size > 0 {
		if u, err := s.users.IncrementUsed(r.Context(), user.AccessToken, -size); err != nil {
			log.Printf("WARN: File %s deleted but usage of user %s not updated: %v", rel, user.UserID, err)
		} else {
			updated = u
		}
	}

	s.publish(user.UserID, websocket.Event{
		Type:  websocket.EventFileDeleted,
		Path:  rel,
		Size:  size,
		Used:  updated.UsedStorage,
		Limit: updated.StorageLimit,
	})

	w.Write([]byte("File deleted"))
}

// @Summary      Upload into the user's directory
// @Description  Rejected when recorded usage plus the file size would exceed the quota.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      plain
// @Param        file  formData  file    true   "File to upload"
// @Param        path  formData  string  false  "Folder under the user's directory"
// @Success      200   {string}  string  "File uploaded"
// @Failure      400   {string}  string  "File is empty or insufficient storage"
// @Failure      401   {string}  string  "Unauthorized"
// @Failure      500   {string}  string  "Internal Server Error"
// @Router       /user/upload [post]
func (s *Server) UserUploadHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	file, header, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	if err := quota.Admit(user, header.Size); err != nil {
		quotaRejectionsTotal.Inc()
		respondError(w, "user upload", err)
		return
	}

	ls, ok := s.userStorage(w, user)
	if !ok {
		return
	}

	name := header.Filename
	if name == "" || name == "." || name == "/" {
		name = fmt.Sprintf("%d.dat", s.now().UnixMilli())
	}

	written, n, err := ls.Save(path.Join("/", r.FormValue("path"), name), file)
	if err != nil {
		respondError(w, "user upload for "+user.UserID, err)
		return
	}
	uploadedBytesTotal.WithLabelValues("user").Add(float64(n))

	updated, err := s.users.IncrementUsed(r.Context(), user.AccessToken, n)
	if err != nil {
		respondError(w, "record usage for "+user.UserID, err)
		return
	}

	s.publish(user.UserID, websocket.Event{
		Type:  websocket.EventFileUploaded,
		Path:  written,
		Size:  n,
		Used:  updated.UsedStorage,
		Limit: updated.StorageLimit,
	})

	w.Write([]byte("File uploaded"))
}
