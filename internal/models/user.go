package models

import (
	"path"
	"time"
)

type User struct {
	UserID       string    `json:"userId" example:"10001"`
	Username     string    `json:"username" example:"kloping"`
	AccessToken  string    `json:"accessToken" example:"6d1c0f2a"`
	LoginTime    time.Time `json:"loginTime"`
	StorageLimit int64     `json:"storageLimit" example:"524288000"`
	UsedStorage  int64     `json:"usedStorage" example:"1048576"`
}

// Dir returns the user's root relative to the upload root.
func (u *User) Dir() string {
	return path.Join("/users", u.UserID)
}

// UserFile is produced by walking a user's tree; it is never persisted.
type UserFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Path string `json:"path"`
}
