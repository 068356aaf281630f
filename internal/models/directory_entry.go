package models

type DirectoryEntry struct {
	Name         string `json:"name"`
	Href         string `json:"href"`
	IsDir        bool   `json:"is_dir"`
	IsParent     bool   `json:"-"`
	SizeBytes    int64  `json:"size_bytes"`
	Size         string `json:"size"`
	LastModified string `json:"last_modified"`
	Type         string `json:"type"`
}
