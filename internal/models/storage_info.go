package models

type StorageInfo struct {
	Limit              int64   `json:"limit"`
	Used               int64   `json:"used"`
	Remaining          int64   `json:"remaining"`
	Percentage         float64 `json:"percentage"`
	LimitFormatted     string  `json:"limitFormatted" example:"500 MB"`
	UsedFormatted      string  `json:"usedFormatted" example:"1.5 KB"`
	RemainingFormatted string  `json:"remainingFormatted" example:"500 MB"`
}
