package quota

import (
	"context"
	"errors"
	"fmt"

	"fileport/internal/models"
	"fileport/internal/storage"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrQuotaExceeded = errors.New("insufficient storage")

// CounterStore is the part of the user store the accountant writes to.
type CounterStore interface {
	SetUsed(ctx context.Context, token string, used int64) (*models.User, error)
}

// Notifier is told when a reconcile changed a user's recorded usage.
type Notifier interface {
	QuotaChanged(user *models.User)
}

// Accountant holds no user state: everything is derived from the upload
// root and the User record it is handed.
type Accountant struct {
	root     *storage.LocalStorage
	notifier Notifier
}

func NewAccountant(root *storage.LocalStorage) *Accountant {
	return &Accountant{root: root}
}

// Notify registers n to hear about counters changed by Reconcile.
func (a *Accountant) Notify(n Notifier) {
	a.notifier = n
}

// Used sums every file under the user's directory.
func (a *Accountant) Used(user *models.User) (int64, error) {
	userStorage, err := a.root.ForUser(user.UserID)
	if err != nil {
		return 0, err
	}
	return userStorage.Size()
}

// Info reports the quota against a live scan of the user's directory.
func (a *Accountant) Info(user *models.User) (*models.StorageInfo, error) {
	used, err := a.Used(user)
	if err != nil {
		return nil, fmt.Errorf("failed to compute usage for user %s: %w", user.UserID, err)
	}
	return NewStorageInfo(user.StorageLimit, used), nil
}

func NewStorageInfo(limit, used int64) *models.StorageInfo {
	remaining := limit - used

	var percentage float64
	if limit > 0 {
		percentage = float64(used) / float64(limit) * 100
	}

	return &models.StorageInfo{
		Limit:              limit,
		Used:               used,
		Remaining:          remaining,
		Percentage:         percentage,
		LimitFormatted:     FormatFileSize(limit),
		UsedFormatted:      FormatFileSize(used),
		RemainingFormatted: FormatFileSize(remaining),
	}
}

// Admit applies the upload admission rule against the recorded counter,
// which may drift from the live size.
func Admit(user *models.User, size int64) error {
	if user.UsedStorage+size > user.StorageLimit {
		return fmt.Errorf("%d bytes used, %d requested, limit %d: %w",
			user.UsedStorage, size, user.StorageLimit, ErrQuotaExceeded)
	}
	return nil
}

// Reconcile overwrites the recorded counter with the live directory size.
func (a *Accountant) Reconcile(ctx context.Context, store CounterStore, user *models.User) (*models.User, error) {
	used, err := a.Used(user)
	if err != nil {
		return nil, err
	}
	if used == user.UsedStorage {
		return user, nil
	}

	updated, err := store.SetUsed(ctx, user.AccessToken, used)
	if err != nil {
		return nil, err
	}
	if a.notifier != nil {
		a.notifier.QuotaChanged(updated)
	}
	return updated, nil
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders n the "#,##0.#" way: 1536 -> "1.5 KB",
// 1000 -> "1,000 Bytes". Zero and negative sizes are "0 Bytes".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	value := float64(n)
	group := 0
	for value >= 1024 && group < len(sizeUnits)-1 {
		value /= 1024
		group++
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf("%v %s", number.Decimal(value, number.MaxFractionDigits(1)), sizeUnits[group])
}
