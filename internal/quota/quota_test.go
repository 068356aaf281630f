package quota

import (
	"context"
	"strings"
	"testing"

	"fileport/internal/models"
	"fileport/internal/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFormatFileSize(t *testing.T) {
	cases := map[int64]string{
		-5:                   "0 Bytes",
		0:                    "0 Bytes",
		1:                    "1 Bytes",
		1000:                 "1,000 Bytes",
		1024:                 "1 KB",
		1536:                 "1.5 KB",
		1126:                 "1.1 KB",
		500 * 1024 * 1024:    "500 MB",
		3 << 30:              "3 GB",
		1 << 50:              "1,024 TB",
		1024*1024 + 512*1024: "1.5 MB",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatFileSize(in), "FormatFileSize(%d)", in)
	}
}

func TestNewStorageInfo(t *testing.T) {
	info := NewStorageInfo(2048, 512)
	require.Equal(t, int64(2048), info.Limit)
	require.Equal(t, int64(512), info.Used)
	require.Equal(t, int64(1536), info.Remaining)
	require.InDelta(t, 25.0, info.Percentage, 1e-9)
	require.Equal(t, "2 KB", info.LimitFormatted)
	require.Equal(t, "512 Bytes", info.UsedFormatted)
	require.Equal(t, "1.5 KB", info.RemainingFormatted)

	zero := NewStorageInfo(0, 100)
	require.Zero(t, zero.Percentage)
	require.Equal(t, int64(-100), zero.Remaining)
	require.Equal(t, "0 Bytes", zero.RemainingFormatted)
}

func TestAdmit(t *testing.T) {
	user := &models.User{StorageLimit: 100, UsedStorage: 60}

	require.NoError(t, Admit(user, 40), "exactly filling the quota is allowed")
	require.ErrorIs(t, Admit(user, 41), ErrQuotaExceeded)
}

func newAccountant(t *testing.T) (*Accountant, *storage.LocalStorage) {
	t.Helper()
	root := storage.NewFromFs(afero.NewMemMapFs())
	return NewAccountant(root), root
}

func TestAccountant_UsedAndInfo(t *testing.T) {
	acc, root := newAccountant(t)
	user := &models.User{UserID: "7", StorageLimit: 1000}

	used, err := acc.Used(user)
	require.NoError(t, err)
	require.Zero(t, used, "missing user directory counts as empty")

	userStorage, err := root.ForUser("7")
	require.NoError(t, err)
	_, _, err = userStorage.Save("a.txt", strings.NewReader(strings.Repeat("a", 150)))
	require.NoError(t, err)
	_, _, err = userStorage.Save("sub/b.txt", strings.NewReader(strings.Repeat("b", 100)))
	require.NoError(t, err)
	// other users do not count
	_, _, err = root.Save("/users/8/c.txt", strings.NewReader("ccc"))
	require.NoError(t, err)

	info, err := acc.Info(user)
	require.NoError(t, err)
	require.Equal(t, int64(250), info.Used)
	require.Equal(t, int64(750), info.Remaining)
	require.InDelta(t, 25.0, info.Percentage, 1e-9)

	again, err := acc.Info(user)
	require.NoError(t, err)
	require.Equal(t, info, again, "querying twice without changes is stable")
}

type fakeCounterStore struct {
	calls int
	user  models.User
}

func (f *fakeCounterStore) SetUsed(_ context.Context, token string, used int64) (*models.User, error) {
	f.calls++
	u := f.user
	u.AccessToken = token
	u.UsedStorage = used
	return &u, nil
}

type recordingNotifier struct {
	users []*models.User
}

func (n *recordingNotifier) QuotaChanged(user *models.User) {
	n.users = append(n.users, user)
}

func TestAccountant_Reconcile(t *testing.T) {
	acc, root := newAccountant(t)
	_, _, err := root.Save("/users/9/file.bin", strings.NewReader("123456"))
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	acc.Notify(notifier)

	user := &models.User{UserID: "9", AccessToken: "tok", StorageLimit: 100, UsedStorage: 0}
	store := &fakeCounterStore{user: *user}

	updated, err := acc.Reconcile(context.Background(), store, user)
	require.NoError(t, err)
	require.Equal(t, "9", updated.UserID)
	require.Equal(t, int64(6), updated.UsedStorage)
	require.Equal(t, 1, store.calls)
	require.Len(t, notifier.users, 1)
	require.Equal(t, int64(6), notifier.users[0].UsedStorage)

	again, err := acc.Reconcile(context.Background(), store, updated)
	require.NoError(t, err)
	require.Equal(t, int64(6), again.UsedStorage)
	require.Equal(t, 1, store.calls, "no write when the counter already matches")
	require.Len(t, notifier.users, 1)
}
