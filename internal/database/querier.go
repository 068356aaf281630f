package database

import (
	"context"
	"fmt"

	"fileport/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS file_users (
	access_token  TEXT PRIMARY KEY,
	user_id       TEXT        NOT NULL,
	username      TEXT        NOT NULL,
	login_time    TIMESTAMPTZ NOT NULL,
	storage_limit BIGINT      NOT NULL,
	used_storage  BIGINT      NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS file_users_user_id_idx ON file_users (user_id);
`

func (q *Queries) EnsureSchema(ctx context.Context) error {
	_, err := q.db.Exec(ctx, Schema)
	return err
}

func (q *Queries) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT access_token, user_id, username, login_time, storage_limit, used_storage
		FROM file_users
		ORDER BY login_time, access_token
	`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.AccessToken,
			&u.UserID,
			&u.Username,
			&u.LoginTime,
			&u.StorageLimit,
			&u.UsedStorage,
		); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

var userColumns = []string{"access_token", "user_id", "username", "login_time", "storage_limit", "used_storage"}

// ReplaceUsers swaps the whole table content for users. Run it inside ExecTx.
func (q *Queries) ReplaceUsers(ctx context.Context, users []*models.User) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM file_users`); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	n, err := q.db.CopyFrom(ctx, pgx.Identifier{"file_users"}, userColumns,
		pgx.CopyFromSlice(len(users), func(i int) ([]any, error) {
			u := users[i]
			return []any{u.AccessToken, u.UserID, u.Username, u.LoginTime, u.StorageLimit, u.UsedStorage}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy users: %w", err)
	}
	if n != int64(len(users)) {
		return fmt.Errorf("copied %d of %d users", n, len(users))
	}

	return nil
}
