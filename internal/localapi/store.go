package localapi

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizdeck/quizdeck/internal/api"
)

var ErrNotFound = errors.New("not found")

// SQLStore backs the dev server with database/sql, sqlite by default and
// postgres via pgx. Answers are stored as JSON blobs on their question row.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func newID() string { return uuid.NewString() }

func fmtTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// ---- users ----

// UserRecord is a stored user plus the fields that never leave the server.
type UserRecord struct {
	api.User
	PasswordHash string
}

func scanUser(row interface{ Scan(...any) error }) (UserRecord, error) {
	var u UserRecord
	var phone sql.NullString
	var roles string
	var created, updated int64
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &phone, &u.PasswordHash, &roles, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserRecord{}, ErrNotFound
		}
		return UserRecord{}, err
	}
	u.Roles = strings.Split(roles, ",")
	u.CreatedAt = fmtTime(created)
	u.UpdatedAt = fmtTime(updated)
	return u, nil
}

const userCols = `id,email,full_name,phone,password_hash,roles,created_at,updated_at`

func (s *SQLStore) CreateUser(ctx context.Context, email, fullName, phone, passwordHash string, roles []string) (api.User, error) {
	now := time.Now().Unix()
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		id, email, fullName, phone, passwordHash, strings.Join(roles, ","), now, now)
	if err != nil {
		return api.User{}, err
	}
	return api.User{
		ID: id, Email: email, FullName: fullName, Roles: roles,
		CreatedAt: fmtTime(now), UpdatedAt: fmtTime(now),
	}, nil
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (UserRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email)
	return scanUser(row)
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (api.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if err != nil {
		return api.User{}, err
	}
	return u.User, nil
}

func (s *SQLStore) ListUsers(ctx context.Context, page, size int) (api.Page[api.User], error) {
	out := api.Page[api.User]{Page: page, Size: size, Content: []api.User{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&out.TotalElements); err != nil {
		return out, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at LIMIT $1 OFFSET $2`, size, page*size)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return out, err
		}
		out.Content = append(out.Content, u.User)
	}
	out.TotalPages = pages(out.TotalElements, size)
	return out, rows.Err()
}

func (s *SQLStore) UpdateUser(ctx context.Context, id string, fullName, phone string) (api.User, error) {
	// Empty inputs leave the stored value alone.
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET
		   full_name = CASE WHEN $1 = '' THEN full_name ELSE $1 END,
		   phone     = CASE WHEN $2 = '' THEN phone ELSE $2 END,
		   updated_at = $3
		 WHERE id=$4`,
		fullName, phone, time.Now().Unix(), id)
	if err != nil {
		return api.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return api.User{}, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *SQLStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SetRoles(ctx context.Context, id string, roles []string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET roles=$1, updated_at=$2 WHERE id=$3`,
		strings.Join(roles, ","), time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func pages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
