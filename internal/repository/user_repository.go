package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/moviebase/movie-recommendation/internal/model"
	"github.com/moviebase/movie-recommendation/internal/utils"
)

// DefaultWatchlistName is the name given to the watchlist created for
// every new user at registration time.
const DefaultWatchlistName = "My Watchlist"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts the user and their default watchlist in one transaction.
// Either both rows exist afterwards or neither does; a user is never left
// without a watchlist.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, cost int) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrDuplicateUser
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO watchlists (user_id, name) VALUES (?,?)",
		id, DefaultWatchlistName); err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	return model.User{ID: uint64(id), Username: username, Email: email}, nil
}

// Authenticate fetches a user by username and verifies the password
// against the stored bcrypt hash. Both an unknown username and a wrong
// password yield ErrInvalidCredentials so callers cannot tell the two
// apart.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, username, email, password_hash FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}
