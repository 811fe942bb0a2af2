package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"walletportal/models"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresRepository(db *sql.DB) PostgresRepository {
	return PostgresRepository{db: db, now: time.Now}
}

func (r PostgresRepository) CreateSession(
	ctx context.Context,
	s models.Session,
) error {
	const op = "repository.CreateSession"

	profile, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = r.db.ExecContext(
		ctx,
		"INSERT INTO sessions (id, auth_token, profile, dark_mode, created_at, expires_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6)",
		s.ID, s.AuthToken, profile, s.DarkMode, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSession treats expired rows as missing.
func (r PostgresRepository) GetSession(
	ctx context.Context,
	id string,
) (models.Session, error) {
	const op = "repository.GetSession"

	row := r.db.QueryRowContext(
		ctx,
		"SELECT id, auth_token, profile, dark_mode, created_at, expires_at FROM sessions WHERE id=$1",
		id,
	)
	var (
		s       models.Session
		profile []byte
	)
	err := row.Scan(&s.ID, &s.AuthToken, &profile, &s.DarkMode, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, models.ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if s.Expired(r.now()) {
		return models.Session{}, models.ErrSessionNotFound
	}
	if err := json.Unmarshal(profile, &s.User); err != nil {
		return models.Session{}, fmt.Errorf("%s: decode profile: %w", op, err)
	}
	return s, nil
}

// DebitBalance subtracts amount from the token balance of the stored profile
// and returns the updated profile. The row is locked for the read-modify-write.
func (r PostgresRepository) DebitBalance(
	ctx context.Context,
	id string,
	token models.TokenType,
	amount decimal.Decimal,
) (models.UserProfile, error) {
	const op = "repository.DebitBalance"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	err = tx.QueryRowContext(
		ctx,
		"SELECT profile FROM sessions WHERE id=$1 FOR UPDATE",
		id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserProfile{}, models.ErrSessionNotFound
		}
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: decode profile: %w", op, err)
	}
	profile = token.Debit(profile, amount)

	data, err := json.Marshal(profile)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	_, err = tx.ExecContext(
		ctx,
		"UPDATE sessions SET profile=$1 WHERE id=$2",
		data, id,
	)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

func (r PostgresRepository) UpdateDarkMode(
	ctx context.Context,
	id string,
	enabled bool,
) error {
	const op = "repository.UpdateDarkMode"

	res, err := r.db.ExecContext(
		ctx,
		"UPDATE sessions SET dark_mode=$1 WHERE id=$2",
		enabled, id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOneRow(op, res)
}

func (r PostgresRepository) DeleteSession(
	ctx context.Context,
	id string,
) error {
	const op = "repository.DeleteSession"

	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func expectOneRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}
