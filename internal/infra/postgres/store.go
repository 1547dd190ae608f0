// Package postgres holds the Postgres adapters: the catalog loader (pgx) and
// the bun-backed user, document and catalog stores.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"rights-arcade/internal/auth"
	"rights-arcade/internal/domain"
)

// Open connects bun to the Postgres at dsn.
func Open(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID           string    `bun:"id,pk"`
	Email        string    `bun:"email"`
	DisplayName  string    `bun:"display_name"`
	PasswordHash string    `bun:"password_hash"`
	CreatedAt    time.Time `bun:"created_at"`
}

type documentRow struct {
	bun.BaseModel `bun:"table:documents"`

	ID         string    `bun:"id,pk"`
	Collection string    `bun:"collection"`
	Data       string    `bun:"data,type:jsonb"`
	CreatedAt  time.Time `bun:"created_at"`
}

type catalogRow struct {
	bun.BaseModel `bun:"table:catalogs"`

	ModeID    string    `bun:"mode_id,pk"`
	Data      string    `bun:"data,type:jsonb"`
	UpdatedAt time.Time `bun:"updated_at"`
}

// UserStore is an auth.UserStore over the users table.
type UserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, user auth.User) error {
	row := userRow{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) UserByEmail(ctx context.Context, email string) (auth.User, error) {
	return s.selectOne(ctx, "email = ?", email)
}

func (s *UserStore) UserByID(ctx context.Context, id string) (auth.User, error) {
	return s.selectOne(ctx, "id = ?", id)
}

func (s *UserStore) selectOne(ctx context.Context, where string, arg any) (auth.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where(where, arg).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("select user: %w", err)
	}
	return auth.User{
		ID:           row.ID,
		Email:        row.Email,
		DisplayName:  row.DisplayName,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// DocumentStore writes JSON documents into the documents table.
type DocumentStore struct {
	db *bun.DB
}

func NewDocumentStore(db *bun.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) SubmitDocument(ctx context.Context, collection string, record any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	row := documentRow{
		ID:         uuid.NewString(),
		Collection: collection,
		Data:       string(data),
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return row.ID, nil
}

// CountDocuments returns how many documents collection holds.
func (s *DocumentStore) CountDocuments(ctx context.Context, collection string) (int, error) {
	return s.db.NewSelect().Model((*documentRow)(nil)).Where("collection = ?", collection).Count(ctx)
}

// SeedCatalogs upserts catalogs into the catalogs table.
func SeedCatalogs(ctx context.Context, db *bun.DB, catalogs map[domain.ModeID]domain.Catalog) (int, error) {
	if len(catalogs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	rows := make([]catalogRow, 0, len(catalogs))
	for mode, catalog := range catalogs {
		data, err := json.Marshal(catalog)
		if err != nil {
			return 0, fmt.Errorf("encode catalog %s: %w", mode, err)
		}
		rows = append(rows, catalogRow{ModeID: string(mode), Data: string(data), UpdatedAt: now})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (mode_id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed catalogs: %w", err)
	}
	return len(rows), nil
}
