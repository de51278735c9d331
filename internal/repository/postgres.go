package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"skincare-tracker/internal/model"
	"skincare-tracker/pkg/metrics"
)

// PGStore keeps one record kind in a table of JSONB documents. Owner and
// timestamps are mirrored into columns for indexing and ordering.
type PGStore[T any, P Record[T]] struct {
	db     *pgxpool.Pool
	table  string
	logger *zap.Logger
	now    func() time.Time
}

func NewPGStore[T any, P Record[T]](db *pgxpool.Pool, table string, logger *zap.Logger) *PGStore[T, P] {
	return &PGStore[T, P]{db: db, table: table, logger: logger, now: time.Now}
}

// NewPostgresStores returns a Stores backed by pool.
func NewPostgresStores(pool *pgxpool.Pool, logger *zap.Logger) Stores {
	return Stores{
		Products:   NewPGStore[model.Product](pool, Products, logger),
		Routines:   NewPGStore[model.Routine](pool, Routines, logger),
		Tasks:      NewPGStore[model.Task](pool, Tasks, logger),
		Reviews:    NewPGStore[model.Review](pool, Reviews, logger),
		Activities: NewPGStore[model.Activity](pool, Activities, logger),
	}
}

// where builds the WHERE clause shared by Find and Count.
func where(f Filter) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(f.Match) > 0 {
		raw, err := json.Marshal(f.Match)
		if err != nil {
			return "", nil, fmt.Errorf("invalid filter: %w", err)
		}
		args = append(args, raw)
		conds = append(conds, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
	}
	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func orderBy(f Filter) (string, error) {
	if f.SortBy == "" {
		return " ORDER BY seq", nil
	}
	var col string
	switch f.SortBy {
	case "createdAt":
		col = "created_at"
	case "updatedAt":
		col = "updated_at"
	default:
		if !fieldName.MatchString(f.SortBy) {
			return "", fmt.Errorf("invalid sort field %q", f.SortBy)
		}
		col = fmt.Sprintf("doc->'%s'", f.SortBy)
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, seq", col, dir), nil
}

func (s *PGStore[T, P]) Find(ctx context.Context, f Filter) ([]*T, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("find", s.table, time.Since(start)) }()

	clause, args, err := where(f)
	if err != nil {
		return nil, err
	}
	order, err := orderBy(f)
	if err != nil {
		return nil, err
	}
	query := "SELECT doc FROM " + s.table + clause + order
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rec := new(T)
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PGStore[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("find_by_id", s.table, time.Since(start)) }()

	var raw []byte
	err := s.db.QueryRow(ctx, "SELECT doc FROM "+s.table+" WHERE id = $1", id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := new(T)
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PGStore[T, P]) Count(ctx context.Context, f Filter) (int, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("count", s.table, time.Since(start)) }()

	clause, args, err := where(f)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+s.table+clause, args...).Scan(&n)
	return n, err
}

func (s *PGStore[T, P]) Insert(ctx context.Context, rec *T) (*T, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", s.table, time.Since(start)) }()

	doc := P(rec).Doc()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	query := `
        INSERT INTO ` + s.table + ` (id, user_id, doc, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := s.db.Exec(ctx, query, doc.ID, doc.UserID, raw, doc.CreatedAt, doc.UpdatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PGStore[T, P]) Save(ctx context.Context, rec *T) (*T, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("save", s.table, time.Since(start)) }()

	doc := P(rec).Doc()
	doc.UpdatedAt = s.now().UTC()

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	query := `
        UPDATE ` + s.table + `
        SET user_id = $2, doc = $3, updated_at = $4
        WHERE id = $1
    `
	tag, err := s.db.Exec(ctx, query, doc.ID, doc.UserID, raw, doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *PGStore[T, P]) Delete(ctx context.Context, rec *T) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", s.table, time.Since(start)) }()

	id := P(rec).Doc().ID
	tag, err := s.db.Exec(ctx, "DELETE FROM "+s.table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.logger.Debug("record deleted", zap.String("table", s.table), zap.String("id", id))
	return nil
}
