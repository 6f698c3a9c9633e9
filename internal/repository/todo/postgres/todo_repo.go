package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoBoard/internal/config"
	"todoBoard/internal/logger"
	"todoBoard/internal/models/todo"
	repo "todoBoard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

const selectColumns = `id, text, deadline, done, created_at, updated_at`

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: invalid connection string", err)
		return nil, fmt.Errorf("parsing pool config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = cfg.MinConnections
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: creating pool failed", err)
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func warnIfSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: slow query", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}

// parseID maps ids that are not UUIDs to ErrNotFound; such a row cannot exist.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, repo.ErrNotFound
	}
	return parsed, nil
}

func scanTodo(row pgx.Row) (*todo.Todo, error) {
	var (
		id uuid.UUID
		t  todo.Todo
	)
	if err := row.Scan(&id, &t.Text, &t.Deadline, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = id.String()
	return &t, nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()
	defer warnIfSlow("create", start)

	id := uuid.New()
	query := `INSERT INTO todos (id, text, deadline, done)
				VALUES ($1, $2, $3, $4)
				RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		id,
		todoToCreate.Text,
		todoToCreate.Deadline,
		todoToCreate.Done,
	).Scan(&todoToCreate.CreatedAt, &todoToCreate.UpdatedAt)
	if err != nil {
		logger.Error("Repository: insert failed", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("inserting todo: %w", err)
	}

	todoToCreate.ID = id.String()
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id string) (*todo.Todo, error) {
	start := time.Now()
	defer warnIfSlow("get", start)

	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + selectColumns + ` FROM todos WHERE id = $1`
	t, err := scanTodo(s.pool.QueryRow(ctx, query, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: select failed", err, zap.String("todo_id", id))
		return nil, fmt.Errorf("selecting todo: %w", err)
	}
	return t, nil
}

// Update applies the patch in a single statement; COALESCE keeps columns whose
// patch field is nil.
func (s *Storage) Update(ctx context.Context, id string, patch todo.Patch) (*todo.Todo, error) {
	start := time.Now()
	defer warnIfSlow("update", start)

	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `UPDATE todos
			SET text = COALESCE($2, text),
				deadline = COALESCE($3, deadline),
				done = COALESCE($4, done),
				updated_at = NOW()
			WHERE id = $1
			RETURNING ` + selectColumns

	t, err := scanTodo(s.pool.QueryRow(ctx, query, parsed, patch.Text, patch.Deadline, patch.Done))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: update failed", err, zap.String("todo_id", id))
		return nil, fmt.Errorf("updating todo: %w", err)
	}
	return t, nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer warnIfSlow("delete", start)

	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, parsed)
	if err != nil {
		logger.Error("Repository: delete failed", err, zap.String("todo_id", id))
		return fmt.Errorf("deleting todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) List(ctx context.Context) ([]*todo.Todo, error) {
	start := time.Now()
	defer warnIfSlow("list", start)

	query := `SELECT ` + selectColumns + ` FROM todos ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: list failed", err)
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return todos, nil
}
