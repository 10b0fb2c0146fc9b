package campaign

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository stores and retrieves generated campaigns. An empty userID in
// List means no user filter.
type Repository interface {
	Insert(ctx context.Context, c *Campaign) error
	Get(ctx context.Context, id uuid.UUID) (*Campaign, error)
	List(ctx context.Context, userID string, limit int) ([]Campaign, error)
}

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists campaigns in Postgres.
type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Insert(ctx context.Context, c *Campaign) error {
	query := `
		INSERT INTO marketing_campaigns (id, user_id, prompt, campaign_name, objective, timeframe, channels, generated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.UserID, c.Prompt, c.CampaignName, c.Objective, c.Timeframe, c.Channels, []byte(c.Generated), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("campaign: insert: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	query := `
		SELECT id, user_id, prompt, campaign_name, objective, timeframe, channels, generated, created_at
		FROM marketing_campaigns
		WHERE id = $1
	`
	var c Campaign
	var generated []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Prompt, &c.CampaignName, &c.Objective, &c.Timeframe, &c.Channels, &generated, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("campaign: get: %w", err)
	}
	c.Generated = generated
	return &c, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit int) ([]Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	// The filter belongs in the WHERE clause: filtering after LIMIT would
	// drop a user's older campaigns once other users fill the window.
	query := `
		SELECT id, user_id, prompt, campaign_name, objective, timeframe, channels, generated, created_at
		FROM marketing_campaigns
		ORDER BY created_at DESC
		LIMIT $1
	`
	args := []any{limit}
	if userID != "" {
		query = `
			SELECT id, user_id, prompt, campaign_name, objective, timeframe, channels, generated, created_at
			FROM marketing_campaigns
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		args = []any{userID, limit}
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("campaign: list: %w", err)
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		var c Campaign
		var generated []byte
		if err := rows.Scan(&c.ID, &c.UserID, &c.Prompt, &c.CampaignName, &c.Objective, &c.Timeframe, &c.Channels, &generated, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("campaign: scan: %w", err)
		}
		c.Generated = generated
		out = append(out, c)
	}
	return out, rows.Err()
}

// MemoryRepository is an in-memory repository for tests and local runs.
type MemoryRepository struct {
	mu        sync.RWMutex
	campaigns map[uuid.UUID]Campaign
	order     []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{campaigns: make(map[uuid.UUID]Campaign)}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Insert(_ context.Context, c *Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.campaigns[c.ID]; exists {
		return fmt.Errorf("campaign: insert: duplicate id %s", c.ID)
	}
	r.campaigns[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) List(_ context.Context, userID string, limit int) ([]Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 {
		limit = len(r.order)
	}
	out := make([]Campaign, 0, limit)
	// Newest first, matching the Postgres ordering.
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		c := r.campaigns[r.order[i]]
		if userID != "" && c.UserID != userID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
