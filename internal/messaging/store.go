package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ExchangeRecord is one inbound message paired with the reply we attempted.
type ExchangeRecord struct {
	ID        uuid.UUID `json:"id"`
	SenderID  string    `json:"sender_id"`
	Inbound   string    `json:"inbound"`
	Reply     string    `json:"reply"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// Querier is the subset of pgxpool.Pool the message log needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store records message exchanges for auditing and the admin views.
type Store interface {
	InsertExchange(ctx context.Context, rec *ExchangeRecord) error
	ListRecent(ctx context.Context, limit int) ([]ExchangeRecord, error)
}

// PostgresStore keeps the message log in Postgres.
type PostgresStore struct {
	db Querier
}

func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) InsertExchange(ctx context.Context, rec *ExchangeRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO message_log (id, sender_id, inbound, reply, delivered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.Exec(ctx, query, rec.ID, rec.SenderID, rec.Inbound, rec.Reply, rec.Delivered, rec.CreatedAt); err != nil {
		return fmt.Errorf("messaging: insert exchange: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]ExchangeRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, sender_id, inbound, reply, delivered, created_at
		FROM message_log
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("messaging: list exchanges: %w", err)
	}
	defer rows.Close()

	var out []ExchangeRecord
	for rows.Next() {
		var rec ExchangeRecord
		if err := rows.Scan(&rec.ID, &rec.SenderID, &rec.Inbound, &rec.Reply, &rec.Delivered, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("messaging: scan exchange: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MemoryStore is an in-memory message log for tests and local development.
// The webhook fans inbound messages out per sender, so writes arrive
// concurrently.
type MemoryStore struct {
	mu      sync.Mutex
	records []ExchangeRecord
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) InsertExchange(_ context.Context, rec *ExchangeRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Newest first, matching the Postgres ordering.
	s.records = append([]ExchangeRecord{*rec}, s.records...)
	return nil
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int) ([]ExchangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]ExchangeRecord, limit)
	copy(out, s.records[:limit])
	return out, nil
}
