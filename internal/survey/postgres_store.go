package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool used by the store.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists conversation state in Postgres. The unique key on
// sender_id plus step-conditioned updates give the per-sender serialization
// guarantee across processes.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore creates a store backed by the given pool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		return nil
	}
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) GetState(ctx context.Context, senderID string) (*State, error) {
	query := `
		SELECT current_step, answers, created_at, updated_at
		FROM survey_states
		WHERE sender_id = $1
	`
	st := State{SenderID: senderID}
	var answers []byte
	err := s.pool.QueryRow(ctx, query, senderID).Scan(&st.CurrentStep, &answers, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("survey: get state: %w", err)
	}
	if err := json.Unmarshal(answers, &st.Answers); err != nil {
		return nil, fmt.Errorf("survey: decode answers: %w", err)
	}
	if st.Answers == nil {
		st.Answers = make(map[int]string)
	}
	return &st, nil
}

func (s *PostgresStore) CreateState(ctx context.Context, senderID string) (*State, error) {
	query := `
		INSERT INTO survey_states (sender_id, current_step, answers)
		VALUES ($1, 0, '{}'::jsonb)
		ON CONFLICT (sender_id) DO NOTHING
	`
	tag, err := s.pool.Exec(ctx, query, senderID)
	if err != nil {
		return nil, fmt.Errorf("survey: create state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAlreadyExists
	}
	now := time.Now().UTC()
	return &State{
		SenderID:    senderID,
		CurrentStep: 0,
		Answers:     make(map[int]string),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *PostgresStore) AdvanceState(ctx context.Context, senderID string, fromStep int, answer string) (*State, error) {
	query := `
		UPDATE survey_states
		SET answers = answers || jsonb_build_object($2::text, $3::text),
			current_step = current_step + 1,
			updated_at = now()
		WHERE sender_id = $1 AND current_step = $4
		RETURNING current_step, answers, created_at, updated_at
	`
	st := State{SenderID: senderID}
	var answers []byte
	err := s.pool.QueryRow(ctx, query, senderID, strconv.Itoa(fromStep), answer, fromStep).
		Scan(&st.CurrentStep, &answers, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the state vanished or another transition moved the step.
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, fmt.Errorf("survey: advance state: %w", err)
	}
	if err := json.Unmarshal(answers, &st.Answers); err != nil {
		return nil, fmt.Errorf("survey: decode answers: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) ArchiveState(ctx context.Context, senderID string, fromStep int, finalAnswer string) (*CompletedResponse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("survey: begin archive: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deleteQuery := `
		DELETE FROM survey_states
		WHERE sender_id = $1 AND current_step = $2
		RETURNING answers
	`
	var answersRaw []byte
	err = tx.QueryRow(ctx, deleteQuery, senderID, fromStep).Scan(&answersRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, fmt.Errorf("survey: delete state: %w", err)
	}

	var answers map[int]string
	if err := json.Unmarshal(answersRaw, &answers); err != nil {
		return nil, fmt.Errorf("survey: decode answers: %w", err)
	}
	if answers == nil {
		answers = make(map[int]string)
	}
	answers[fromStep] = finalAnswer

	merged, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("survey: encode answers: %w", err)
	}

	resp := CompletedResponse{
		ID:       uuid.New(),
		SenderID: senderID,
		Answers:  answers,
	}
	insertQuery := `
		INSERT INTO survey_responses (id, sender_id, answers)
		VALUES ($1, $2, $3)
		RETURNING completed_at
	`
	if err := tx.QueryRow(ctx, insertQuery, resp.ID, senderID, merged).Scan(&resp.CompletedAt); err != nil {
		return nil, fmt.Errorf("survey: insert response: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("survey: commit archive: %w", err)
	}
	return &resp, nil
}

func (s *PostgresStore) ListCompleted(ctx context.Context, limit int) ([]CompletedResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, sender_id, answers, completed_at
		FROM survey_responses
		ORDER BY completed_at DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("survey: list responses: %w", err)
	}
	defer rows.Close()

	var out []CompletedResponse
	for rows.Next() {
		var resp CompletedResponse
		var answers []byte
		if err := rows.Scan(&resp.ID, &resp.SenderID, &answers, &resp.CompletedAt); err != nil {
			return nil, fmt.Errorf("survey: scan response: %w", err)
		}
		if err := json.Unmarshal(answers, &resp.Answers); err != nil {
			return nil, fmt.Errorf("survey: decode answers: %w", err)
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}
