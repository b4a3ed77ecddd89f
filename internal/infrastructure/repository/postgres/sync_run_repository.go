package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/matchpulse/livecenter/internal/domain/runledger"
	qb "github.com/matchpulse/livecenter/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Insert(ctx context.Context, entry runledger.Entry) error {
	params, err := sonic.Marshal(entry.Params)
	if err != nil {
		return fmt.Errorf("encode sync run params: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	insertModel := syncRunInsertModel{
		JobType:        string(entry.JobType),
		Success:        entry.Success,
		MatchesUpdated: entry.MatchesUpdated,
		ErrorText:      nullableString(entry.ErrorText),
		Params:         string(params),
		CreatedAt:      createdAt,
	}

	query, args, err := qb.InsertModel("sync_runs", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

type syncRunInsertModel struct {
	JobType        string    `db:"job_type"`
	Success        bool      `db:"success"`
	MatchesUpdated int       `db:"matches_updated"`
	ErrorText      *string   `db:"error_text"`
	Params         string    `db:"params"`
	CreatedAt      time.Time `db:"created_at"`
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
