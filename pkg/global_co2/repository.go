package global_co2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// ReplaceAll swaps the stored levels for the given ones atomically.
	ReplaceAll(ctx context.Context, levels []Level) error
	List(ctx context.Context) ([]Level, error)
	// LatestDate returns ErrNoData when nothing is stored.
	LatestDate(ctx context.Context) (time.Time, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ReplaceAll(ctx context.Context, levels []Level) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM global_co2_level`); err != nil {
		err := fmt.Errorf("could not clear global CO2 levels: %w", err)
		log.Error(err)
		return err
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"global_co2_level"},
		[]string{"date", "trend", "cycle"},
		pgx.CopyFromSlice(len(levels), func(i int) ([]any, error) {
			return []any{levels[i].Date, levels[i].Trend, levels[i].Cycle}, nil
		}),
	)
	if err != nil {
		err := fmt.Errorf("could not insert global CO2 levels: %w", err)
		log.Error(err)
		return err
	}

	return tx.Commit(ctx)
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Level, error) {
	rows, err := r.db.Query(ctx, `SELECT date, trend, cycle FROM global_co2_level ORDER BY date`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Level, error) {
		var l Level
		err := row.Scan(&l.Date, &l.Trend, &l.Cycle)
		return l, err
	})
}

func (r *RepositoryImpl) LatestDate(ctx context.Context) (time.Time, error) {
	var latest time.Time
	err := r.db.QueryRow(ctx, `SELECT date FROM global_co2_level ORDER BY date DESC LIMIT 1`).Scan(&latest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNoData
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return time.Time{}, err
	}
	return latest, nil
}
