package stats

import (
	"context"
	"fmt"

	"github.com/co2tracker/co2tracker/pkg/footprint"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// ListObservations returns every record of the user across all categories, oldest first.
	ListObservations(ctx context.Context, userId int) ([]CategoryObservation, error)
	// ListUserEmissions returns totals and distinct record days of every user that has records.
	ListUserEmissions(ctx context.Context) ([]UserEmission, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListObservations(ctx context.Context, userId int) ([]CategoryObservation, error) {
	query := `SELECT 'travel', date_created, co2_kg FROM travel_co2 WHERE user_id = $1
			  UNION ALL
			  SELECT 'food', date_created, co2_kg FROM food_co2 WHERE user_id = $1
			  UNION ALL
			  SELECT 'energy', date_created, co2_kg FROM energy_co2 WHERE user_id = $1
			  ORDER BY 2`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	observations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (CategoryObservation, error) {
		var o CategoryObservation
		var category string
		err := row.Scan(&category, &o.Date, &o.AmountKg)
		o.Category = footprint.Category(category)
		return o, err
	})
	if err != nil {
		err := fmt.Errorf("could not read observations: %w", err)
		log.Error(err)
		return nil, err
	}
	return observations, nil
}

func (r *RepositoryImpl) ListUserEmissions(ctx context.Context) ([]UserEmission, error) {
	query := `WITH records AS (
				  SELECT user_id, date_created, co2_kg FROM travel_co2
				  UNION ALL
				  SELECT user_id, date_created, co2_kg FROM food_co2
				  UNION ALL
				  SELECT user_id, date_created, co2_kg FROM energy_co2
			  )
			  SELECT u.id, u.uid, u.username, SUM(r.co2_kg), COUNT(DISTINCT r.date_created)
			  FROM records r
			  JOIN users u ON u.id = r.user_id
			  GROUP BY u.id, u.uid, u.username
			  ORDER BY u.username`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	emissions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (UserEmission, error) {
		var e UserEmission
		err := row.Scan(&e.UserId, &e.Uid, &e.Username, &e.TotalKg, &e.Days)
		return e, err
	})
	if err != nil {
		err := fmt.Errorf("could not read user emissions: %w", err)
		log.Error(err)
		return nil, err
	}
	return emissions, nil
}
