package footprint

import (
	"context"
	"fmt"

	"github.com/co2tracker/co2tracker/pkg/emission"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateTravel(ctx context.Context, record TravelRecord) (TravelRecord, error)
	CreateFood(ctx context.Context, record FoodRecord) (FoodRecord, error)
	CreateEnergy(ctx context.Context, record EnergyRecord) (EnergyRecord, error)
	ListTravel(ctx context.Context, userId int) ([]TravelRecord, error)
	ListFood(ctx context.Context, userId int) ([]FoodRecord, error)
	ListEnergy(ctx context.Context, userId int) ([]EnergyRecord, error)
	// Delete removes a record owned by userId. ErrRecordNotFound covers records of other users.
	Delete(ctx context.Context, userId int, category Category, id int) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateTravel(ctx context.Context, record TravelRecord) (TravelRecord, error) {
	query := `INSERT INTO travel_co2 (user_id, transport_id, transport_type_id, distance_km, co2_kg, date_created)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		record.UserId,
		record.TransportId,
		record.TransportTypeId,
		record.DistanceKm,
		record.Co2Kg,
		record.Date,
	).Scan(&record.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return TravelRecord{}, err
	}
	return record, nil
}

func (r *RepositoryImpl) CreateFood(ctx context.Context, record FoodRecord) (FoodRecord, error) {
	query := `INSERT INTO food_co2 (user_id, food_group, category, name, amount_kg, co2_kg, date_created)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		record.UserId,
		record.Group,
		record.Category,
		record.Name,
		record.AmountKg,
		record.Co2Kg,
		record.Date,
	).Scan(&record.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return FoodRecord{}, err
	}
	return record, nil
}

func (r *RepositoryImpl) CreateEnergy(ctx context.Context, record EnergyRecord) (EnergyRecord, error) {
	query := `INSERT INTO energy_co2 (user_id, type, location, green_type, amount_kwh, co2_kg, date_created)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		record.UserId,
		string(record.Kind),
		record.Location,
		record.GreenType,
		record.AmountKwh,
		record.Co2Kg,
		record.Date,
	).Scan(&record.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return EnergyRecord{}, err
	}
	return record, nil
}

func (r *RepositoryImpl) ListTravel(ctx context.Context, userId int) ([]TravelRecord, error) {
	query := `SELECT tc.id, tc.user_id, tc.transport_id, tc.transport_type_id, t.name, tt.name,
				tc.distance_km, tc.co2_kg, tc.date_created
			  FROM travel_co2 tc
			  JOIN transport t ON t.id = tc.transport_id
			  JOIN transport_type tt ON tt.id = tc.transport_type_id
			  WHERE tc.user_id = $1
			  ORDER BY tc.date_created DESC, tc.id DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (TravelRecord, error) {
		var rec TravelRecord
		err := row.Scan(&rec.Id, &rec.UserId, &rec.TransportId, &rec.TransportTypeId, &rec.TransportName,
			&rec.TypeName, &rec.DistanceKm, &rec.Co2Kg, &rec.Date)
		return rec, err
	})
}

func (r *RepositoryImpl) ListFood(ctx context.Context, userId int) ([]FoodRecord, error) {
	query := `SELECT id, user_id, food_group, category, name, amount_kg, co2_kg, date_created
			  FROM food_co2 WHERE user_id = $1
			  ORDER BY date_created DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (FoodRecord, error) {
		var rec FoodRecord
		err := row.Scan(&rec.Id, &rec.UserId, &rec.Group, &rec.Category, &rec.Name, &rec.AmountKg, &rec.Co2Kg, &rec.Date)
		return rec, err
	})
}

func (r *RepositoryImpl) ListEnergy(ctx context.Context, userId int) ([]EnergyRecord, error) {
	query := `SELECT id, user_id, type, location, green_type, amount_kwh, co2_kg, date_created
			  FROM energy_co2 WHERE user_id = $1
			  ORDER BY date_created DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (EnergyRecord, error) {
		var rec EnergyRecord
		var kind string
		err := row.Scan(&rec.Id, &rec.UserId, &kind, &rec.Location, &rec.GreenType, &rec.AmountKwh, &rec.Co2Kg, &rec.Date)
		rec.Kind = emission.EnergyKind(kind)
		return rec, err
	})
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, category Category, id int) error {
	table, err := tableOf(category)
	if err != nil {
		return err
	}
	result, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func tableOf(category Category) (string, error) {
	switch category {
	case Travel:
		return "travel_co2", nil
	case Food:
		return "food_co2", nil
	case Energy:
		return "energy_co2", nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
}
