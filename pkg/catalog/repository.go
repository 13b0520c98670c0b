package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	ListTransports(ctx context.Context) ([]Transport, error)
	ListTransportTypes(ctx context.Context) ([]TransportType, error)
	GetTransportType(ctx context.Context, id int) (TransportType, Transport, error)
	ListEnergyTypes(ctx context.Context) ([]EnergyType, error)
	ListLocations(ctx context.Context) ([]Location, error)
	ApplySeed(ctx context.Context, seed Seed) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListTransports(ctx context.Context) ([]Transport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, api_name FROM transport ORDER BY id`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Transport, error) {
		var t Transport
		err := row.Scan(&t.Id, &t.Name, &t.ApiName)
		return t, err
	})
}

func (r *RepositoryImpl) ListTransportTypes(ctx context.Context) ([]TransportType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, transport_id FROM transport_type ORDER BY id`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (TransportType, error) {
		var t TransportType
		err := row.Scan(&t.Id, &t.Name, &t.TransportId)
		return t, err
	})
}

func (r *RepositoryImpl) GetTransportType(ctx context.Context, id int) (TransportType, Transport, error) {
	query := `SELECT tt.id, tt.name, tt.transport_id, t.id, t.name, t.api_name
			  FROM transport_type tt JOIN transport t ON t.id = tt.transport_id
			  WHERE tt.id = $1`
	var transportType TransportType
	var transport Transport
	err := r.db.QueryRow(ctx, query, id).Scan(
		&transportType.Id, &transportType.Name, &transportType.TransportId,
		&transport.Id, &transport.Name, &transport.ApiName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return TransportType{}, Transport{}, ErrTransportTypeNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return TransportType{}, Transport{}, err
	}
	return transportType, transport, nil
}

func (r *RepositoryImpl) ListEnergyTypes(ctx context.Context) ([]EnergyType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM energy_type ORDER BY name`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (EnergyType, error) {
		var e EnergyType
		err := row.Scan(&e.Id, &e.Name)
		return e, err
	})
}

func (r *RepositoryImpl) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM location ORDER BY name`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Location, error) {
		var l Location
		err := row.Scan(&l.Id, &l.Name)
		return l, err
	})
}

// ApplySeed upserts every entry of the seed by name in a single transaction.
func (r *RepositoryImpl) ApplySeed(ctx context.Context, seed Seed) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, transport := range seed.Transports {
		var transportId int
		err := tx.QueryRow(ctx,
			`INSERT INTO transport (name, api_name) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET api_name = EXCLUDED.api_name
			 RETURNING id`,
			transport.Name, transport.ApiName,
		).Scan(&transportId)
		if err != nil {
			err := fmt.Errorf("could not upsert transport %s: %w", transport.Name, err)
			log.Error(err)
			return err
		}
		for _, typeName := range transport.Types {
			_, err := tx.Exec(ctx,
				`INSERT INTO transport_type (name, transport_id) VALUES ($1, $2)
				 ON CONFLICT (name) DO UPDATE SET transport_id = EXCLUDED.transport_id`,
				typeName, transportId,
			)
			if err != nil {
				err := fmt.Errorf("could not upsert transport type %s: %w", typeName, err)
				log.Error(err)
				return err
			}
		}
	}

	for _, name := range seed.EnergyTypes {
		if _, err := tx.Exec(ctx, `INSERT INTO energy_type (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			err := fmt.Errorf("could not upsert energy type %s: %w", name, err)
			log.Error(err)
			return err
		}
	}
	for _, name := range seed.Locations {
		if _, err := tx.Exec(ctx, `INSERT INTO location (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			err := fmt.Errorf("could not upsert location %s: %w", name, err)
			log.Error(err)
			return err
		}
	}

	return tx.Commit(ctx)
}
