package accidents

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository, for
// deployments that keep the dataset in a shared database instead of a CSV
// shipped with the service.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL accident repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `
	latitude, longitude, risk_score, city, road_condition,
	weather, severity,
	total_casualties, fatalities, serious_injuries, minor_injuries
`

// All returns every record in the dataset.
func (r *PostgresRepository) All(ctx context.Context) ([]Record, error) {
	query := `SELECT ` + selectColumns + ` FROM accidents`
	return r.queryRecords(ctx, query)
}

// ByCity returns the records labeled with the given city.
func (r *PostgresRepository) ByCity(ctx context.Context, city string) ([]Record, error) {
	query := `SELECT ` + selectColumns + ` FROM accidents WHERE city = $1`
	return r.queryRecords(ctx, query, city)
}

// Count returns the dataset size.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accidents`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]Record, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		err := rows.Scan(
			&rec.Latitude,
			&rec.Longitude,
			&rec.RiskScore,
			&rec.City,
			&rec.RoadCondition,
			&rec.Weather,
			&rec.Severity,
			&rec.TotalCasualties,
			&rec.Fatalities,
			&rec.SeriousInjuries,
			&rec.MinorInjuries,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
