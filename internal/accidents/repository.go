package accidents

import "context"

// Repository provides read access to the historical accident dataset.
// Implementations return records the caller must treat as read-only.
type Repository interface {
	// All returns every record in the dataset.
	All(ctx context.Context) ([]Record, error)

	// ByCity returns the records for a city, matched case-sensitively the
	// way the dataset was labeled.
	ByCity(ctx context.Context, city string) ([]Record, error)

	// Count returns the dataset size.
	Count(ctx context.Context) (int, error)
}

// StaticRepository serves a fixed in-memory record set. This is intended for
// testing; production loads from CSV or PostgreSQL.
type StaticRepository struct {
	records []Record
}

// NewStaticRepository creates a repository over a fixed record set.
func NewStaticRepository(records []Record) *StaticRepository {
	return &StaticRepository{records: records}
}

// All returns every record in the dataset.
func (r *StaticRepository) All(_ context.Context) ([]Record, error) {
	return r.records, nil
}

// ByCity returns the records labeled with the given city.
func (r *StaticRepository) ByCity(_ context.Context, city string) ([]Record, error) {
	var out []Record
	for _, rec := range r.records {
		if rec.City == city {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count returns the dataset size.
func (r *StaticRepository) Count(_ context.Context) (int, error) {
	return len(r.records), nil
}

// Ensure StaticRepository implements Repository interface.
var _ Repository = (*StaticRepository)(nil)
