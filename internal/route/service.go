package route

import (
	"context"
	"encoding/json"
	"time"

	"backend-routehub/internal/db"
	"backend-routehub/internal/engine"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

type Service struct {
	db    db.Querier
	cache *redis.Client
	opts  engine.Options
}

// NewService wires the engine to its persistence and cache collaborators.
// cache may be nil; the service then reads straight from the database.
func NewService(db db.Querier, cache *redis.Client, opts engine.Options) *Service {
	return &Service{db: db, cache: cache, opts: opts}
}

// ProcessUpload runs the engine over an uploaded track document and stores
// the result. The engine itself has no cancellation; ctx bounds the
// database work around it.
func (s *Service) ProcessUpload(ctx context.Context, name string, data []byte) (Route, error) {
	result, err := engine.Process(data, s.opts)
	if err != nil {
		return Route{}, err
	}

	r := Route{
		ID:               uuid.NewString(),
		Name:             name,
		RawPointCount:    result.RawPointCount,
		Summary:          result.Summary,
		SimplifiedPoints: result.SimplifiedPoints,
		Statistics:       result.Statistics,
	}

	summaryJSON, err := json.Marshal(r.Summary)
	if err != nil {
		return Route{}, err
	}
	pointsJSON, err := json.Marshal(r.SimplifiedPoints)
	if err != nil {
		return Route{}, err
	}
	var statsJSON []byte
	if r.Statistics != nil {
		if statsJSON, err = json.Marshal(r.Statistics); err != nil {
			return Route{}, err
		}
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, name, total_distance_km, elevation_gain_m, raw_point_count, summary, simplified_points, statistics)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, r.ID, r.Name, r.Summary.TotalDistanceKm, r.Summary.ElevationGainM, r.RawPointCount, summaryJSON, pointsJSON, statsJSON)
	if err := row.Scan(&r.CreatedAt); err != nil {
		return Route{}, err
	}

	s.cachePut(ctx, r)
	return r, nil
}

func (s *Service) GetRoute(ctx context.Context, id string) (Route, error) {
	if r, ok := s.cacheGet(ctx, id); ok {
		return r, nil
	}

	var r Route
	var summaryJSON, pointsJSON []byte
	var statsJSON []byte
	row := s.db.QueryRow(ctx, `
		SELECT id, name, raw_point_count, summary, simplified_points, statistics, created_at
		FROM routes WHERE id=$1
	`, id)
	if err := row.Scan(&r.ID, &r.Name, &r.RawPointCount, &summaryJSON, &pointsJSON, &statsJSON, &r.CreatedAt); err != nil {
		return Route{}, err
	}
	if err := json.Unmarshal(summaryJSON, &r.Summary); err != nil {
		return Route{}, err
	}
	if err := json.Unmarshal(pointsJSON, &r.SimplifiedPoints); err != nil {
		return Route{}, err
	}
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &r.Statistics); err != nil {
			return Route{}, err
		}
	}

	s.cachePut(ctx, r)
	return r, nil
}

func (s *Service) ListRoutes(ctx context.Context) ([]ListItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, total_distance_km, elevation_gain_m, raw_point_count, created_at
		FROM routes ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListItem
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.TotalDistanceKm, &it.ElevationGainM, &it.RawPointCount, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Service) DeleteRoute(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM routes WHERE id=$1`, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKey(id)).Err()
	}
	return nil
}

func cacheKey(id string) string { return "route:" + id }

func (s *Service) cacheGet(ctx context.Context, id string) (Route, bool) {
	if s.cache == nil {
		return Route{}, false
	}
	payload, err := s.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return Route{}, false
	}
	var r Route
	if err := json.Unmarshal(payload, &r); err != nil {
		return Route{}, false
	}
	return r, true
}

func (s *Service) cachePut(ctx context.Context, r Route) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, cacheKey(r.ID), payload, cacheTTL).Err()
}
