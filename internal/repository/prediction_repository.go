package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

const uniqueViolation = "23505"

var entryColumns = []string{
	"prediction_id", "rank", "driver_id", "driver_name", "team",
	"average_points", "average_position", "win_probability", "podium_probability", "dnf_probability",
}

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a forecast and its entries in one transaction
func (r *PostgresPredictionRepository) Create(ctx context.Context, run *models.PredictionRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		query := `
			INSERT INTO prediction_runs (id, season, circuit_id, mode, runs, seed, reliability_factor, weather_factor, random_incidents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at
		`
		err := r.db.QueryRow(txCtx, query,
			run.ID, run.Season, run.CircuitID, run.Mode, run.Runs, run.Seed,
			run.Parameters.ReliabilityFactor, run.Parameters.WeatherFactor, run.Parameters.RandomIncidents,
		).Scan(&run.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return models.ErrDuplicateKey
			}
			return fmt.Errorf("failed to create prediction run: %w", err)
		}

		if len(run.Entries) == 0 {
			return nil
		}
		if _, err := r.db.CopyFrom(txCtx, pgx.Identifier{"prediction_entries"}, entryColumns, pgx.CopyFromRows(entryRows(run))); err != nil {
			return fmt.Errorf("failed to insert prediction entries: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a forecast and its entries
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRun, error) {
	query := `
		SELECT id, season, circuit_id, mode, runs, seed, reliability_factor, weather_factor, random_incidents, created_at
		FROM prediction_runs WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction run: %w", err)
	}

	if err := r.loadEntries(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRecent retrieves the newest forecasts for a circuit, entries included.
// A season of 0 matches every season.
func (r *PostgresPredictionRepository) ListRecent(ctx context.Context, season int, circuitID string, limit int) ([]*models.PredictionRun, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, season, circuit_id, mode, runs, seed, reliability_factor, weather_factor, random_incidents, created_at
		FROM prediction_runs
		WHERE circuit_id = $1 AND ($2 = 0 OR season = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, circuitID, season, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.PredictionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if err := r.loadEntries(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// Delete removes a forecast; its entries cascade
func (r *PostgresPredictionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM prediction_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prediction run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresPredictionRepository) loadEntries(ctx context.Context, run *models.PredictionRun) error {
	query := `
		SELECT rank, driver_id, driver_name, team, average_points, average_position,
		       win_probability, podium_probability, dnf_probability
		FROM prediction_entries
		WHERE prediction_id = $1
		ORDER BY rank ASC
	`

	rows, err := r.db.Query(ctx, query, run.ID)
	if err != nil {
		return fmt.Errorf("failed to query prediction entries: %w", err)
	}
	defer rows.Close()

	run.Entries = run.Entries[:0]
	for rows.Next() {
		var e models.PredictionEntry
		if err := rows.Scan(
			&e.Rank, &e.DriverID, &e.DriverName, &e.Team, &e.AveragePoints, &e.AveragePosition,
			&e.WinProbability, &e.PodiumProbability, &e.DNFProbability,
		); err != nil {
			return fmt.Errorf("failed to scan prediction entry: %w", err)
		}
		run.Entries = append(run.Entries, e)
	}
	return rows.Err()
}

func scanRun(row pgx.Row) (*models.PredictionRun, error) {
	run := &models.PredictionRun{}
	err := row.Scan(
		&run.ID, &run.Season, &run.CircuitID, &run.Mode, &run.Runs, &run.Seed,
		&run.Parameters.ReliabilityFactor, &run.Parameters.WeatherFactor, &run.Parameters.RandomIncidents,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// entryRows flattens entries in entryColumns order for COPY
func entryRows(run *models.PredictionRun) [][]interface{} {
	rows := make([][]interface{}, 0, len(run.Entries))
	for _, e := range run.Entries {
		rows = append(rows, []interface{}{
			run.ID, e.Rank, e.DriverID, e.DriverName, e.Team,
			e.AveragePoints, e.AveragePosition, e.WinProbability, e.PodiumProbability, e.DNFProbability,
		})
	}
	return rows
}
