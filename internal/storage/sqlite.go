package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/fairbench/berq/internal/errors"
	"github.com/fairbench/berq/internal/resample"
)

// Store persists disparity reports locally so past runs can be audited
type Store struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// StoredRun is one persisted disparity report row
type StoredRun struct {
	ID               string    `db:"id"`
	CreatedAt        time.Time `db:"created_at"`
	InputPath        string    `db:"input_path"`
	NumeratorGroup   string    `db:"numerator_group"`
	DenominatorGroup string    `db:"denominator_group"`
	PointEstimate    float64   `db:"point_estimate"`
	LowerCI          float64   `db:"lower_ci"`
	UpperCI          float64   `db:"upper_ci"`
	Confidence       float64   `db:"confidence"`
	Resamples        int       `db:"n_resamples"`
	Seed             int64     `db:"seed"`
	ZeroFloorCount   int       `db:"zero_floor_count"`
	Bias             string    `db:"bias"`
}

// NewStore opens (or creates) the run-history database
func NewStore(path string, logger *logrus.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.FileSystemErrorf(err, "failed to create history directory %s", dir)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.StorageErrorf(err, "failed to open history database %s", path)
	}

	// WAL mode keeps concurrent readers cheap
	db.Exec("PRAGMA journal_mode = WAL")

	store := &Store{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

// NewStoreWithDB wraps an existing connection (used by tests)
func NewStoreWithDB(db *sqlx.DB, logger *logrus.Logger) (*Store, error) {
	store := &Store{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS disparity_runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		input_path TEXT NOT NULL DEFAULT '',
		numerator_group TEXT NOT NULL,
		denominator_group TEXT NOT NULL,
		point_estimate REAL NOT NULL,
		lower_ci REAL NOT NULL,
		upper_ci REAL NOT NULL,
		confidence REAL NOT NULL,
		n_resamples INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		zero_floor_count INTEGER NOT NULL DEFAULT 0,
		bias TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_disparity_runs_created
		ON disparity_runs(created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.StorageError(err, "failed to initialize history schema")
	}
	return nil
}

// SaveReport persists one disparity report
func (s *Store) SaveReport(ctx context.Context, report *resample.Report, inputPath string) error {
	run := StoredRun{
		ID:               report.RunID,
		CreatedAt:        report.CreatedAt,
		InputPath:        inputPath,
		NumeratorGroup:   report.NumeratorGroup,
		DenominatorGroup: report.DenominatorGroup,
		PointEstimate:    report.PointEstimate,
		LowerCI:          report.LowerCI,
		UpperCI:          report.UpperCI,
		Confidence:       report.Confidence,
		Resamples:        report.Resamples,
		Seed:             report.Seed,
		ZeroFloorCount:   report.ZeroFloorCount,
		Bias:             report.Bias.String(),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO disparity_runs (
			id, created_at, input_path, numerator_group, denominator_group,
			point_estimate, lower_ci, upper_ci, confidence, n_resamples,
			seed, zero_floor_count, bias
		) VALUES (
			:id, :created_at, :input_path, :numerator_group, :denominator_group,
			:point_estimate, :lower_ci, :upper_ci, :confidence, :n_resamples,
			:seed, :zero_floor_count, :bias
		)`, run)
	if err != nil {
		return errors.StorageErrorf(err, "failed to save run %s", report.RunID)
	}

	if s.logger != nil {
		s.logger.WithField("run_id", report.RunID).Debug("saved disparity report")
	}
	return nil
}

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]StoredRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []StoredRun
	err := s.db.SelectContext(ctx, &runs, `
		SELECT id, created_at, input_path, numerator_group, denominator_group,
		       point_estimate, lower_ci, upper_ci, confidence, n_resamples,
		       seed, zero_floor_count, bias
		FROM disparity_runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.StorageError(err, "failed to list runs")
	}
	return runs, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
