package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/storage/models"
	"github.com/fairlens/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping() error {
	return c.db.Ping()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		path TEXT NOT NULL,
		rows INTEGER NOT NULL,
		columns INTEGER NOT NULL,
		column_names TEXT NOT NULL,
		has_age_group INTEGER DEFAULT 0,
		uploaded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_datasets_uploaded ON datasets(uploaded_at);

	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		dataset_id TEXT NOT NULL,
		protected_attr TEXT NOT NULL,
		total_metrics INTEGER NOT NULL,
		fair INTEGER NOT NULL,
		warning INTEGER NOT NULL,
		violation INTEGER NOT NULL,
		overall TEXT NOT NULL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_dataset ON analyses(dataset_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertDataset(ds *models.Dataset) error {
	columnsJSON, _ := json.Marshal(ds.ColumnNames)

	hasAgeGroup := 0
	if ds.HasAgeGroup {
		hasAgeGroup = 1
	}

	query := `
		INSERT INTO datasets (id, filename, path, rows, columns, column_names, has_age_group, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			path = excluded.path,
			rows = excluded.rows,
			columns = excluded.columns,
			column_names = excluded.column_names,
			has_age_group = excluded.has_age_group
	`

	_, err := c.db.Exec(
		query,
		ds.ID,
		ds.Filename,
		ds.Path,
		ds.Rows,
		ds.Columns,
		string(columnsJSON),
		hasAgeGroup,
		ds.UploadedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	logger.Debug("Dataset inserted", zap.String("dataset_id", ds.ID), zap.String("filename", ds.Filename))
	return nil
}

func (c *Client) GetDataset(id string) (*models.Dataset, error) {
	query := `SELECT id, filename, path, rows, columns, column_names, has_age_group, uploaded_at FROM datasets WHERE id = ?`

	var ds models.Dataset
	var columnsJSON string
	var hasAgeGroup int
	var uploadedAt int64

	err := c.db.QueryRow(query, id).Scan(
		&ds.ID,
		&ds.Filename,
		&ds.Path,
		&ds.Rows,
		&ds.Columns,
		&columnsJSON,
		&hasAgeGroup,
		&uploadedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	json.Unmarshal([]byte(columnsJSON), &ds.ColumnNames)
	ds.HasAgeGroup = hasAgeGroup != 0
	ds.UploadedAt = time.Unix(uploadedAt, 0)

	return &ds, nil
}

func (c *Client) ListDatasets(limit int) ([]models.Dataset, error) {
	query := `
		SELECT id, filename, path, rows, columns, column_names, has_age_group, uploaded_at
		FROM datasets
		ORDER BY uploaded_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var result []models.Dataset
	for rows.Next() {
		var ds models.Dataset
		var columnsJSON string
		var hasAgeGroup int
		var uploadedAt int64

		err := rows.Scan(&ds.ID, &ds.Filename, &ds.Path, &ds.Rows, &ds.Columns, &columnsJSON, &hasAgeGroup, &uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		json.Unmarshal([]byte(columnsJSON), &ds.ColumnNames)
		ds.HasAgeGroup = hasAgeGroup != 0
		ds.UploadedAt = time.Unix(uploadedAt, 0)
		result = append(result, ds)
	}

	return result, nil
}

func (c *Client) DeleteDataset(id string) error {
	_, err := c.db.Exec(`DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}

	logger.Debug("Dataset deleted", zap.String("dataset_id", id))
	return nil
}

func (c *Client) InsertAnalysisRecord(rec *models.AnalysisRecord) error {
	query := `
		INSERT INTO analyses (id, dataset_id, protected_attr, total_metrics, fair, warning, violation,
			overall, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		rec.ID,
		rec.DatasetID,
		rec.ProtectedAttr,
		rec.TotalMetrics,
		rec.Fair,
		rec.Warning,
		rec.Violation,
		rec.Overall,
		rec.LatencyMS,
		rec.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}

	logger.Info("Analysis recorded",
		zap.String("analysis_id", rec.ID),
		zap.String("dataset_id", rec.DatasetID),
		zap.String("overall", rec.Overall),
	)

	return nil
}

func (c *Client) GetAnalysisHistory(datasetID string, limit int) ([]models.AnalysisRecord, error) {
	query := `
		SELECT id, dataset_id, protected_attr, total_metrics, fair, warning, violation, overall, latency_ms, created_at
		FROM analyses
	`
	args := []interface{}{}
	if datasetID != "" {
		query += ` WHERE dataset_id = ?`
		args = append(args, datasetID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis history: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		var latency sql.NullInt64
		var createdAt int64

		err := rows.Scan(&r.ID, &r.DatasetID, &r.ProtectedAttr, &r.TotalMetrics, &r.Fair, &r.Warning,
			&r.Violation, &r.Overall, &latency, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.LatencyMS = int(latency.Int64)
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, nil
}
