package dataset

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/storage/models"
	"github.com/fairlens/backend/internal/storage/sqlite"
	"github.com/fairlens/backend/pkg/logger"
)

type Metadata struct {
	DatasetID   string   `json:"dataset_id"`
	Filename    string   `json:"filename"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
	UploadDate  string   `json:"upload_date"`
	HasAgeGroup bool     `json:"has_age_group"`
}

// Repository is the dataset access surface the analysis and report layers
// depend on.
type Repository interface {
	Put(f *Frame, filename string) (Metadata, error)
	Get(id string) (*Frame, Metadata, error)
	Delete(id string) error
	List(limit int) ([]Metadata, error)
}

// Store keeps the parsed frame of every known dataset in memory, the raw CSV
// on disk under the upload directory, and the metadata row in SQLite. Frames
// evicted by a restart are re-parsed from disk on first access.
type Store struct {
	uploadDir string
	db        *sqlite.Client

	mu    sync.RWMutex
	cache map[string]*entry
}

type entry struct {
	frame *Frame
	meta  Metadata
}

func NewStore(uploadDir string, db *sqlite.Client) (*Store, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Store{
		uploadDir: uploadDir,
		db:        db,
		cache:     make(map[string]*entry),
	}, nil
}

func (s *Store) csvPath(id string) string {
	return filepath.Join(s.uploadDir, id+".csv")
}

func (s *Store) Put(f *Frame, filename string) (Metadata, error) {
	meta := Metadata{
		DatasetID:   uuid.New().String(),
		Filename:    filename,
		Rows:        f.Rows(),
		Columns:     f.NumColumns(),
		ColumnNames: f.ColumnNames(),
		UploadDate:  time.Now().Format(time.RFC3339),
		HasAgeGroup: f.HasColumn("age_group"),
	}

	path := s.csvPath(meta.DatasetID)
	file, err := os.Create(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to create dataset file: %w", err)
	}
	if err := f.WriteCSV(file); err != nil {
		file.Close()
		os.Remove(path)
		return Metadata{}, fmt.Errorf("failed to write dataset file: %w", err)
	}
	if err := file.Close(); err != nil {
		return Metadata{}, fmt.Errorf("failed to close dataset file: %w", err)
	}

	uploadedAt, _ := time.Parse(time.RFC3339, meta.UploadDate)
	err = s.db.InsertDataset(&models.Dataset{
		ID:          meta.DatasetID,
		Filename:    meta.Filename,
		Path:        path,
		Rows:        meta.Rows,
		Columns:     meta.Columns,
		ColumnNames: meta.ColumnNames,
		HasAgeGroup: meta.HasAgeGroup,
		UploadedAt:  uploadedAt,
	})
	if err != nil {
		os.Remove(path)
		return Metadata{}, err
	}

	s.mu.Lock()
	s.cache[meta.DatasetID] = &entry{frame: f, meta: meta}
	s.mu.Unlock()

	logger.Info("Dataset stored",
		zap.String("dataset_id", meta.DatasetID),
		zap.String("filename", filename),
		zap.Int("rows", meta.Rows),
	)

	return meta, nil
}

func (s *Store) Get(id string) (*Frame, Metadata, error) {
	s.mu.RLock()
	if e, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return e.frame, e.meta, nil
	}
	s.mu.RUnlock()

	ds, err := s.db.GetDataset(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Metadata{}, ErrNotFound
		}
		return nil, Metadata{}, err
	}

	file, err := os.Open(ds.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Metadata{}, ErrNotFound
		}
		return nil, Metadata{}, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	frame, err := ParseCSV(file)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to reload dataset %s: %w", id, err)
	}

	meta := Metadata{
		DatasetID:   ds.ID,
		Filename:    ds.Filename,
		Rows:        ds.Rows,
		Columns:     ds.Columns,
		ColumnNames: ds.ColumnNames,
		UploadDate:  ds.UploadedAt.Format(time.RFC3339),
		HasAgeGroup: ds.HasAgeGroup,
	}

	s.mu.Lock()
	s.cache[id] = &entry{frame: frame, meta: meta}
	s.mu.Unlock()

	logger.Debug("Dataset reloaded from disk", zap.String("dataset_id", id))

	return frame, meta, nil
}

// Delete removes the dataset everywhere it lives. Deleting an unknown id is
// not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()

	if err := os.Remove(s.csvPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove dataset file: %w", err)
	}

	return s.db.DeleteDataset(id)
}

func (s *Store) List(limit int) ([]Metadata, error) {
	rows, err := s.db.ListDatasets(limit)
	if err != nil {
		return nil, err
	}

	out := make([]Metadata, 0, len(rows))
	for _, ds := range rows {
		out = append(out, Metadata{
			DatasetID:   ds.ID,
			Filename:    ds.Filename,
			Rows:        ds.Rows,
			Columns:     ds.Columns,
			ColumnNames: ds.ColumnNames,
			UploadDate:  ds.UploadedAt.Format(time.RFC3339),
			HasAgeGroup: ds.HasAgeGroup,
		})
	}
	return out, nil
}
