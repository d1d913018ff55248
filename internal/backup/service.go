package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/internal/catalog"
	"github.com/mvolkova/shopbot-backend/pkg/db"
	"github.com/mvolkova/shopbot-backend/pkg/db/models"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
	"github.com/mvolkova/shopbot-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service moves the product catalog in and out of JSON snapshots on disk.
type Service interface {
	Export(ctx context.Context) (string, error)
	Import(ctx context.Context, path string) (ImportResult, error)
}

// ImportResult counts what a snapshot import did. Skipped covers entries
// already present and entries whose category is unknown.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type service struct {
	catalog catalog.Repository
	tx      txRunner
	dir     string
	logg    *logger.Logger
	store   *metrics.StoreMetrics
}

// NewService builds a snapshot exchange over the given backup directory.
// The logger and metrics sink may be nil.
func NewService(catalogRepo catalog.Repository, tx txRunner, dir string, logg *logger.Logger, store *metrics.StoreMetrics) (Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if dir == "" {
		return nil, fmt.Errorf("backup directory required")
	}
	return &service{
		catalog: catalogRepo,
		tx:      tx,
		dir:     dir,
		logg:    logg,
		store:   store,
	}, nil
}

// Export writes the full catalog to a new timestamped snapshot and returns
// its path. An empty catalog exports as an empty JSON array.
func (s *service) Export(ctx context.Context) (path string, err error) {
	defer func(start time.Time) {
		s.store.Observe(metrics.OpBackupExport, time.Since(start), err)
	}(time.Now())

	products, err := s.catalog.ListProducts(ctx, nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	entries := make([]SnapshotProduct, 0, len(products))
	for _, product := range products {
		categoryName := ""
		if product.Category != nil {
			categoryName = product.Category.Name
		}
		entries = append(entries, SnapshotProduct{
			Name:        product.Name,
			Description: product.Description,
			Price:       jsonPrice{product.Price},
			Category:    categoryName,
			ImagePath:   product.ImagePath,
		})
	}

	data, err := encodeSnapshot(entries)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode snapshot")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeIO, err, "create backup directory")
	}
	path = filepath.Join(s.dir, snapshotFilename(time.Now()))
	if err := writeSnapshot(path, data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeIO, err, fmt.Sprintf("write snapshot %s", path))
	}

	if s.logg != nil {
		ctx = s.logg.WithSnapshot(ctx, path)
		s.logg.Info(s.logg.WithField(ctx, "products", len(entries)), "catalog snapshot written")
	}
	return path, nil
}

// Import loads a snapshot into the catalog. An empty path selects the newest
// snapshot in the backup directory. Existing products and entries with an
// unknown category are skipped, so reruns of the same snapshot are no-ops.
func (s *service) Import(ctx context.Context, path string) (result ImportResult, err error) {
	defer func(start time.Time) {
		s.store.Observe(metrics.OpBackupImport, time.Since(start), err)
	}(time.Now())

	if path == "" {
		path, err = s.latestSnapshot()
		if err != nil {
			return ImportResult{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, pkgerrors.Wrap(pkgerrors.CodeIO, err, fmt.Sprintf("read snapshot %s", path))
	}
	entries, err := decodeSnapshot(data)
	if err != nil {
		return ImportResult{}, pkgerrors.Wrap(pkgerrors.CodeParse, err, fmt.Sprintf("parse snapshot %s", path))
	}

	apply := func(tx *gorm.DB) error {
		result = ImportResult{}
		repo := s.catalog.WithTx(tx)

		for _, entry := range entries {
			if entry.Name == "" || entry.Category == "" {
				s.warn(ctx, path, entry.Name, "snapshot entry missing name or category, skipping")
				result.Skipped++
				continue
			}

			category, err := repo.FindCategoryByName(ctx, entry.Category)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.warn(ctx, path, entry.Name, "snapshot category unknown, skipping entry")
				result.Skipped++
				continue
			}
			if err != nil {
				return err
			}

			_, err = repo.FindProductByNameAndCategory(ctx, entry.Name, category.ID)
			if err == nil {
				result.Skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			_, err = repo.CreateProduct(ctx, &models.Product{
				Name:        entry.Name,
				Description: entry.Description,
				Price:       entry.Price.Decimal,
				ImagePath:   entry.ImagePath,
				CategoryID:  category.ID,
			})
			if err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	}

	err = s.tx.WithTx(ctx, apply)
	if db.IsUniqueViolation(err, "") {
		// A concurrent import inserted one of our entries first; the rerun
		// sees it and skips.
		err = s.tx.WithTx(ctx, apply)
	}
	if err != nil {
		return ImportResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import snapshot")
	}

	if s.logg != nil {
		ctx = s.logg.WithSnapshot(ctx, path)
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"imported": result.Imported,
			"skipped":  result.Skipped,
		}), "catalog snapshot imported")
	}
	return result, nil
}

// latestSnapshot returns the newest snapshot path in the backup directory.
func (s *service) latestSnapshot() (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, SnapshotGlob))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeIO, err, "scan backup directory")
	}
	if len(matches) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeIO, fmt.Sprintf("no snapshots found in %s", s.dir))
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func (s *service) warn(ctx context.Context, path, entryName, msg string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithSnapshot(ctx, path)
	s.logg.Warn(s.logg.WithField(ctx, "entry", entryName), msg)
}
