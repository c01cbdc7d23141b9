package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a review, file or comment does not exist.
var ErrNotFound = errors.New("record not found")

// fileBatchSize bounds the number of rows per INSERT during bulk file creation.
const fileBatchSize = 100

// fileMetaColumns are the review_files columns loaded for listings.
var fileMetaColumns = []string{"id", "review_id", "file_path", "old_path", "status", "additions", "deletions", "position"}

// DB is the SQLite-backed store.
type DB struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&Review{}, &ReviewFile{}, &Comment{}); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateReview inserts r and its files atomically. Missing ids are assigned.
func (d *DB) CreateReview(ctx context.Context, r *Review, files []ReviewFile) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		return createFiles(tx, r.ID, files)
	})
}

// CreateFiles bulk-inserts files for an existing review in one transaction.
func (d *DB) CreateFiles(ctx context.Context, reviewID string, files []ReviewFile) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createFiles(tx, reviewID, files)
	})
}

func createFiles(tx *gorm.DB, reviewID string, files []ReviewFile) error {
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		files[i].ReviewID = reviewID
		if files[i].ID == "" {
			files[i].ID = uuid.NewString()
		}
	}
	return tx.CreateInBatches(files, fileBatchSize).Error
}

// FindReview returns the review with id.
func (d *DB) FindReview(ctx context.Context, id string) (*Review, error) {
	var r Review
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// ListReviews returns the matching page, newest first, and the total number
// of matching reviews.
func (d *DB) ListReviews(ctx context.Context, f ListFilter) ([]Review, int64, error) {
	filtered := func() *gorm.DB {
		q := d.db.WithContext(ctx).Model(&Review{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.RepositoryPath != "" {
			q = q.Where("repository_path = ?", f.RepositoryPath)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := filtered().Order("created_at DESC").Order("id")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var reviews []Review
	if err := q.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// UpdateReviewStatus sets the status of review id and returns the updated row.
func (d *DB) UpdateReviewStatus(ctx context.Context, id, status string) (*Review, error) {
	res := d.db.WithContext(ctx).Model(&Review{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return d.FindReview(ctx, id)
}

// DeleteReview removes a review together with its files and comments.
func (d *DB) DeleteReview(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&ReviewFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Review{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// FindFiles returns the file records of a review in diff order, without
// their hunk data.
func (d *DB) FindFiles(ctx context.Context, reviewID string) ([]ReviewFile, error) {
	var files []ReviewFile
	err := d.db.WithContext(ctx).
		Select(fileMetaColumns).
		Where("review_id = ?", reviewID).
		Order("position").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FindFile returns one file record including its hunk data.
func (d *DB) FindFile(ctx context.Context, reviewID, filePath string) (*ReviewFile, error) {
	var f ReviewFile
	err := d.db.WithContext(ctx).
		Where("review_id = ? AND file_path = ?", reviewID, filePath).
		First(&f).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// DeleteFiles removes every file record of a review.
func (d *DB) DeleteFiles(ctx context.Context, reviewID string) error {
	return d.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&ReviewFile{}).Error
}

// CreateComment inserts c, assigning an id when missing.
func (d *DB) CreateComment(ctx context.Context, c *Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return d.db.WithContext(ctx).Create(c).Error
}

// ListComments returns a review's comments, oldest first.
func (d *DB) ListComments(ctx context.Context, reviewID string) ([]Comment, error) {
	var comments []Comment
	err := d.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at").
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
