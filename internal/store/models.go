package store

import "time"

// Review is a persisted review. Snapshot holds the JSON snapshot blob whose
// shape depends on its version tag.
type Review struct {
	ID             string  `gorm:"primaryKey;size:36"`
	RepositoryPath string  `gorm:"index;not null"`
	BaseRef        *string `gorm:"size:255"`
	SourceType     string  `gorm:"size:16;not null"`
	SourceRef      *string `gorm:"type:text"`
	Status         string  `gorm:"size:32;index;not null"`
	Snapshot       string  `gorm:"type:text;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewFile is one changed file of a review. HunksData is nil when hunks are
// regenerated from git instead of cached.
type ReviewFile struct {
	ID        string  `gorm:"primaryKey;size:36"`
	ReviewID  string  `gorm:"size:36;not null;uniqueIndex:idx_review_files_review_path"`
	FilePath  string  `gorm:"not null;uniqueIndex:idx_review_files_review_path"`
	OldPath   *string `gorm:"type:text"`
	Status    string  `gorm:"size:16;not null"`
	Additions int     `gorm:"not null;default:0"`
	Deletions int     `gorm:"not null;default:0"`
	Position  int     `gorm:"not null;default:0"`
	HunksData *string `gorm:"type:text"`
}

func (ReviewFile) TableName() string {
	return "review_files"
}

// Comment is a reviewer note attached to a file, optionally to one line.
type Comment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ReviewID   string    `gorm:"size:36;index;not null" json:"reviewId"`
	FilePath   string    `gorm:"not null" json:"filePath"`
	LineNumber *int      `json:"lineNumber,omitempty"`
	LineType   *string   `gorm:"size:16" json:"lineType,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}

// ListFilter narrows and pages ListReviews. Zero values mean no filter; a
// zero Limit returns every row.
type ListFilter struct {
	Status         string
	RepositoryPath string
	Limit          int
	Offset         int
}
