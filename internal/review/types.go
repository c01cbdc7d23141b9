package review

import (
	"time"

	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/gitctx"
	"github.com/dshills/selfreview/internal/redact"
	"github.com/dshills/selfreview/internal/store"
)

// Status is the review's workflow state.
type Status string

const (
	StatusInProgress       Status = "in_progress"
	StatusApproved         Status = "approved"
	StatusChangesRequested Status = "changes_requested"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusApproved, StatusChangesRequested:
		return true
	}
	return false
}

// Details is the normalized view of a review, independent of the snapshot
// format it was stored in. Files never carry hunks.
type Details struct {
	ID              string          `json:"id"`
	RepositoryPath  string          `json:"repositoryPath"`
	BaseRef         string          `json:"baseRef,omitempty"`
	SourceType      SourceType      `json:"sourceType"`
	SourceRef       string          `json:"sourceRef,omitempty"`
	Status          Status          `json:"status"`
	SnapshotVersion int             `json:"snapshotVersion"`
	Repository      gitctx.RepoMeta `json:"repository"`
	Files           []diff.File     `json:"files"`
	Summary         diff.Summary    `json:"summary"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateRequest asks for a new review of RepositoryPath.
type CreateRequest struct {
	RepositoryPath string
	SourceType     SourceType
	SourceRef      string
}

// ListOptions filters and pages List. Page is 1-based.
type ListOptions struct {
	Status         Status
	RepositoryPath string
	Page           int
	PageSize       int
}

// ListResult is one page of reviews.
type ListResult struct {
	Reviews  []Details `json:"reviews"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// CommentRequest adds a comment to a file of a review. LineNumber and
// LineType are optional; LineType selects which side LineNumber refers to.
type CommentRequest struct {
	ReviewID   string
	FilePath   string
	LineNumber *int
	LineType   diff.LineKind
	Content    string
}

// ExportOptions controls BuildExport.
type ExportOptions struct {
	Redact redact.Policy
}

// ExportComment is a comment with the diff lines around it, when they could
// be located.
type ExportComment struct {
	store.Comment
	Snippet string `json:"snippet,omitempty"`
}

// Export is everything needed to render a review outside the tool.
type Export struct {
	Review   Details         `json:"review"`
	Comments []ExportComment `json:"comments"`
}
