package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dshills/selfreview/internal/cache"
	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/gitctx"
	"github.com/dshills/selfreview/internal/store"
)

// Git is the repository a review is taken from.
type Git interface {
	IsRepo() bool
	HasCommits() bool
	HasStagedChanges() (bool, error)
	HeadSHA() (string, bool)
	Meta() gitctx.RepoMeta
	Options() gitctx.DiffOptions
	StagedDiff() (string, error)
	BranchDiff(branch string) (string, error)
	CommitsDiff(shas []string) (string, error)
	BranchFileDiff(branch string, paths ...string) (string, error)
	CommitsFileDiff(shas []string, paths ...string) (string, error)
}

// GitOpener returns the Git for a repository path.
type GitOpener func(repoPath string) Git

// Store persists reviews, their file records and comments.
type Store interface {
	CreateReview(ctx context.Context, r *store.Review, files []store.ReviewFile) error
	FindReview(ctx context.Context, id string) (*store.Review, error)
	ListReviews(ctx context.Context, f store.ListFilter) ([]store.Review, int64, error)
	UpdateReviewStatus(ctx context.Context, id, status string) (*store.Review, error)
	DeleteReview(ctx context.Context, id string) error
	FindFiles(ctx context.Context, reviewID string) ([]store.ReviewFile, error)
	FindFile(ctx context.Context, reviewID, filePath string) (*store.ReviewFile, error)
	CreateComment(ctx context.Context, c *store.Comment) error
	ListComments(ctx context.Context, reviewID string) ([]store.Comment, error)
}

// Options configures a Manager. The zero value is usable.
type Options struct {
	// Include and Exclude are doublestar patterns applied to file paths at
	// creation. An empty Include keeps every file.
	Include []string
	Exclude []string
	// Cache holds regenerated diff text for sources whose text cannot change.
	Cache  *cache.Cache
	Logger *slog.Logger
}

// Manager creates and reads reviews.
type Manager struct {
	store   Store
	openGit GitOpener
	include []string
	exclude []string
	cache   *cache.Cache
	logger  *slog.Logger
}

const defaultPageSize = 20

// NewManager returns a Manager backed by s, opening repositories with open.
func NewManager(s Store, open GitOpener, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		store:   s,
		openGit: open,
		include: opts.Include,
		exclude: opts.Exclude,
		cache:   opts.Cache,
		logger:  logger,
	}
}

// Create takes a snapshot of the requested changes and persists it.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Details, error) {
	g := m.openGit(req.RepositoryPath)
	if !g.IsRepo() {
		return nil, newError(CodeNotGitRepo, "%s is not a git repository", req.RepositoryPath)
	}
	if !g.HasCommits() {
		return nil, newError(CodeNoCommits, "repository %s has no commits", req.RepositoryPath)
	}

	src, err := ParseSource(req.SourceType, req.SourceRef)
	if err != nil {
		return nil, err
	}
	if src.Type() == SourceStaged {
		staged, err := g.HasStagedChanges()
		if err != nil {
			return nil, err
		}
		if !staged {
			return nil, newError(CodeNoStagedChanges, "no staged changes in %s", req.RepositoryPath)
		}
	}

	text, err := src.diff(g)
	if err != nil {
		return nil, err
	}
	files := m.filter(diff.Parse(text))
	if src.Type() == SourceCommits {
		files = mergeByPath(files)
	}
	if len(files) == 0 {
		return nil, newError(CodeNoChanges, "no changes to review")
	}

	origin := src.HunkOrigin()
	m.logger.Debug("creating review",
		"source", src.Type(), "ref", src.Ref(), "files", len(files), "storeHunks", origin.Stored)

	snap := SnapshotV2{Repo: g.Meta()}
	blob, err := EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}

	rec := &store.Review{
		RepositoryPath: req.RepositoryPath,
		BaseRef:        optional(src.baseRef(g)),
		SourceType:     string(src.Type()),
		SourceRef:      optional(src.Ref()),
		Status:         string(StatusInProgress),
		Snapshot:       blob,
	}
	rows, err := fileRecords(files, origin.Stored)
	if err != nil {
		return nil, err
	}
	if err := m.store.CreateReview(ctx, rec, rows); err != nil {
		return nil, err
	}
	return newDetails(rec, snap, files), nil
}

// Get returns the normalized details of a review.
func (m *Manager) Get(ctx context.Context, id string) (*Details, error) {
	l, err := m.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.details(ctx, l)
}

// List returns one page of reviews, newest first.
func (m *Manager) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, newError(CodeInvalidStatus, "unknown status %q", opts.Status)
	}
	page, size := opts.Page, opts.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}

	recs, total, err := m.store.ListReviews(ctx, store.ListFilter{
		Status:         string(opts.Status),
		RepositoryPath: opts.RepositoryPath,
		Limit:          size,
		Offset:         (page - 1) * size,
	})
	if err != nil {
		return nil, err
	}

	result := &ListResult{Reviews: []Details{}, Total: total, Page: page, PageSize: size}
	for i := range recs {
		l, err := m.decode(&recs[i])
		if err != nil {
			return nil, err
		}
		d, err := m.details(ctx, l)
		if err != nil {
			return nil, err
		}
		result.Reviews = append(result.Reviews, *d)
	}
	return result, nil
}

// FileHunks returns the hunks of one file of a review. Stored hunks win;
// otherwise branch and commit reviews regenerate them from git, and legacy
// snapshots fall back to their embedded files. A file with no hunk source
// yields an empty slice.
func (m *Manager) FileHunks(ctx context.Context, reviewID, filePath string) ([]diff.Hunk, error) {
	l, err := m.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	row, err := m.store.FindFile(ctx, reviewID, filePath)
	var oldPath string
	if err == nil && row.OldPath != nil {
		oldPath = *row.OldPath
	} else {
		oldPath = renamedFrom(l.snap.EmbeddedFiles(), filePath)
	}
	paths := []string{filePath}
	if oldPath != "" && oldPath != filePath {
		paths = append(paths, oldPath)
	}
	switch {
	case err == nil && row.HunksData != nil:
		var hunks []diff.Hunk
		if err := json.Unmarshal([]byte(*row.HunksData), &hunks); err != nil {
			return nil, fmt.Errorf("decoding hunks of %s: %w", filePath, err)
		}
		if hunks == nil {
			hunks = []diff.Hunk{}
		}
		return hunks, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	if l.source != nil {
		if origin := l.source.HunkOrigin(); origin.Regenerates() {
			return m.regenerate(l, origin, paths)
		}
	}

	if embedded := l.snap.EmbeddedFiles(); embedded != nil {
		m.logger.Debug("using legacy snapshot hunks", "review", reviewID, "path", filePath)
		return hunksForPath(embedded, filePath), nil
	}
	return []diff.Hunk{}, nil
}

// UpdateStatus moves a review to status.
func (m *Manager) UpdateStatus(ctx context.Context, id string, status Status) (*Details, error) {
	if !status.Valid() {
		return nil, newError(CodeInvalidStatus, "unknown status %q", status)
	}
	rec, err := m.store.UpdateReviewStatus(ctx, id, string(status))
	if err != nil {
		return nil, notFound(err, id)
	}
	l, err := m.decode(rec)
	if err != nil {
		return nil, err
	}
	return m.details(ctx, l)
}

// Delete removes a review with its file records and comments.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return notFound(m.store.DeleteReview(ctx, id), id)
}

// AddComment attaches a comment to a file of a review.
func (m *Manager) AddComment(ctx context.Context, req CommentRequest) (*store.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, newError(CodeInvalidComment, "comment content is empty")
	}
	if req.LineType != "" && !req.LineType.Valid() {
		return nil, newError(CodeInvalidComment, "unknown line type %q", req.LineType)
	}
	if _, err := m.find(ctx, req.ReviewID); err != nil {
		return nil, err
	}

	c := &store.Comment{
		ReviewID:   req.ReviewID,
		FilePath:   req.FilePath,
		LineNumber: req.LineNumber,
		Content:    req.Content,
	}
	if req.LineType != "" {
		kind := string(req.LineType)
		c.LineType = &kind
	}
	if err := m.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// loaded is a stored review with its snapshot decoded and source parsed.
type loaded struct {
	rec  *store.Review
	snap Snapshot
	// source is nil when the stored source cannot be parsed; such reviews
	// never regenerate hunks.
	source Source
}

func (m *Manager) find(ctx context.Context, id string) (*loaded, error) {
	rec, err := m.store.FindReview(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return m.decode(rec)
}

func (m *Manager) decode(rec *store.Review) (*loaded, error) {
	snap, err := DecodeSnapshot(rec.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("review %s: %w", rec.ID, err)
	}
	src, err := ParseSource(SourceType(rec.SourceType), deref(rec.SourceRef))
	if err != nil {
		m.logger.Debug("stored source not usable", "review", rec.ID, "error", err)
		src = nil
	}
	return &loaded{rec: rec, snap: snap, source: src}, nil
}

// details normalizes either snapshot shape. Legacy files come from the
// snapshot, current ones from file records; neither carries hunks.
func (m *Manager) details(ctx context.Context, l *loaded) (*Details, error) {
	var files []diff.File
	switch s := l.snap.(type) {
	case SnapshotV1:
		files = s.Files
	default:
		rows, err := m.store.FindFiles(ctx, l.rec.ID)
		if err != nil {
			return nil, err
		}
		files = make([]diff.File, len(rows))
		for i, row := range rows {
			files[i] = fileFromRecord(row)
		}
	}
	return newDetails(l.rec, l.snap, files), nil
}

// regenerate rebuilds the hunks of paths[0]. Any further paths are former
// names of the file, passed to git so the rename pairs up.
func (m *Manager) regenerate(l *loaded, origin HunkOrigin, paths []string) ([]diff.Hunk, error) {
	path := paths[0]
	g := m.openGit(l.rec.RepositoryPath)
	useCache := origin.Cacheable && m.cache != nil && m.cache.Enabled()
	key := cache.Key(append([]string{
		l.rec.RepositoryPath,
		string(l.source.Type()),
		l.source.Ref(),
		strconv.Itoa(g.Options().ContextLines),
	}, paths...)...)

	var text string
	hit := false
	if useCache {
		text, hit = m.cache.Get(key)
	}
	if !hit {
		m.logger.Debug("regenerating hunks", "review", l.rec.ID, "source", l.source.Type(), "paths", paths)
		var err error
		text, err = origin.regenerate(g, paths)
		if err != nil {
			return nil, err
		}
		if useCache {
			if err := m.cache.Put(key, text); err != nil {
				m.logger.Warn("caching regenerated diff", "path", path, "error", err)
			}
		}
	}
	return hunksForPath(diff.Parse(text), path), nil
}

func (m *Manager) filter(files []diff.File) []diff.File {
	if len(m.include) == 0 && len(m.exclude) == 0 {
		return files
	}
	kept := files[:0:0]
	for _, f := range files {
		p := f.Path()
		if len(m.include) > 0 && !gitctx.MatchesAny(p, m.include) {
			continue
		}
		if gitctx.MatchesAny(p, m.exclude) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// mergeByPath folds files sharing a path into the first occurrence, so a
// commit set touching a file twice still yields one record per path.
func mergeByPath(files []diff.File) []diff.File {
	index := make(map[string]int, len(files))
	merged := make([]diff.File, 0, len(files))
	for _, f := range files {
		i, ok := index[f.Path()]
		if !ok {
			index[f.Path()] = len(merged)
			merged = append(merged, f)
			continue
		}
		dst := &merged[i]
		dst.Hunks = append(dst.Hunks, f.Hunks...)
		dst.Additions += f.Additions
		dst.Deletions += f.Deletions
		if f.Status == diff.StatusDeleted {
			dst.Status = diff.StatusDeleted
		}
	}
	return merged
}

// renamedFrom returns the former name of path among files, if any.
func renamedFrom(files []diff.File, path string) string {
	for _, f := range files {
		if f.NewPath == path && f.OldPath != path {
			return f.OldPath
		}
	}
	return ""
}

// hunksForPath appends, in order, the hunks of every file addressed by path.
func hunksForPath(files []diff.File, path string) []diff.Hunk {
	hunks := []diff.Hunk{}
	for _, f := range files {
		if f.NewPath == path || f.OldPath == path {
			hunks = append(hunks, f.Hunks...)
		}
	}
	return hunks
}

func fileRecords(files []diff.File, storeHunks bool) ([]store.ReviewFile, error) {
	rows := make([]store.ReviewFile, len(files))
	for i, f := range files {
		rows[i] = store.ReviewFile{
			FilePath:  f.Path(),
			Status:    string(f.Status),
			Additions: f.Additions,
			Deletions: f.Deletions,
			Position:  i,
		}
		if f.OldPath != "" && f.OldPath != f.Path() {
			rows[i].OldPath = optional(f.OldPath)
		}
		if storeHunks {
			hunks := f.Hunks
			if hunks == nil {
				hunks = []diff.Hunk{}
			}
			data, err := json.Marshal(hunks)
			if err != nil {
				return nil, fmt.Errorf("encoding hunks of %s: %w", f.Path(), err)
			}
			rows[i].HunksData = optional(string(data))
		}
	}
	return rows, nil
}

func fileFromRecord(row store.ReviewFile) diff.File {
	f := diff.File{
		OldPath:   row.FilePath,
		NewPath:   row.FilePath,
		Status:    diff.FileStatus(row.Status),
		Additions: row.Additions,
		Deletions: row.Deletions,
	}
	if row.OldPath != nil {
		f.OldPath = *row.OldPath
	}
	return f
}

func newDetails(rec *store.Review, snap Snapshot, files []diff.File) *Details {
	listed := make([]diff.File, len(files))
	for i, f := range files {
		f.Hunks = nil
		listed[i] = f
	}
	return &Details{
		ID:              rec.ID,
		RepositoryPath:  rec.RepositoryPath,
		BaseRef:         deref(rec.BaseRef),
		SourceType:      SourceType(rec.SourceType),
		SourceRef:       deref(rec.SourceRef),
		Status:          Status(rec.Status),
		SnapshotVersion: snap.Version(),
		Repository:      snap.Repository(),
		Files:           listed,
		Summary:         diff.Summarize(listed),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

// notFound turns the store's missing-record sentinel into NOT_FOUND.
func notFound(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(CodeNotFound, "review %s not found", id)
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
