package diff

// Summarize totals additions, deletions and per-status file counts.
func Summarize(files []File) Summary {
	s := Summary{TotalFiles: len(files)}
	for _, f := range files {
		s.TotalAdditions += f.Additions
		s.TotalDeletions += f.Deletions
		switch f.Status {
		case StatusAdded:
			s.FilesAdded++
		case StatusModified:
			s.FilesModified++
		case StatusDeleted:
			s.FilesDeleted++
		case StatusRenamed:
			s.FilesRenamed++
		}
	}
	return s
}
