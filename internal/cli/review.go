package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/output"
	"github.com/dshills/selfreview/internal/redact"
	"github.com/dshills/selfreview/internal/review"
)

// Review command flags
var (
	flagRepo     string
	flagListRepo string
	flagStatus   string
	flagPage     int
	flagPageSize int
	flagLine     int
	flagLineType string
	flagOut      string
	flagNoRedact bool
	flagRange    string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a review from staged changes, a branch, or commits",
}

// refFunc turns command arguments into a source ref for the repository at repo.
type refFunc func(s *session, repo string, args []string) (string, error)

func createRun(source review.SourceType, ref refFunc) func(*cobra.Command, []string) error {
	return withSession(func(cmd *cobra.Command, s *session, args []string) error {
		repo, err := absRepo(flagRepo)
		if err != nil {
			return err
		}
		sourceRef, err := ref(s, repo, args)
		if err != nil {
			return err
		}
		d, err := s.mgr.Create(cmd.Context(), review.CreateRequest{
			RepositoryPath: repo,
			SourceType:     source,
			SourceRef:      sourceRef,
		})
		if err != nil {
			return err
		}
		return s.writer.Review(cmd.OutOrStdout(), d)
	})
}

var createStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review staged changes (index vs HEAD)",
	Args:  cobra.NoArgs,
	RunE: createRun(review.SourceStaged, func(*session, string, []string) (string, error) {
		return "", nil
	}),
}

var createBranchCmd = &cobra.Command{
	Use:   "branch <ref>",
	Short: "Review what a branch adds since it diverged from HEAD",
	Args:  cobra.ExactArgs(1),
	RunE: createRun(review.SourceBranch, func(_ *session, _ string, args []string) (string, error) {
		return args[0], nil
	}),
}

var createCommitsCmd = &cobra.Command{
	Use:   "commits [<sha>[,<sha>...]]",
	Short: "Review the patches of one or more commits",
	Long: `Review the patches of one or more commits. SHAs may be given comma-separated or
as separate arguments; they are applied in the order given. With --range the
commits of a revision range (e.g. main..HEAD) are used instead, oldest first.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if flagRange != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: createRun(review.SourceCommits, func(s *session, repo string, args []string) (string, error) {
		var shas []string
		if flagRange != "" {
			commits, err := s.git(repo).ListCommits(flagRange)
			if err != nil {
				return "", err
			}
			if len(commits) == 0 {
				return "", fmt.Errorf("no commits in range %s", flagRange)
			}
			for _, c := range commits {
				s.logger.Debug("range commit", "sha", c.SHA, "subject", c.Subject)
				shas = append(shas, c.SHA)
			}
			return strings.Join(shas, ","), nil
		}
		for _, a := range args {
			shas = append(shas, splitComma(a)...)
		}
		return strings.Join(shas, ","), nil
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews, newest first",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
		opts := review.ListOptions{
			Status:   review.Status(flagStatus),
			Page:     flagPage,
			PageSize: flagPageSize,
		}
		if flagListRepo != "" {
			repo, err := absRepo(flagListRepo)
			if err != nil {
				return err
			}
			opts.RepositoryPath = repo
		}
		l, err := s.mgr.List(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return s.writer.List(cmd.OutOrStdout(), l)
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a review and its files",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
		d, err := s.mgr.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return s.writer.Review(cmd.OutOrStdout(), d)
	}),
}

var hunksCmd = &cobra.Command{
	Use:   "hunks <id> <path>",
	Short: "Show the diff hunks of one file of a review",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
		hunks, err := s.mgr.FileHunks(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return s.writer.Hunks(cmd.OutOrStdout(), args[1], hunks)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <in_progress|approved|changes_requested>",
	Short: "Set a review's status",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
		d, err := s.mgr.UpdateStatus(cmd.Context(), args[0], review.Status(args[1]))
		if err != nil {
			return err
		}
		return s.writer.Review(cmd.OutOrStdout(), d)
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a review with its files and comments",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
		if err := s.mgr.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted review %s\n", args[0])
		return nil
	}),
}

var commentCmd = &cobra.Command{
	Use:   "comment <id> <path> <text>",
	Short: "Comment on a file of a review, optionally at a line",
	Args:  cobra.ExactArgs(3),
	RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
		req := review.CommentRequest{
			ReviewID: args[0],
			FilePath: args[1],
			Content:  args[2],
			LineType: diff.LineKind(flagLineType),
		}
		if flagLine > 0 {
			line := flagLine
			req.LineNumber = &line
		}
		c, err := s.mgr.AddComment(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added comment %s\n", c.ID)
		return nil
	}),
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a review with its comments and their diff context",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
		policy := redact.Policy{Secrets: s.cfg.Privacy.RedactSecrets, Paths: s.cfg.Privacy.RedactPaths}
		if flagNoRedact {
			policy = redact.Policy{}
			s.logger.Warn("secret redaction is disabled")
		}
		e, err := s.mgr.BuildExport(cmd.Context(), args[0], review.ExportOptions{Redact: policy})
		if err != nil {
			return err
		}

		w, closeOut, err := output.Create(flagOut)
		if err != nil {
			return err
		}
		if err := s.writer.Export(w, e); err != nil {
			closeOut()
			return fmt.Errorf("writing export: %w", err)
		}
		if flagOut == "" {
			return closeOut()
		}
		if err := closeOut(); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported review %s to %s\n", e.Review.ID, flagOut)
		return nil
	}),
}

func init() {
	createCmd.AddCommand(createStagedCmd)
	createCmd.AddCommand(createBranchCmd)
	createCmd.AddCommand(createCommitsCmd)
	createCmd.PersistentFlags().StringVar(&flagRepo, "repo", ".", "Repository path")
	createCommitsCmd.Flags().StringVar(&flagRange, "range", "", "Revision range whose commits to review")

	listCmd.Flags().StringVar(&flagStatus, "status", "", "Only reviews with this status")
	listCmd.Flags().StringVar(&flagListRepo, "repo", "", "Only reviews of this repository")
	listCmd.Flags().IntVar(&flagPage, "page", 1, "Page number, from 1")
	listCmd.Flags().IntVar(&flagPageSize, "page-size", 20, "Reviews per page")

	commentCmd.Flags().IntVar(&flagLine, "line", 0, "Line number the comment refers to (1-based)")
	commentCmd.Flags().StringVar(&flagLineType, "type", "", "Side of the line: added, removed or context")

	exportCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}
