package queue

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ainav/content-jobs/pkg/errors"
	"go.uber.org/zap"
)

// Store reads and rewrites the crawl queue file: a comma-delimited text file
// whose first line is a header and whose remaining rows each carry one
// candidate URL. The file doubles as the cross-run checkpoint - URLs still in
// it survive to the next invocation.
type Store struct {
	path   string
	logger *zap.Logger
}

func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load parses the queue file into an ordered list of candidate URLs. The
// header row is skipped. A row contributes its first field if that field is a
// URL, else its second field if that one is. Malformed rows are skipped
// silently. The file is not modified.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewJobError("failed to read queue file", errors.CodeJobError,
			map[string]any{"file": s.path}).WithCause(err)
	}

	lines := strings.Split(string(data), "\n")
	urls := make([]string, 0, len(lines))

	for i, line := range lines {
		if i == 0 {
			continue // header
		}

		parts := strings.Split(line, ",")
		if len(parts) == 0 {
			continue
		}

		first := strings.TrimSpace(parts[0])
		if isURL(first) {
			urls = append(urls, first)
			continue
		}

		if len(parts) >= 2 {
			second := strings.TrimSpace(parts[1])
			if isURL(second) {
				urls = append(urls, second)
			}
		}
	}

	s.logger.Info("Queue loaded",
		zap.String("file", s.path),
		zap.Int("urls", len(urls)),
	)

	return urls, nil
}

// Save writes the remaining unprocessed URLs back to the queue file,
// preserving the original header line. The previous file contents are copied
// to a backup file first. Saving an empty remainder is a no-op.
func (s *Store) Save(remaining []string) error {
	if len(remaining) == 0 {
		return nil
	}

	original, err := os.ReadFile(s.path)
	if err != nil {
		return errors.NewJobError("failed to read queue file for rewrite", errors.CodeJobError,
			map[string]any{"file": s.path}).WithCause(err)
	}

	backupPath := s.BackupPath()
	if err := os.WriteFile(backupPath, original, 0644); err != nil {
		return errors.NewJobError("failed to write queue backup", errors.CodeJobError,
			map[string]any{"file": backupPath}).WithCause(err)
	}
	s.logger.Info("Queue backup created", zap.String("backup", backupPath))

	header := strings.SplitN(string(original), "\n", 2)[0]

	content := make([]string, 0, len(remaining)+1)
	content = append(content, header)
	content = append(content, remaining...)

	if err := os.WriteFile(s.path, []byte(strings.Join(content, "\n")), 0644); err != nil {
		return errors.NewJobError("failed to rewrite queue file", errors.CodeJobError,
			map[string]any{"file": s.path}).WithCause(err)
	}

	s.logger.Info("Remaining queue persisted",
		zap.String("file", s.path),
		zap.Int("urls", len(remaining)),
	)

	return nil
}

// BackupPath is the sibling file the previous queue contents are copied to
// before each rewrite.
func (s *Store) BackupPath() string {
	dir := filepath.Dir(s.path)
	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	return filepath.Join(dir, base+"_backup.csv")
}

func isURL(field string) bool {
	return strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://")
}
