package queue

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ainav/content-jobs/pkg/errors"
	"go.uber.org/zap"
)

func writeQueueFile(t *testing.T, content string) *Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ai_tools_list.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write queue file: %v", err)
	}
	return NewStore(path, zap.NewNop())
}

func TestLoadMissingFileReportsJobError(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop())

	_, err := store.Load()
	if err == nil {
		t.Fatal("expected an error for a missing queue file")
	}

	var jobErr *errors.JobError
	if !stderrors.As(err, &jobErr) {
		t.Fatalf("got %T, want *errors.JobError", err)
	}
	if jobErr.Code != errors.CodeJobError {
		t.Errorf("Code = %q, want %q", jobErr.Code, errors.CodeJobError)
	}
	if jobErr.Unwrap() == nil {
		t.Error("underlying file error not preserved")
	}
}

func TestLoadSkipsHeaderAndKeepsOrder(t *testing.T) {
	store := writeQueueFile(t, strings.Join([]string{
		"name,url,description",
		"https://one.example.com,desc",
		"https://two.example.com",
		"https://three.example.com,x,y",
	}, "\n"))

	urls, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"https://one.example.com", "https://two.example.com", "https://three.example.com"}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i, url := range want {
		if urls[i] != url {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], url)
		}
	}
}

func TestLoadFallsBackToSecondField(t *testing.T) {
	store := writeQueueFile(t, strings.Join([]string{
		"name,url",
		"Some Tool,https://tool.example.com",
	}, "\n"))

	urls, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(urls) != 1 || urls[0] != "https://tool.example.com" {
		t.Fatalf("got %v, want the second-field URL", urls)
	}
}

func TestLoadSkipsMalformedRowsSilently(t *testing.T) {
	store := writeQueueFile(t, strings.Join([]string{
		"name,url",
		"not-a-url",
		"",
		"also,not,urls",
		"https://ok.example.com",
	}, "\n"))

	urls, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(urls) != 1 || urls[0] != "https://ok.example.com" {
		t.Fatalf("got %v, want exactly the one valid URL", urls)
	}
}

func TestSavePreservesHeaderAndBacksUp(t *testing.T) {
	original := strings.Join([]string{
		"name,url,description",
		"https://one.example.com",
		"https://two.example.com",
	}, "\n")
	store := writeQueueFile(t, original)

	if err := store.Save([]string{"https://two.example.com"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rewritten, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("failed to read rewritten file: %v", err)
	}
	want := "name,url,description\nhttps://two.example.com"
	if string(rewritten) != want {
		t.Errorf("rewritten file = %q, want %q", rewritten, want)
	}

	backup, err := os.ReadFile(store.BackupPath())
	if err != nil {
		t.Fatalf("failed to read backup file: %v", err)
	}
	if string(backup) != original {
		t.Errorf("backup = %q, want original contents", backup)
	}
}

func TestSaveEmptyRemainderIsNoOp(t *testing.T) {
	original := "name,url\nhttps://one.example.com"
	store := writeQueueFile(t, original)

	if err := store.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != original {
		t.Errorf("file was modified: %q", data)
	}
	if _, err := os.Stat(store.BackupPath()); !os.IsNotExist(err) {
		t.Errorf("backup file should not exist for empty remainder")
	}
}
