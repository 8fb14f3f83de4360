package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"LogonSessionStats/internal/models"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	sessions := []models.SessionEvent{
		{
			LoginTime: time.Date(2022, 1, 25, 15, 0, 0, 0, time.UTC),
			EventID:   4634,
			Machine:   "WKS-LAB-0001",
			User:      "alice",
			LogonType: 2,
			Duration:  time.Hour + 41*time.Minute + 17*time.Second,
		},
	}
	if err := WriteCSV(path, sessions); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if lines[0] != "Time Generated,Event ID,Machine,User,Logon Type,Duration" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "2022-01-25 15:00:00,4634,WKS-LAB-0001,alice,2,01:41:17" {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temporary file must not remain")
	}
}

func TestWriteCSVEmptyOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	if err := os.WriteFile(path, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != strings.Join(Header, ",") {
		t.Fatalf("expected header only, got %q", data)
	}
}

func TestWriteCSVBadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "output.csv")
	if err := WriteCSV(path, nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
