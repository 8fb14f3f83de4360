package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"LogonSessionStats/internal/models"
	"LogonSessionStats/internal/transform"
)

// Header — первая строка итоговой таблицы
var Header = []string{"Time Generated", "Event ID", "Machine", "User", "Logon Type", "Duration"}

// WriteCSV записывает сессии в CSV-файл.
// Пишем во временный файл и переименовываем, чтобы не оставить обрезанный отчёт.
func WriteCSV(path string, sessions []models.SessionEvent) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := write(f, sessions); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close report: %w", err)
	}
	// Удаляем старый файл, чтобы Rename не ошибся (актуально для Windows)
	_ = os.Remove(path)
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

func write(f *os.File, sessions []models.SessionEvent) error {
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, ev := range sessions {
		row := transform.ToRow(ev)
		record := []string{row.TimeGenerated, row.EventID, row.Machine, row.User, row.LogonType, row.Duration}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
