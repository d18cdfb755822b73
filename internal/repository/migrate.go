package repository

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations выполняет все *.sql из каталога dir в алфавитном порядке.
// Ошибка отдельной миграции логируется, остальные продолжают применяться —
// схема написана идемпотентно (CREATE ... IF NOT EXISTS).
func ApplyMigrations(db *sqlx.DB, dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		slog.Error("не удалось перечислить миграции", "dir", dir, "err", err)
		return
	}
	sort.Strings(files)
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			slog.Error("не удалось прочитать миграцию", "file", file, "err", err)
			continue
		}
		if _, err := db.Exec(string(content)); err != nil {
			slog.Error("миграция завершилась ошибкой", "file", file, "err", err)
			continue
		}
		slog.Info("миграция применена", "file", file)
	}
}
