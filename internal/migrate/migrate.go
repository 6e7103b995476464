package migrate

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-QuestScheduleService/pkg/dbmetrics"
)

//go:embed *.sql
var fs embed.FS

// advisoryLockID ключ pg_advisory_xact_lock, сериализующий параллельные запуски миграций
const advisoryLockID = 7_340_012

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Files возвращает имена встроенных миграций в порядке применения
func Files() ([]string, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	return files, nil
}

// Up применяет неприменённые миграции, каждую в своей транзакции
// Возвращает количество применённых миграций
func Up(ctx context.Context, db dbmetrics.DBExecutor, txManager TransactionManager, logger Logger) (int, error) {
	files, err := Files()
	if err != nil {
		return 0, fmt.Errorf("read migrations: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := 0
	for _, f := range files {
		done, err := apply(ctx, db, txManager, f)
		if err != nil {
			return applied, err
		}
		if done {
			applied++
			logger.Info("Migrate: applied %s", f)
		}
	}

	return applied, nil
}

func apply(ctx context.Context, db dbmetrics.DBExecutor, txManager TransactionManager, file string) (bool, error) {
	var done bool

	err := txManager.Do(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, db)

		if _, err := executor.ExecContext(txCtx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockID); err != nil {
			return fmt.Errorf("lock: %w", err)
		}

		var exists bool
		if err := executor.QueryRowContext(txCtx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, file).Scan(&exists); err != nil {
			return fmt.Errorf("check %s: %w", file, err)
		}
		if exists {
			return nil
		}

		b, err := fs.ReadFile(file)
		if err != nil {
			return err
		}
		if _, err := executor.ExecContext(txCtx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", file, err)
		}
		if _, err := executor.ExecContext(txCtx, `INSERT INTO schema_migrations (version) VALUES ($1)`, file); err != nil {
			return fmt.Errorf("record %s: %w", file, err)
		}

		done = true
		return nil
	})

	return done, err
}
