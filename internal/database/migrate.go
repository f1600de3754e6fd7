package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"learnos/internal/logger"

	"go.uber.org/zap"
)

// Direction selects which half of each migration pair runs.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Oracle codes for objects that already exist or are already gone.
var idempotentCodes = []string{"ORA-00955", "ORA-01408", "ORA-00942", "ORA-01418"}

// RunMigrations executes every <name>.<direction>.sql file in dir. Up files
// run in name order, down files in reverse. Statements are separated by a
// line ending in ";". Errors for objects that already exist (or are already
// dropped) are skipped so a migration can be rerun.
func RunMigrations(ctx context.Context, db *sql.DB, dir string, direction Direction) error {
	files, err := migrationFiles(dir, direction)
	if err != nil {
		return err
	}

	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}

		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				if isIdempotentError(err) {
					logger.Get().Info("Skipping already applied statement", zap.String("file", file), zap.Error(err))
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", file, err)
			}
		}
		logger.Get().Info("Executed migration", zap.String("file", file))
	}

	logger.Get().Info("Migrations completed successfully", zap.String("direction", string(direction)), zap.Int("files", len(files)))
	return nil
}

func migrationFiles(dir string, direction Direction) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + string(direction) + ".sql"
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	if direction == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

// SplitStatements breaks a script into statements without their trailing
// semicolons. Lines starting with "--" are dropped.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(strings.TrimRight(line, " \t\r"), ";"))
			stmts = append(stmts, current.String())
			current.Reset()
			continue
		}
		current.WriteString(strings.TrimRight(line, "\r"))
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}

func isIdempotentError(err error) bool {
	msg := err.Error()
	for _, code := range idempotentCodes {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}
