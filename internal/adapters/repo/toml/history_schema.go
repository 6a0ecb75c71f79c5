package toml

import (
	"fmt"
	"time"

	"github.com/bnema/devicepool-cli/internal/domain"
)

const currentSchemaVersion = 1

type historyFileSchema struct {
	Version int           `toml:"version"`
	Entries []entrySchema `toml:"entries"`
}

func (s *historyFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s historyFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported history schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type entrySchema struct {
	TaskID      string `toml:"task_id"`
	FileName    string `toml:"file_name,omitempty"`
	CodeBytes   int    `toml:"code_bytes"`
	Status      string `toml:"status"`
	SubmittedAt string `toml:"submitted_at"`
}

func toEntrySchema(entry domain.HistoryEntry) entrySchema {
	return entrySchema{
		TaskID:      entry.TaskID,
		FileName:    entry.FileName,
		CodeBytes:   entry.CodeBytes,
		Status:      string(entry.Status),
		SubmittedAt: formatTime(entry.SubmittedAt),
	}
}

func fromEntrySchema(entry entrySchema) domain.HistoryEntry {
	return domain.HistoryEntry{
		TaskID:      entry.TaskID,
		FileName:    entry.FileName,
		CodeBytes:   entry.CodeBytes,
		Status:      domain.TaskStatus(entry.Status),
		SubmittedAt: parseTime(entry.SubmittedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
