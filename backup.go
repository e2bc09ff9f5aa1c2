package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const backupDateKey = "backup_date"

// ExportBackup serializes the full store as a pretty-printed backup object:
// every key decoded to its natural JSON form where possible, plus a
// backup_date timestamp. Importers must accept backups with or without the
// timestamp key.
func ExportBackup(store *Store, now time.Time) ([]byte, error) {
	out := make(map[string]interface{})

	for _, key := range store.Keys() {
		value, _ := store.Read(key)
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			out[key] = decoded
		} else {
			out[key] = value
		}
	}

	out[backupDateKey] = now.UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// WriteBackupFile writes an export to disk.
func WriteBackupFile(store *Store, path string, now time.Time) error {
	data, err := ExportBackup(store, now)
	if err != nil {
		return err
	}
	// #nosec G306 - Backup file is user data meant for sharing
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}
