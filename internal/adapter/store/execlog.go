package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"docpipe/internal/domain"
)

var bucketExecLog = []byte("exec_log")

// BoltExecutionLog persists pipeline step records in BoltDB. Keys combine
// runId, step name, and a nanosecond timestamp so entries within a run sort
// chronologically.
type BoltExecutionLog struct {
	db *bbolt.DB
}

func NewBoltExecutionLog(db *bbolt.DB) (*BoltExecutionLog, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketExecLog)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exec_log bucket: %w", err)
	}
	return &BoltExecutionLog{db: db}, nil
}

func (l *BoltExecutionLog) Append(entry domain.StepLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s_%s", entry.RunID, entry.Step, entry.Timestamp.Format(time.RFC3339Nano))
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketExecLog)
		if b == nil {
			return fmt.Errorf("exec_log bucket not found")
		}
		return b.Put([]byte(key), data)
	})
}

// ByRun returns the entries for one run in chronological order.
func (l *BoltExecutionLog) ByRun(runID string) ([]domain.StepLog, error) {
	var entries []domain.StepLog
	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketExecLog)
		if b == nil {
			return nil
		}
		prefix := []byte(runID + "/")
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var entry domain.StepLog
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// All returns every entry, grouped by run.
func (l *BoltExecutionLog) All() ([]domain.StepLog, error) {
	var entries []domain.StepLog
	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketExecLog)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var entry domain.StepLog
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
