// Package history records completed run outcomes in a small bbolt database
// under the destination directory, so past fetches can be listed without
// scanning the filesystem.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// DefaultFilename is the history database kept under the destination dir.
const DefaultFilename = ".ytgrab-history.db"

var buckets = struct {
	Metadata []byte
	Runs     []byte
}{
	Metadata: []byte("__metadata__"),
	Runs:     []byte("runs"),
}

var metadataKeys = struct {
	Version []byte
}{
	Version: []byte("version"),
}

const currentVersion = 1

// An Entry is one recorded run.
type Entry struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title,omitempty"`
	DestDir    string    `json:"dest_dir"`
	Status     string    `json:"status"`
	ExitCode   int       `json:"exit_code"`
	FinishedAt time.Time `json:"finished_at"`
}

type Store struct {
	db *bbolt.DB
}

func Open(path string) (_ *Store, err error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		metadata, err := tx.CreateBucketIfNotExists(buckets.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(buckets.Runs); err != nil {
			return err
		}
		if versionBytes, err := json.Marshal(currentVersion); err != nil {
			return err
		} else if err = metadata.Put(metadataKeys.Version, versionBytes); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the entry keyed by fixed-width finish timestamp, so bucket
// iteration order is chronological.
func (s *Store) Record(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("%020d/%s", entry.FinishedAt.UnixNano(), entry.ID))
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(buckets.Runs).Put(key, data)
	})
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) (entries []Entry, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(buckets.Runs).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < n; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
