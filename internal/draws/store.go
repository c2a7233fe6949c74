// Package draws stores historical winning numbers keyed by drawing date.
// The extraction pipeline never touches this; it exists for the prize lookup
// that follows a successful scan.
package draws

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "draws"

// ErrNotFound reports that no draw is stored for the requested date.
var ErrNotFound = errors.New("no draw for date")

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Draw is the winning numbers of one drawing.
type Draw struct {
	White     [5]int `json:"white"`
	Powerball int    `json:"powerball"`
}

// Store is a bbolt-backed table of draws keyed by ISO date "YYYY-MM-DD".
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) a draw store at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening draw store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores the draw for an ISO date, replacing any existing entry.
func (s *Store) Put(date string, d Draw) error {
	if !dateRE.MatchString(date) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling draw: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(date), data)
	})
}

// Get retrieves the draw for an ISO date. Returns ErrNotFound when the date
// has no stored drawing.
func (s *Store) Get(date string) (Draw, error) {
	var d Draw
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(date))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return json.Unmarshal(data, &d)
	})
	return d, err
}

// Count returns the number of stored draws.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	})
	return n, err
}
