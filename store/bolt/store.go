package bolt

import (
	"time"

	"github.com/gasparian/lsh-model-go/store"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const defaultBucket = "lsh-models"

// Config holds bolt db file location and the bucket to keep blobs in
type Config struct {
	Path    string
	Bucket  string
	Timeout time.Duration
}

// BoltStore keeps model blobs in a single bolt bucket
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

// Open opens (or creates) the db file and makes sure the bucket exists
func Open(config Config) (*BoltStore, error) {
	if config.Bucket == "" {
		config.Bucket = defaultBucket
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Second
	}
	db, err := bolt.Open(config.Path, 0o600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", config.Path)
	}
	bucket := []byte(config.Bucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create bucket %q", config.Bucket)
	}
	return &BoltStore{db: db, bucket: bucket}, nil
}

// Put stores blob under key
func (s *BoltStore) Put(key string, blob []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), blob)
	})
	if err != nil {
		return errors.Wrapf(err, "put %q", key)
	}
	return nil
}

// Get returns a copy of the blob, since bolt values are valid only inside the tx
func (s *BoltStore) Get(key string) ([]byte, error) {
	var blob []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return errors.Wrapf(store.ErrNotFound, "%q", key)
		}
		blob = make([]byte, len(v))
		copy(blob, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// Close closes the db file
func (s *BoltStore) Close() error {
	return s.db.Close()
}
