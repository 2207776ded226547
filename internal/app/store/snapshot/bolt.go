// internal/app/store/snapshot/bolt.go
package snapshot

import (
	"context"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
)

const boltBucket = "snapshots"

// Bolt keeps every collection as one key in a single BoltDB file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path and ensures the
// snapshots bucket exists.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Load returns a copy of the stored value; bolt's slices are only valid
// inside the transaction.
func (b *Bolt) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(name))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return out, nil
}

// Save replaces the collection's value in a single write transaction.
func (b *Bolt) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Names lists the stored collections in key order.
func (b *Bolt) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}
