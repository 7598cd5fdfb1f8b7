package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// badgerPrefix namespaces the metadata keys inside a shared badger store.
var badgerPrefix = []byte("metadata/")

// BadgerRepository stores the key space in an embedded badger database.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func badgerKey(key string) []byte {
	return append(append([]byte{}, badgerPrefix...), key...)
}

func (r *BadgerRepository) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (r *BadgerRepository) Set(_ context.Context, key string, value []byte) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *BadgerRepository) SetMany(_ context.Context, values map[string][]byte) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, key := range sortedKeys(values) {
			if err := txn.Set(badgerKey(key), values[key]); err != nil {
				return fmt.Errorf("metadata[%s]: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata batch: %w", err)
	}
	return nil
}

func (r *BadgerRepository) Delete(_ context.Context, key string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *BadgerRepository) Clear(_ context.Context) error {
	if err := r.db.DropPrefix(badgerPrefix); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func (r *BadgerRepository) List(_ context.Context) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(badgerPrefix); it.ValidForPrefix(badgerPrefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[string(item.Key()[len(badgerPrefix):])] = value
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	return result, nil
}
