package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// StockRepository implements storage.StockRepository for BadgerDB.
type StockRepository struct {
	backend *Backend
}

var _ storage.StockRepository = (*StockRepository)(nil)

// NewStockRepository creates a quantity store on top of backend.
// The backend is shared; closing the repository does not close it.
func NewStockRepository(backend *Backend) (storage.StockRepository, error) {
	return &StockRepository{backend: backend}, nil
}

// Close releases resources. StockRepository has no resources to release.
func (r *StockRepository) Close() error {
	return nil
}

// GetQuantity returns the stored quantity for path.
func (r *StockRepository) GetQuantity(ctx context.Context, path string) (float64, bool, error) {
	record, err := r.GetStockRecord(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return record.Qty, true, nil
}

// SetQuantity stores qty for path. The write is committed before returning.
func (r *StockRepository) SetQuantity(ctx context.Context, path string, qty float64) (float64, error) {
	record := &core.StockRecord{Path: path, Qty: qty}
	if err := core.ValidateStockRecord(record); err != nil {
		return 0, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record.UpdatedAt = time.Now().UTC()
		if err := tx.Set(makeStockKey(path), storage.MarshalStockRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return record.Qty, nil
}

// GetStockRecord retrieves the record for path.
// Returns storage.ErrNotFound if nothing was stored for path.
func (r *StockRepository) GetStockRecord(ctx context.Context, path string) (*core.StockRecord, error) {
	var record *core.StockRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeStockKey(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			record, err = storage.UnmarshalStockRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListStockRecords returns every stored record ordered by path.
func (r *StockRepository) ListStockRecords(ctx context.Context) ([]*core.StockRecord, error) {
	var records []*core.StockRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(stockPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalStockRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}
