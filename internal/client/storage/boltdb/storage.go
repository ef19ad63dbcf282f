package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/sciencesync/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketRecords = []byte("records")
	bucketMeta    = []byte("meta")
)

const (
	// schemaVersion текущая версия схемы хранилища.
	// Повышение версии только добавляет (buckets, ключи) и никогда
	// не теряет уже записанные данные.
	schemaVersion uint64 = 2

	keySchemaVersion = "schema_version"
)

// Storage represents BoltDB storage implementation for the client queue
type Storage struct {
	db     *bbolt.DB
	mu     sync.RWMutex
	closed bool
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB. Timeout нужен чтобы второй процесс
	// (фоновый sync) не висел вечно на файловой блокировке.
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	// Инициализация идемпотентна: buckets создаются только если отсутствуют
	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// update выполняет write-транзакцию под read-lock: Close ждет
// завершения всех начатых операций и не закроет БД под ними
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	return s.db.Update(fn)
}

// view выполняет read-only транзакцию под тем же read-lock
func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}

// migrate приводит схему к schemaVersion.
// Каждая миграция строго аддитивна: существующие записи остаются
// читаемыми без изменений.
func (s *Storage) migrate() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		current := readSchemaVersion(tx)
		if current > schemaVersion {
			return fmt.Errorf("database schema version %d is newer than supported %d", current, schemaVersion)
		}

		for v := current; v < schemaVersion; v++ {
			if err := applyMigration(tx, v+1); err != nil {
				return fmt.Errorf("migration to version %d failed: %w", v+1, err)
			}
		}

		return writeSchemaVersion(tx, schemaVersion)
	})
}

// applyMigration выполняет один шаг миграции до указанной версии
func applyMigration(tx *bbolt.Tx, version uint64) error {
	switch version {
	case 1:
		// v1: bucket для очереди записей
		if _, err := tx.CreateBucketIfNotExists(bucketRecords); err != nil {
			return fmt.Errorf("failed to create records bucket: %w", err)
		}
	case 2:
		// v2: bucket метаданных, в котором хранится версия схемы
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return fmt.Errorf("failed to create meta bucket: %w", err)
		}
	default:
		return fmt.Errorf("unknown schema version %d", version)
	}
	return nil
}

// readSchemaVersion возвращает записанную версию схемы.
// 0 означает что база новая (или создана до версионирования).
func readSchemaVersion(tx *bbolt.Tx) uint64 {
	bucket := tx.Bucket(bucketMeta)
	if bucket == nil {
		// Нет meta bucket, но records уже может существовать (база v1)
		if tx.Bucket(bucketRecords) != nil {
			return 1
		}
		return 0
	}

	data := bucket.Get([]byte(keySchemaVersion))
	if len(data) != 8 {
		return 1
	}
	return binary.BigEndian.Uint64(data)
}

// writeSchemaVersion сохраняет версию схемы в meta bucket
func writeSchemaVersion(tx *bbolt.Tx, version uint64) error {
	bucket, err := tx.CreateBucketIfNotExists(bucketMeta)
	if err != nil {
		return fmt.Errorf("failed to create meta bucket: %w", err)
	}

	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, version)

	if err := bucket.Put([]byte(keySchemaVersion), data); err != nil {
		return fmt.Errorf("failed to save schema version: %w", err)
	}
	return nil
}
