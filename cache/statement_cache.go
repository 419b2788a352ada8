package cache

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Konsultn-Engineering/pgconnect/utils"
)

// StatementPrefix names every statement the cache prepares on the server.
const StatementPrefix = "pgc_"

// PrepareFunc prepares sql on the server under name.
type PrepareFunc func(name, sql string) (*pgconn.StatementDescription, error)

// StatementCache keeps the descriptions of server-side prepared statements,
// keyed by a fingerprint of their SQL text. Evicted statements are handed to
// the onEvict callback so the owner can deallocate them.
type StatementCache struct {
	cache *lru.Cache[uint64, *pgconn.StatementDescription]
}

func NewStatementCache(size int, onEvict func(name string)) (*StatementCache, error) {
	if size <= 0 {
		return nil, errors.New("statement cache size must be positive")
	}

	cache, err := lru.NewWithEvict(size, func(_ uint64, sd *pgconn.StatementDescription) {
		if onEvict != nil {
			onEvict(sd.Name)
		}
	})
	if err != nil {
		return nil, err
	}

	return &StatementCache{
		cache: cache,
	}, nil
}

// Get returns the description prepared for sql, if any.
func (s *StatementCache) Get(sql string) (*pgconn.StatementDescription, bool) {
	sd, ok := s.cache.Get(utils.FingerprintString(sql))
	if !ok || sd.SQL != sql {
		return nil, false
	}
	return sd, true
}

// GetOrPrepare returns the cached description for sql, preparing it through
// prepare on a miss. hit reports whether the server round trip was skipped.
func (s *StatementCache) GetOrPrepare(sql string, prepare PrepareFunc) (sd *pgconn.StatementDescription, hit bool, err error) {
	key := utils.FingerprintString(sql)

	if sd, ok := s.cache.Get(key); ok {
		if sd.SQL == sql {
			return sd, true, nil
		}
		// fingerprint collision: the name is taken by other text
		s.cache.Remove(key)
	}

	sd, err = prepare(utils.StatementName(StatementPrefix, key), sql)
	if err != nil {
		return nil, false, err
	}

	s.cache.Add(key, sd)
	return sd, false, nil
}

// Remove drops the statement for sql, deallocating it through onEvict.
func (s *StatementCache) Remove(sql string) bool {
	return s.cache.Remove(utils.FingerprintString(sql))
}

func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Purge evicts every statement.
func (s *StatementCache) Purge() {
	s.cache.Purge() // This will trigger the evict callback for all items
}
