package badgerfx

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type Config struct {
	// Dir is the BadgerDB data directory. An empty Dir opens an in-memory
	// store, which tests rely on.
	Dir string
}

func (c Config) Build() badger.Options {
	if c.Dir == "" {
		return badger.DefaultOptions("").WithInMemory(true)
	}

	return badger.DefaultOptions(c.Dir)
}

func New(config Config, logger *zapLogger) (*badger.DB, error) {
	opts := config.Build().
		WithLogger(logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return db, nil
}
