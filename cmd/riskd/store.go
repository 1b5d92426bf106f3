package main

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/riskboard/internal/store"
	"github.com/alfredjeanlab/riskboard/internal/store/postgres"
	"github.com/alfredjeanlab/riskboard/internal/store/sqlite"
)

// openStore picks the backend from the database URL scheme.
func openStore(databaseURL string) (store.Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		s, err := postgres.New(databaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return openSQLite(strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "file:"):
		return openSQLite(strings.TrimPrefix(databaseURL, "file:"))
	default:
		return nil, fmt.Errorf("unsupported database URL %q (want postgres://, sqlite:// or file:)", databaseURL)
	}
}

func openSQLite(path string) (store.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is empty")
	}
	s, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
