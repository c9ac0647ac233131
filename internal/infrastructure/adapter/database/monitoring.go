package database

import (
	"time"
)

// QueryObserver receives the timing of every SQL statement GORM runs
type QueryObserver interface {
	ObserveQuery(queryType, table string, elapsed time.Duration, failed bool)
}

type nopQueryObserver struct{}

func (nopQueryObserver) ObserveQuery(string, string, time.Duration, bool) {}
