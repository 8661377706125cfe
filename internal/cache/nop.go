package cache

import (
	"context"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

// NopStore disables caching: every lookup misses and writes are dropped.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (NopStore) Get(context.Context, string) ([]model.Job, bool, error)        { return nil, false, nil }
func (NopStore) Set(context.Context, string, []model.Job, time.Duration) error { return nil }
func (NopStore) Close() error                                                  { return nil }
