package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

type captureStore struct {
	got []listing.Product
	err error
}

func (c *captureStore) ReplaceAll(_ context.Context, products []listing.Product) error {
	if c.err != nil {
		return c.err
	}
	c.got = append([]listing.Product(nil), products...)
	return nil
}

func (c *captureStore) Close() error { return nil }

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

func TestFlushStampsUniformly(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	st := &captureStore{}
	s := New(st, fixedClock{at: at}, "https://lista.example.com/geladeira-frost-free", zap.NewNop())

	name1, name2 := "a", "b"
	products := []listing.Product{{Name: &name1}, {Name: &name2}}

	crawledAt, err := s.Flush(context.Background(), products)
	require.NoError(t, err)
	require.Equal(t, at, crawledAt)

	require.Len(t, st.got, 2)
	for _, p := range st.got {
		require.Equal(t, "https://lista.example.com/geladeira-frost-free", p.Source)
		require.Equal(t, at, p.CrawledAt)
	}
}

func TestFlushStoreFailureSurfaces(t *testing.T) {
	t.Parallel()

	st := &captureStore{err: errors.New("disk full")}
	s := New(st, fixedClock{at: time.Now()}, "https://lista.example.com/x", zap.NewNop())

	_, err := s.Flush(context.Background(), []listing.Product{{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
}

func TestFlushEmptyRun(t *testing.T) {
	t.Parallel()

	st := &captureStore{}
	s := New(st, fixedClock{at: time.Now()}, "https://lista.example.com/x", zap.NewNop())

	_, err := s.Flush(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, st.got)
}
