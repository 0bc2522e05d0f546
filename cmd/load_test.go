package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const loadFixture = `[
  {
    "brand": "SAMSUNG",
    "name": "Geladeira Evolution com PowerVolt",
    "old_price": "3.999,00",
    "new_price": "3.149,00",
    "review_rating_number": "4.7",
    "review_amount": "(181)"
  },
  {
    "brand": null,
    "name": "Geladeira Frost Free Duplex",
    "old_price": null,
    "new_price": "2.382,00",
    "review_rating_number": null,
    "review_amount": "0"
  }
]`

func TestLoadCommand(t *testing.T) {
	capture := &captureStore{}
	mock := &mockApp{cfg: testConfig(), store: capture}
	withMockApp(t, mock)

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(loadFixture), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"load", path})
	require.NoError(t, root.Execute())

	require.Len(t, capture.replaced, 1)
	products := capture.replaced[0]
	require.Len(t, products, 2)

	first := products[0]
	require.NotNil(t, first.Brand)
	require.Equal(t, "SAMSUNG", *first.Brand)
	require.NotNil(t, first.OldPrice)
	require.InDelta(t, 3999.0, *first.OldPrice, 1e-9)
	require.NotNil(t, first.ReviewCount)
	require.EqualValues(t, 181, *first.ReviewCount)

	second := products[1]
	require.Nil(t, second.Brand)
	require.Nil(t, second.OldPrice)
	require.NotNil(t, second.ReviewCount)
	require.EqualValues(t, 0, *second.ReviewCount)

	for _, p := range products {
		require.Equal(t, mock.cfg.Crawler.StartURL, p.Source)
		require.False(t, p.CrawledAt.IsZero())
	}
}

func TestLoadCommandMissingFile(t *testing.T) {
	mock := &mockApp{cfg: testConfig(), store: &captureStore{}}
	withMockApp(t, mock)

	root := newRootCmd()
	root.SetArgs([]string{"load", filepath.Join(t.TempDir(), "missing.json")})
	root.SilenceErrors = true
	root.SilenceUsage = true

	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "read interchange file")
}
