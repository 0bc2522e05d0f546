package normalize

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

func strPtr(s string) *string { return &s }

func TestPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *string
		want *float64
	}{
		{name: "nil text", in: nil, want: nil},
		{name: "empty text", in: strPtr(""), want: nil},
		{name: "whitespace only", in: strPtr("  "), want: nil},
		{name: "comma decimal", in: strPtr("79,9"), want: floatPtr(79.9)},
		{name: "thousands dot with comma decimal", in: strPtr("1.234,56"), want: floatPtr(1234.56)},
		{name: "plain integer", in: strPtr("2599"), want: floatPtr(2599)},
		{name: "already canonical", in: strPtr("1234.56"), want: floatPtr(1234.56)},
		{name: "surrounding whitespace", in: strPtr(" 899,00 "), want: floatPtr(899)},
		{name: "not a number", in: strPtr("indisponível"), want: nil},
		{name: "mixed garbage", in: strPtr("R$ 1.299,00"), want: nil},
		{name: "negative is null", in: strPtr("-10,00"), want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Price(tc.in)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.InDelta(t, *tc.want, *got, 1e-9)
		})
	}
}

func TestRating(t *testing.T) {
	t.Parallel()

	require.Nil(t, Rating(nil))
	require.Nil(t, Rating(strPtr("")))
	require.Nil(t, Rating(strPtr("five stars")))
	require.Nil(t, Rating(strPtr("5.1")))
	require.Nil(t, Rating(strPtr("-1")))

	got := Rating(strPtr("4.5"))
	require.NotNil(t, got)
	require.InDelta(t, 4.5, *got, 1e-9)

	edge := Rating(strPtr("5"))
	require.NotNil(t, edge)
	require.InDelta(t, 5.0, *edge, 1e-9)
}

func TestReviewCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want *int64
	}{
		{name: "parenthesized", in: "(123)", want: intPtr(123)},
		{name: "bare digits", in: "123", want: intPtr(123)},
		{name: "empty defaults to zero", in: "", want: intPtr(0)},
		{name: "empty parens default to zero", in: "()", want: intPtr(0)},
		{name: "whitespace defaults to zero", in: "   ", want: intPtr(0)},
		{name: "unparsable is null not zero", in: "(many)", want: nil},
		{name: "negative is null", in: "(-3)", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ReviewCount(tc.in)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *tc.want, *got)
		})
	}
}

// TestRecordNeverDropsFields checks the output arity is fixed by the schema:
// every field of the product is either typed or nil, regardless of input.
func TestRecordNeverDropsFields(t *testing.T) {
	t.Parallel()

	product := Record(listing.Raw{})
	require.Nil(t, product.Brand)
	require.Nil(t, product.Name)
	require.Nil(t, product.OldPrice)
	require.Nil(t, product.NewPrice)
	require.Nil(t, product.Rating)
	require.NotNil(t, product.ReviewCount)
	require.Zero(t, *product.ReviewCount)
}

func TestRecordPassesBrandAndNameThrough(t *testing.T) {
	t.Parallel()

	raw := listing.Raw{
		Brand:       strPtr("cONSUL"),
		Name:        strPtr("Geladeira Frost Free 410L"),
		NewPrice:    strPtr("2.849,00"),
		Rating:      strPtr("4.7"),
		ReviewCount: "(321)",
	}
	product := Record(raw)

	// Storage keeps the source casing; display casing is not our job.
	require.Equal(t, "cONSUL", *product.Brand)
	require.Equal(t, "Geladeira Frost Free 410L", *product.Name)
	require.Nil(t, product.OldPrice)
	require.InDelta(t, 2849.0, *product.NewPrice, 1e-9)
	require.InDelta(t, 4.7, *product.Rating, 1e-9)
	require.EqualValues(t, 321, *product.ReviewCount)
}

// TestNormalizeIdempotent feeds a normalized record's typed values back
// through the normalizer as literal text and requires the identical record.
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	first := Record(listing.Raw{
		Brand:       strPtr("Brastemp"),
		Name:        strPtr("BRM44HK"),
		OldPrice:    strPtr("3.599,00"),
		NewPrice:    strPtr("3.199,90"),
		Rating:      strPtr("4.8"),
		ReviewCount: "(87)",
	})

	second := Record(listing.Raw{
		Brand:       first.Brand,
		Name:        first.Name,
		OldPrice:    strPtr(formatFloat(*first.OldPrice)),
		NewPrice:    strPtr(formatFloat(*first.NewPrice)),
		Rating:      strPtr(formatFloat(*first.Rating)),
		ReviewCount: strconv.FormatInt(*first.ReviewCount, 10),
	})

	require.Equal(t, *first.OldPrice, *second.OldPrice)
	require.Equal(t, *first.NewPrice, *second.NewPrice)
	require.Equal(t, *first.Rating, *second.Rating)
	require.Equal(t, *first.ReviewCount, *second.ReviewCount)
	require.Equal(t, first.Brand, second.Brand)
	require.Equal(t, first.Name, second.Name)
}

func TestRecordsPreservesOrderAndLength(t *testing.T) {
	t.Parallel()

	raws := []listing.Raw{
		{Name: strPtr("first")},
		{Name: strPtr("second"), NewPrice: strPtr("not-a-price")},
		{Name: strPtr("third"), NewPrice: strPtr("1,5")},
	}
	products := Records(raws)

	require.Len(t, products, len(raws))
	require.Equal(t, "first", *products[0].Name)
	require.Equal(t, "second", *products[1].Name)
	require.Nil(t, products[1].NewPrice)
	require.Equal(t, "third", *products[2].Name)
	require.InDelta(t, 1.5, *products[2].NewPrice, 1e-9)
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int64) *int64       { return &i }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
