package collector

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexSentinel/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_SortsDedupsAndDrops(t *testing.T) {
	raw := []model.Observation{
		{Time: day(2024, 1, 3), Value: 103},
		{Time: day(2024, 1, 1), Value: 101},
		{Time: day(2024, 1, 2).Add(9 * time.Hour), Value: 1},
		{Time: day(2024, 1, 2).Add(16 * time.Hour), Value: 102},
		{Time: day(2024, 1, 4), Value: math.NaN()},
		{Time: time.Time{}, Value: 5},
	}
	in := Normalize("SPX", raw)

	require.Len(t, in.Series, 3)
	assert.Equal(t, []float64{101, 102, 103}, in.Series.Values())
	assert.Equal(t, 6, in.Total)
	assert.Equal(t, 2, in.Dropped)
	assert.Equal(t, 1, in.Merged)
	assert.InDelta(t, 2.0/6, in.DroppedFraction(), 1e-12)
}

func TestParseCSV_WithHeader(t *testing.T) {
	data := `Date,Open,Close
2024-01-02,"4,700.00","4,742.83"
2024-01-03,4740,4704.81
2024-01-04,4700,n/a
2024-01-05,4690,4697.24
`
	in, err := ParseCSV(strings.NewReader(data), "SPX")
	require.NoError(t, err)
	require.Len(t, in.Series, 3)
	assert.Equal(t, 4742.83, in.Series[0].Value, "Close header is preferred over Open")
	assert.Equal(t, 4, in.Total)
	assert.Equal(t, 1, in.Dropped)
}

func TestParseCSV_DetectsColumnsWithoutHeader(t *testing.T) {
	data := "x,01/02/2024,10\ny,01/03/2024,11\nz,01/04/2024,12\n"
	in, err := ParseCSV(strings.NewReader(data), "IDX")
	require.NoError(t, err)
	require.Len(t, in.Series, 3)
	assert.True(t, in.Series[0].Time.Equal(day(2024, 1, 2)))
	assert.Equal(t, 12.0, in.Series[2].Value)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrEmptyInput},
		{"header only", "date,value\n", ErrEmptyInput},
		{"one column", "2024-01-02\n2024-01-03\n", ErrTooFewColumns},
		{"no dates", "a,1\nb,2\n", ErrNoDateColumn},
		{"no values", "2024-01-02,x\n2024-01-03,y\n", ErrNoValueColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.data), "X")
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestCSVFetcher_TrimsToLookback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spx.csv")
	content := "date,close\n2024-01-01,1\n2024-01-02,2\n2024-01-03,3\n2024-01-04,4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	in, err := NewCSVFetcher(path).Fetch(context.Background(), "SPX", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, in.Series.Values())

	_, err = NewCSVFetcher(filepath.Join(t.TempDir(), "missing.csv")).Fetch(context.Background(), "SPX", 0)
	assert.Error(t, err)
}

func TestYahooFetcher_DecodesChart(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1704205800,1704292200,1704378600],
"indicators":{"quote":[{"close":[4742.83,null,4688.68]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "GSPC")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 0)
	f.BaseURL = srv.URL
	in, err := f.Fetch(context.Background(), "SPX", 30)
	require.NoError(t, err)
	assert.Equal(t, []float64{4742.83, 4688.68}, in.Series.Values())
	assert.Equal(t, 1, in.Dropped)
}

func TestRESTFetcher_SendsKeyAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "SPX", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`[{"timestamp":1704292200,"close":2},{"timestamp":1704205800,"close":1}]`))
	}))
	defer srv.Close()

	in, err := NewRESTFetcher(srv.URL, "secret", "", 5).Fetch(context.Background(), "SPX", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, in.Series.Values())
}

func TestRESTFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "", 0).Fetch(context.Background(), "SPX", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCollector_Collect(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 5000}, "SPX", 120)
	in, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, in.Series, 120)
	for i := 1; i < len(in.Series); i++ {
		assert.True(t, in.Series[i-1].Time.Before(in.Series[i].Time))
	}

	failing := NewCollector(&MockFetcher{Err: errors.New("boom")}, "SPX", 10)
	_, err = failing.Collect(context.Background())
	assert.ErrorContains(t, err, "boom")

	empty := NewCollector(&MockFetcher{Data: model.Series{}}, "SPX", 10)
	_, err = empty.Collect(context.Background())
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestYahooRange_CoversTradingDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "max"},
		{15, "1mo"},
		{55, "3mo"},
		{240, "1y"},
		{252, "2y"},
		{1250, "5y"},
		{2400, "10y"},
		{3650, "max"},
	}
	for _, tt := range tests {
		if got := yahooRange(tt.days); got != tt.want {
			t.Errorf("yahooRange(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}
