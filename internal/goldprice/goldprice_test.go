package goldprice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/finance-assistant/internal/logging"
)

var testRate = decimal.NewFromInt(25000)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"price": 2000.00}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, testRate, &logging.MockLogger{})
	q := c.Fetch(context.Background())

	assert.False(t, q.Fallback)
	assert.True(t, q.USDPerOunce.Equal(decimal.NewFromInt(2000)))

	// 2000 USD/oz * 25000 VND/USD / 31.1035 g/oz
	expectedGram := decimal.NewFromInt(2000).Mul(testRate).Div(decimal.NewFromFloat(31.1035))
	assert.True(t, q.VNDPerGram.Equal(expectedGram), "got %s", q.VNDPerGram)
	assert.True(t, q.VNDPerTael.Equal(expectedGram.Mul(decimal.NewFromFloat(37.5))))
}

func TestFetchFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("maintenance"))
			},
		},
		{
			name: "empty array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("[]"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(srv.URL, time.Second, testRate, &logging.MockLogger{})
			q := c.Fetch(context.Background())

			require.True(t, q.Fallback)
			assert.True(t, q.USDPerOunce.Equal(decimal.NewFromInt(2050)))
			assert.Contains(t, q.Render(), "reference price")
		})
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	c := New("http://127.0.0.1:1", 100*time.Millisecond, testRate, &logging.MockLogger{})
	q := c.Fetch(context.Background())
	assert.True(t, q.Fallback)
}
