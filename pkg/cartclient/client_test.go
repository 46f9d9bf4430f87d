package cartclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"catalog/internal/models"
	"catalog/pkg/cartclient"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func clientFor(t *testing.T, server *httptest.Server, retry cartclient.RetryPolicy) *cartclient.Client {
	t.Helper()
	u, err := url.Parse(server.URL)
	assert.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	assert.NoError(t, err)
	return cartclient.New(cartclient.Config{
		Host:    u.Hostname(),
		Port:    port,
		Timeout: time.Second,
		Retry:   retry,
	})
}

func sampleDTO() models.ProductDTO {
	return models.ProductDTO{ID: 2, Price: decimal.RequireFromString("3.74"), Stock: 5, Weight: 1.0}
}

func TestClient_UpdateProduct_OK(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []models.ProductDTO
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := clientFor(t, server, cartclient.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond})

	dto, err := client.UpdateProduct(sampleDTO())

	assert.NoError(t, err)
	assert.Equal(t, uint(2), dto.ID)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/carts/updateStock/", gotPath)
	// The wire format is a single-element batch.
	assert.Len(t, gotBody, 1)
	assert.Equal(t, uint(2), gotBody[0].ID)
	assert.Equal(t, 5, gotBody[0].Stock)
	assert.True(t, gotBody[0].Price.Equal(decimal.RequireFromString("3.74")))
}

func TestClient_UpdateProduct_ServerErrorRetriesThenFails(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := clientFor(t, server, cartclient.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond})

	_, err := client.UpdateProduct(sampleDTO())

	var connErr *cartclient.CartConnectionError
	assert.ErrorAs(t, err, &connErr)
	assert.Equal(t, http.StatusInternalServerError, connErr.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_UpdateProduct_ServerErrorThenRecovers(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := clientFor(t, server, cartclient.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond})

	dto, err := client.UpdateProduct(sampleDTO())

	assert.NoError(t, err)
	assert.Equal(t, uint(2), dto.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_UpdateProduct_RejectionNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := clientFor(t, server, cartclient.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond})

	_, err := client.UpdateProduct(sampleDTO())

	var respErr *cartclient.CartResponseError
	assert.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusNotFound, respErr.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_UpdateProduct_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	client := clientFor(t, server, cartclient.RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond})

	_, err := client.UpdateProduct(sampleDTO())

	var connErr *cartclient.CartConnectionError
	assert.ErrorAs(t, err, &connErr)
	assert.Error(t, connErr.Err)
}

func TestClient_UpdateProduct_ZeroAttemptsStillCallsOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := clientFor(t, server, cartclient.RetryPolicy{})

	_, err := client.UpdateProduct(sampleDTO())

	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_UpdateProduct_CustomRetryPredicate(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// A predicate that retries nothing turns the 5xx into an immediate failure.
	client := clientFor(t, server, cartclient.RetryPolicy{
		MaxAttempts: 5,
		Delay:       time.Millisecond,
		Retryable:   func(error) bool { return false },
	})

	_, err := client.UpdateProduct(sampleDTO())

	var connErr *cartclient.CartConnectionError
	assert.ErrorAs(t, err, &connErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
