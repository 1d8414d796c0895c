package spoonacular

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testQuery = Query{Ingredients: "chicken,tomatoes,basil", Number: 10, Ranking: 1, IgnorePantry: true}

func TestFindByIngredients(t *testing.T) {
	var gotPath, gotRawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":641803,"title":"Easy Chicken","image":"https://img.spoonacular.com/recipes/641803-312x231.jpg",
			"usedIngredients":[{"id":1,"name":"chicken"}],"missedIngredients":[{"id":2,"name":"garlic"}],"unusedIngredients":[]}]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/"))
	matches, err := c.FindByIngredients(context.Background(), "secret-key", testQuery)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "/recipes/findByIngredients", gotPath)
	assert.Equal(t, "ingredients=chicken,tomatoes,basil&number=10&ranking=1&ignorePantry=true&apiKey=secret-key", gotRawQuery)

	m := matches[0]
	assert.Equal(t, 641803, m.ID)
	assert.Equal(t, "Easy Chicken", m.Title)
	assert.Equal(t, "chicken", m.UsedIngredients[0].Name)
	assert.Equal(t, "garlic", m.MissedIngredients[0].Name)
	assert.Empty(t, m.UnusedIngredients)
}

func TestFindByIngredients_EscapesReservedBytes(t *testing.T) {
	var gotRawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	q := testQuery
	q.Ingredients = "salt&pepper,olive oil"
	_, err := NewClient(WithBaseURL(srv.URL)).FindByIngredients(context.Background(), "k", q)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotRawQuery, "ingredients=salt%26pepper,olive+oil&number=10"), gotRawQuery)
}

func TestFindByIngredients_StatusError(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusInternalServerError, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"status":"failure"}`, code)
		}))

		_, err := NewClient(WithBaseURL(srv.URL)).FindByIngredients(context.Background(), "k", testQuery)
		srv.Close()

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr), "status %d", code)
		assert.Equal(t, code, statusErr.StatusCode)
		assert.Equal(t, `{"status":"failure"}`, statusErr.Body)
	}
}

func TestFindByIngredients_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).FindByIngredients(context.Background(), "k", testQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response body")
}

func TestFindByIngredients_RejectsNonArrayBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "null", body: `null`},
		{name: "trailing data", body: `[] trailing-garbage`},
		{name: "two arrays", body: `[][]`},
		{name: "empty body", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			matches, err := NewClient(WithBaseURL(srv.URL)).FindByIngredients(context.Background(), "k", testQuery)
			require.Error(t, err)
			assert.Nil(t, matches)
			assert.Contains(t, err.Error(), "failed to decode response body")
		})
	}
}

func TestFindByIngredients_EmptyArrayWithTrailingNewline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]\n"))
	}))
	defer srv.Close()

	matches, err := NewClient(WithBaseURL(srv.URL)).FindByIngredients(context.Background(), "k", testQuery)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestNewClient_TimeoutDoesNotMutateProvidedClient(t *testing.T) {
	hc := &http.Client{}

	c := NewClient(WithTimeout(time.Second), WithHTTPClient(hc))

	assert.Equal(t, time.Duration(0), hc.Timeout)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.NotSame(t, hc, c.httpClient)
}

func TestNewClient_NilHTTPClient(t *testing.T) {
	c := NewClient(WithHTTPClient(nil), WithTimeout(2*time.Second))

	require.NotNil(t, c.httpClient)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
}

func TestFindByIngredients_TransportErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).FindByIngredients(context.Background(), "top-secret", testQuery)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "top-secret")
	assert.Contains(t, err.Error(), "REDACTED")
}

func TestFindByIngredients_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := c.FindByIngredients(context.Background(), "k", testQuery)
	require.Error(t, err)
}
