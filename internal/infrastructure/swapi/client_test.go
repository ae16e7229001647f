package swapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(config.ListingConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing url is required")

	c, err := NewClient(config.ListingConfig{URL: "http://localhost/"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestClient_FetchPage(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "holocron-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprintf(w, `{"count":2,"next":"%s/api/people/?page=2","results":[
				{"name":"Luke Skywalker","url":"https://swapi.dev/api/people/1/","gender":"male","mass":"77","height":"172","hair_color":"blond","eye_color":"blue","birth_year":"19BBY"}
			]}`, srv.URL)
		default:
			fmt.Fprint(w, `{"count":2,"next":null,"results":[{"name":"R2-D2","url":"https://swapi.dev/api/people/3/"}]}`)
		}
	}))
	defer srv.Close()

	c, err := NewClient(config.ListingConfig{URL: srv.URL + "/api/people/", UserAgent: "holocron-test"})
	require.NoError(t, err)

	page, err := c.FetchPage(t.Context(), srv.URL+"/api/people/")
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Luke Skywalker", page.Results[0].Name)
	assert.Equal(t, "blond", page.Results[0].HairColor)
	assert.Equal(t, "19BBY", page.Results[0].BirthYear)
	require.NotNil(t, page.Next)
	assert.Equal(t, srv.URL+"/api/people/?page=2", *page.Next)

	page, err = c.FetchPage(t.Context(), *page.Next)
	require.NoError(t, err)
	assert.Nil(t, page.Next)
	assert.Equal(t, "R2-D2", page.Results[0].Name)
}

func TestClient_FetchPage_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status":
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		case "/garbage":
			fmt.Fprint(w, `{"results": [`)
		}
	}))
	defer srv.Close()

	c, err := NewClient(config.ListingConfig{URL: srv.URL})
	require.NoError(t, err)

	_, err = c.FetchPage(t.Context(), srv.URL+"/status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
	assert.Contains(t, err.Error(), "rate limited")

	_, err = c.FetchPage(t.Context(), srv.URL+"/garbage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding page")

	_, err = c.FetchPage(t.Context(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)
}
