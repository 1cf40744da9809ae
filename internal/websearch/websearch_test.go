// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "key123" {
			t.Errorf("token header = %q, want %q", got, "key123")
		}
		if got := r.URL.Query().Get("country"); got != "GB" {
			t.Errorf("country = %q, want GB", got)
		}
		fmt.Fprint(w, `{"web":{"results":[
			{"title":"Acme Yarns Ltd","url":"https://acme.example","description":"yarn shop"},
			{"title":"Other","url":"https://other.example","description":"unrelated"},
			{"title":"Third","url":"https://third.example","description":"extra"}
		]}}`)
	}))
	defer srv.Close()

	orig := searchAPIBase
	searchAPIBase = srv.URL
	defer func() { searchAPIBase = orig }()

	c := &Client{APIKey: "key123"}
	results, err := c.Search(context.Background(), "acme yarns", 2, "GB")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (maxResults cap)", len(results))
	}
	if results[0].Title != "Acme Yarns Ltd" || results[0].Snippet != "yarn shop" {
		t.Errorf("results[0] = %+v", results[0])
	}
}

func TestSearchWithoutKey(t *testing.T) {
	c := &Client{}
	if _, err := c.Search(context.Background(), "q", 5, ""); err == nil {
		t.Fatal("Search() without key should error")
	}
	if c.HasKey() {
		t.Error("HasKey() = true for empty key")
	}
	var nilClient *Client
	if nilClient.HasKey() {
		t.Error("HasKey() on nil client should be false")
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	orig := searchAPIBase
	searchAPIBase = srv.URL
	defer func() { searchAPIBase = orig }()

	c := &Client{APIKey: "k"}
	if _, err := c.Search(context.Background(), "q", 5, ""); err == nil {
		t.Fatal("Search() should surface HTTP errors")
	}
}
