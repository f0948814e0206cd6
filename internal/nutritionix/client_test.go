package nutritionix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchForwardsQueryAndReturnsFoods(t *testing.T) {
	var gotPath, gotID, gotKey string
	var gotBody map[string]string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotID = r.Header.Get("x-app-id")
		gotKey = r.Header.Get("x-app-key")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"foods":[{"food_name":"apple","nf_calories":95.16}]}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL+"/", "app", "key")
	foods, err := client.Search(context.Background(), "1 large apple")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotPath != "/v2/natural/nutrients" || gotID != "app" || gotKey != "key" {
		t.Errorf("request path=%q id=%q key=%q", gotPath, gotID, gotKey)
	}
	if gotBody["query"] != "1 large apple" {
		t.Errorf("forwarded query = %q", gotBody["query"])
	}
	if string(foods) != `[{"food_name":"apple","nf_calories":95.16}]` {
		t.Errorf("foods = %s", foods)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
	}))
	defer upstream.Close()

	_, err := NewClient(upstream.URL, "app", "bad").Search(context.Background(), "rice")

	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.Status != http.StatusUnauthorized {
		t.Fatalf("err = %v, want UpstreamError 401", err)
	}
}

func TestSearchValidation(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "app", "key")
	if _, err := client.Search(context.Background(), "  "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}

	unconfigured := NewClient("http://127.0.0.1:1", "", "")
	if _, err := unconfigured.Search(context.Background(), "rice"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSearchMissingFoods(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	foods, err := NewClient(upstream.URL, "app", "key").Search(context.Background(), "water")
	if err != nil {
		t.Fatal(err)
	}
	if string(foods) != "[]" {
		t.Errorf("foods = %s, want []", foods)
	}
}
