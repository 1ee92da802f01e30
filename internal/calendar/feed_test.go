package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func feedWindow() (time.Time, time.Time) {
	from := time.Date(2010, 1, 1, 12, 0, 0, 0, time.UTC)
	to := time.Date(2023, 1, 28, 14, 0, 0, 0, time.UTC)
	return from, to
}

func TestFeedFetchRecords(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	var gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","result":[
			{"id":"e1","title":"Nonfarm Payrolls","country":"US","date":"2022-06-03T12:30:00.000Z","actual":390000,"forecast":318000,"previous":436000,"unit":"","importance":1},
			{"id":"e2","title":"CPI","country":"US","date":"2022-06-10T12:30:00.000Z","actual":null,"forecast":8.3,"previous":8.6,"unit":"%","importance":1}
		]}`))
	}))
	defer srv.Close()

	from, to := feedWindow()
	feed := NewFeed(FeedOptions{
		BaseURL:       srv.URL,
		From:          from,
		To:            to,
		Countries:     "US",
		MinImportance: 1,
		UserAgent:     "macromood-test",
		Timeout:       time.Second,
	}, noopLogger())

	records, err := feed.FetchRecords(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if gotPath != "/events" {
		t.Fatalf("expected /events path, got %s", gotPath)
	}
	if gotUA != "macromood-test" {
		t.Fatalf("user agent not applied: %q", gotUA)
	}
	if gotQuery["from"] != "2010-01-01T12:00:00.000Z" || gotQuery["to"] != "2023-01-28T14:00:00.000Z" {
		t.Fatalf("window query params wrong: %v", gotQuery)
	}
	if gotQuery["countries"] != "US" || gotQuery["minImportance"] != "1" {
		t.Fatalf("filter query params wrong: %v", gotQuery)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "e1" || records[0].Title != "Nonfarm Payrolls" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if !records[0].Actual.Valid {
		t.Fatal("actual figure should be present for e1")
	}
	if records[1].Actual.Valid {
		t.Fatal("null actual must decode as missing")
	}
	if records[1].Unit != "%" {
		t.Fatalf("unit not decoded: %q", records[1].Unit)
	}
}

func TestFeedFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	from, to := feedWindow()
	feed := NewFeed(FeedOptions{BaseURL: srv.URL, From: from, To: to, Timeout: time.Second}, noopLogger())

	if _, err := feed.FetchRecords(context.Background()); err == nil {
		t.Fatal("non-200 response must fail")
	}
}

func TestFeedCacheKeyStable(t *testing.T) {
	from, to := feedWindow()
	a := FeedOptions{From: from, To: to, Countries: "US", MinImportance: 1}
	b := FeedOptions{From: from.UTC(), To: to.UTC(), Countries: "US", MinImportance: 1}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("cache key must be stable: %q vs %q", a.CacheKey(), b.CacheKey())
	}
	c := FeedOptions{From: from, To: to, Countries: "US", MinImportance: 2}
	if a.CacheKey() == c.CacheKey() {
		t.Fatal("different windows must produce different keys")
	}
}
