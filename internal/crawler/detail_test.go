package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"legacyfetch/internal/fetch"

	"go.uber.org/zap"
)

const detailPage = `<!DOCTYPE html>
<html>
<head>
<title>【漫画】张三「第一话】 - 例子映阁 - 最新视频</title>
<meta name="description" content="一段简介">
<meta property="og:image" content="https://img.example.org/cover.jpg">
</head>
<body>
<h1 class="article-title">【漫画】张三「第一话】</h1>
<div class="article-tags">
	<a href="/tag/a"># 漫画</a>
	<a href="/tag/b"># 连载</a>
	<a href="/tag/b"># 连载</a>
</div>
<div class="other-links"><a href="/x">#不是标签</a></div>
<script>
var player = { url: "https://cdn.example.vip/v/2.mp4" };
var extra = "https://cdn.example.vip/v/1.mp4";
</script>
</body>
</html>`

func newTestScraper(t *testing.T, baseURL string) *DetailScraper {
	t.Helper()
	cfg := testConfig(baseURL)
	client := fetch.NewClient(cfg.HTTP, zap.NewNop())
	return NewDetailScraper(cfg, client, zap.NewNop())
}

func TestDetailScraper_Scrape(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/archives/42.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailPage)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestScraper(t, server.URL)
	record := s.Scrape(context.Background(), server.URL+"/archives/42.html")

	if record == nil {
		t.Fatal("Scrape() = nil, want a record")
	}
	if record.FailureReason != "" {
		t.Fatalf("FailureReason = %q, want empty", record.FailureReason)
	}
	if record.ID != "42" {
		t.Errorf("ID = %q, want %q", record.ID, "42")
	}
	if record.Title != "【漫画】张三「第一话】" {
		t.Errorf("Title = %q, brand suffix not stripped", record.Title)
	}
	if record.Author != "张三" {
		t.Errorf("Author = %q, want %q", record.Author, "张三")
	}
	if record.Description != "一段简介" {
		t.Errorf("Description = %q", record.Description)
	}
	if record.CoverURL != "https://img.example.org/cover.jpg" {
		t.Errorf("CoverURL = %q", record.CoverURL)
	}
	if len(record.Tags) != 2 || record.Tags[0] != "漫画" || record.Tags[1] != "连载" {
		t.Errorf("Tags = %v, want deduplicated tags from the tag region only", record.Tags)
	}
	if len(record.Episodes) != 2 || record.Episodes[0].Num != 1 || record.Episodes[1].Num != 2 {
		t.Errorf("Episodes = %v, want episodes [1, 2]", record.Episodes)
	}
	if record.VideoURL == "" {
		t.Error("VideoURL is empty, want the first discovered media URL")
	}
}

func TestDetailScraper_NoTitleDropsPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<body><p>no recognizable markup</p></body>`)
	}))
	defer server.Close()

	s := newTestScraper(t, server.URL)
	record := s.Scrape(context.Background(), server.URL+"/archives/7.html")

	if record != nil {
		t.Errorf("Scrape() = %+v, want nil for a page without a title", record)
	}
}

func TestDetailScraper_FetchFailureTagsRecord(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := newTestScraper(t, server.URL)
	record := s.Scrape(context.Background(), server.URL+"/archives/9.html")

	if record == nil {
		t.Fatal("Scrape() = nil, want a tagged-failure record")
	}
	if record.FailureReason == "" {
		t.Error("FailureReason is empty, want the fetch error")
	}
	if record.ID != "9" || record.PageURL == "" {
		t.Errorf("failure record identity = {%q %q}", record.ID, record.PageURL)
	}
	if record.Title != "" || record.VideoURL != "" || len(record.Episodes) != 0 {
		t.Error("failure record must carry no content fields")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch attempts = %d, want %d (config MaxAttempts)", got, 2)
	}
}

func TestDetailScraper_PageID(t *testing.T) {
	s := newTestScraper(t, "https://tv.example.org")

	if got := s.PageID("https://tv.example.org/archives/123.html"); got != "123" {
		t.Errorf("PageID() = %q, want %q", got, "123")
	}

	// Fallback hash must be stable and well-formed
	first := s.PageID("https://tv.example.org/some/other/page")
	second := s.PageID("https://tv.example.org/some/other/page")
	if first != second {
		t.Errorf("fallback PageID not deterministic: %q != %q", first, second)
	}
	if len(first) != 8 {
		t.Errorf("fallback PageID = %q, want 8 hex chars", first)
	}
}
