package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// startPageStub serves every connection with an HTTP response wrapping body
// as an HTML page, counting connections.
func startPageStub(t *testing.T, body string) (hostPort string, served *atomic.Int32) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	served = new(atomic.Int32)
	resp := "HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=utf-8\r\n\r\n" + body
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			served.Add(1)
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4096)
				_, _ = c.Read(buf)
				_, _ = c.Write([]byte(resp))
			}(conn)
		}
	}()
	return ln.Addr().String(), served
}

func testApp(t *testing.T, cfg Config) *App {
	t.Helper()
	if cfg.CacheDir == "" {
		cfg.CacheDir = t.TempDir()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	return New(cfg, zerolog.Nop())
}

func TestFetchURL_ExtractsAndCaches(t *testing.T) {
	addr, served := startPageStub(t, "<html><head><title>T</title></head><body><p>hello world</p></body></html>")
	a := testApp(t, Config{})
	ctx := context.Background()

	page, err := a.FetchURL(ctx, "http://"+addr+"/")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Title != "T" || !strings.Contains(page.Text, "hello world") {
		t.Fatalf("unexpected page: %+v", page)
	}

	// Second fetch of the same URL is served from cache.
	again, err := a.FetchURL(ctx, "http://"+addr+"/")
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if again != page {
		t.Fatalf("cache returned a different page: %+v vs %+v", again, page)
	}
	if n := served.Load(); n != 1 {
		t.Fatalf("expected a single network fetch, got %d", n)
	}
}

func TestFetchURL_NoCacheAlwaysFetches(t *testing.T) {
	addr, served := startPageStub(t, "<p>x</p>")
	a := testApp(t, Config{NoCache: true})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := a.FetchURL(ctx, "http://"+addr+"/"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if n := served.Load(); n != 2 {
		t.Fatalf("expected 2 network fetches, got %d", n)
	}
}

func TestFetchURL_CacheWriteFailureKeepsContent(t *testing.T) {
	addr, _ := startPageStub(t, "<p>survives</p>")

	// Point the cache dir at a regular file so every write fails.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	a := testApp(t, Config{CacheDir: blocker})

	page, err := a.FetchURL(context.Background(), "http://"+addr+"/")
	if err != nil {
		t.Fatalf("fetch must survive cache failure: %v", err)
	}
	if !strings.Contains(page.Text, "survives") {
		t.Fatalf("content lost: %+v", page)
	}
}

func TestFetchURL_BadURL(t *testing.T) {
	a := testApp(t, Config{})
	if _, err := a.FetchURL(context.Background(), "http://"); err == nil {
		t.Fatalf("expected error for bad URL")
	}
}

func TestFetchURL_ConnectionErrorNothingCached(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	dir := t.TempDir()
	a := testApp(t, Config{CacheDir: dir})
	if _, err := a.FetchURL(context.Background(), "http://"+addr+"/"); err == nil {
		t.Fatalf("expected connection error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("nothing should be cached after a failed fetch, found %d files", len(entries))
	}
}

func TestSearch_EndToEndWithStubProvider(t *testing.T) {
	page := `<html><body>
		<a rel="nofollow" class="result__url" href="https://a.example">https://a.example</a>
		<a rel="nofollow" class="result__url" href="https://b.example">https://b.example</a>
	</body></html>`
	addr, served := startPageStub(t, page)
	a := testApp(t, Config{SearchHost: addr})
	ctx := context.Background()

	results, err := a.Search(ctx, "rust ownership")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 || results[0].URL != "https://a.example" || results[1].URL != "https://b.example" {
		t.Fatalf("unexpected results: %+v", results)
	}

	// Same query again hits the cache.
	if _, err := a.Search(ctx, "rust  ownership "); err != nil {
		t.Fatalf("cached search: %v", err)
	}
	if n := served.Load(); n != 1 {
		t.Fatalf("expected one provider fetch, got %d", n)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	a := testApp(t, Config{})
	if _, err := a.Search(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

func TestSearch_ManyResultsTruncated(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, `<a class="result__url" href="https://r%02d.example/">r</a>`, i)
	}
	b.WriteString("</body></html>")
	addr, _ := startPageStub(t, b.String())
	a := testApp(t, Config{SearchHost: addr})

	results, err := a.Search(context.Background(), "many")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
}

func TestWritePDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.pdf")
	page := Page{Title: "A Title", Text: "First paragraph.\n\nSecond paragraph."}
	if err := WritePDF(page, out); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("empty pdf written")
	}
}

func TestLoadConfigFile_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "ua: custom-agent\ncache:\n  dir: /tmp/cache-here\nllm:\n  base: http://llm.local/v1\n  model: small\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := Config{UserAgent: "from-flag"}
	ApplyFileConfig(&cfg, fc)
	if cfg.UserAgent != "from-flag" {
		t.Fatalf("flag value must win, got %q", cfg.UserAgent)
	}
	if cfg.CacheDir != "/tmp/cache-here" || cfg.LLMModel != "small" || cfg.LLMBaseURL != "http://llm.local/v1" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
