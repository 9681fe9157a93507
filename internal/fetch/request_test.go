package fetch

import "testing"

func TestParseURL(t *testing.T) {
	cases := []struct {
		in   string
		host string
		path string
		port int
	}{
		{"http://example.com", "example.com", "/", 80},
		{"https://example.com/a/b?q=1", "example.com", "/a/b?q=1", 80},
		{"example.com/x", "example.com", "/x", 80},
		{"http://example.com:8080/x", "example.com", "/x", 8080},
	}
	for _, c := range cases {
		req, err := ParseURL(c.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.in, err)
		}
		if req.Host != c.host || req.Path != c.path || req.Port != c.port {
			t.Fatalf("%s: got %+v", c.in, req)
		}
		if !req.FollowRedirects {
			t.Fatalf("%s: expected FollowRedirects set", c.in)
		}
	}
}

func TestParseURL_Invalid(t *testing.T) {
	for _, in := range []string{"", "http://", "http:///path", "http://host:notaport/"} {
		if _, err := ParseURL(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestRequestURL_Canonical(t *testing.T) {
	a, _ := ParseURL("http://example.com/x")
	b, _ := ParseURL("example.com/x")
	if a.URL() != b.URL() {
		t.Fatalf("equivalent requests must share a canonical URL: %q vs %q", a.URL(), b.URL())
	}
	c, _ := ParseURL("example.com:8080/x")
	if c.URL() != "http://example.com:8080/x" {
		t.Fatalf("unexpected canonical URL %q", c.URL())
	}
}

func TestRedirectTarget(t *testing.T) {
	cur, _ := ParseURL("http://a.example/dir/page")
	abs, err := cur.redirectTarget("http://b.example/x")
	if err != nil {
		t.Fatalf("absolute: %v", err)
	}
	if abs.Host != "b.example" || abs.Path != "/x" {
		t.Fatalf("absolute: got %+v", abs)
	}

	rooted, err := cur.redirectTarget("/other")
	if err != nil {
		t.Fatalf("rooted: %v", err)
	}
	if rooted.Host != "a.example" || rooted.Path != "/other" {
		t.Fatalf("rooted: got %+v", rooted)
	}

	rel, err := cur.redirectTarget("next")
	if err != nil {
		t.Fatalf("relative: %v", err)
	}
	if rel.Host != "a.example" || rel.Path != "/dir/next" {
		t.Fatalf("relative: got %+v", rel)
	}

	if _, err := cur.redirectTarget("  "); err == nil {
		t.Fatalf("expected error for blank location")
	}
}
