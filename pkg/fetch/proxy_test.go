package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// clearProxyEnv blanks every proxy variable so the ambient environment
// cannot leak into a test.
func clearProxyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"HTTP_PROXY", "http_proxy",
		"HTTPS_PROXY", "https_proxy",
		"ALL_PROXY", "all_proxy",
		"NO_PROXY", "no_proxy",
	} {
		t.Setenv(name, "")
	}
}

func proxyFor(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("NewRequest(%q) error: %v", rawURL, err)
	}
	return req
}

func TestProxyFromEnvPerScheme(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("http_proxy", "http://plain.proxy:8080")
	t.Setenv("https_proxy", "http://secure.proxy:8080")

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("ProxyFromEnv should succeed, got error: %v", err)
	}

	u, err := proxy(proxyFor(t, "http://example.com/"))
	if err != nil || u == nil || u.Host != "plain.proxy:8080" {
		t.Errorf("http target should use the http proxy, got %v (err %v)", u, err)
	}
	u, err = proxy(proxyFor(t, "https://example.com/"))
	if err != nil || u == nil || u.Host != "secure.proxy:8080" {
		t.Errorf("https target should use the https proxy, got %v (err %v)", u, err)
	}
}

func TestProxyFromEnvAllProxyFallback(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("all_proxy", "http://catchall.proxy:1080")

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("ProxyFromEnv should succeed, got error: %v", err)
	}

	for _, target := range []string{"http://example.com/", "https://example.com/"} {
		u, err := proxy(proxyFor(t, target))
		if err != nil || u == nil || u.Host != "catchall.proxy:1080" {
			t.Errorf("%s should fall back to all_proxy, got %v (err %v)", target, u, err)
		}
	}
}

func TestProxyFromEnvSpecificBeatsAllProxy(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("http_proxy", "http://plain.proxy:8080")
	t.Setenv("all_proxy", "http://catchall.proxy:1080")

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("ProxyFromEnv should succeed, got error: %v", err)
	}

	u, _ := proxy(proxyFor(t, "http://example.com/"))
	if u == nil || u.Host != "plain.proxy:8080" {
		t.Errorf("http target should prefer http_proxy over all_proxy, got %v", u)
	}
	u, _ = proxy(proxyFor(t, "https://example.com/"))
	if u == nil || u.Host != "catchall.proxy:1080" {
		t.Errorf("https target should fall back to all_proxy, got %v", u)
	}
}

func TestProxyFromEnvUppercasePrecedence(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("HTTP_PROXY", "http://upper.proxy:8080")
	t.Setenv("http_proxy", "http://lower.proxy:8080")

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("ProxyFromEnv should succeed, got error: %v", err)
	}

	u, _ := proxy(proxyFor(t, "http://example.com/"))
	if u == nil || u.Host != "upper.proxy:8080" {
		t.Errorf("uppercase variable should win, got %v", u)
	}
}

func TestProxyFromEnvBareHostPort(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("http_proxy", "plain.proxy:8080")

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("bare host:port proxy value should be accepted, got error: %v", err)
	}

	u, _ := proxy(proxyFor(t, "http://example.com/"))
	if u == nil || u.Host != "plain.proxy:8080" {
		t.Errorf("bare host:port value should be used with an implied scheme, got %v", u)
	}
}

func TestProxyFromEnvNoProxy(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("http_proxy", "http://plain.proxy:8080")
	t.Setenv("no_proxy", "example.com")

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("ProxyFromEnv should succeed, got error: %v", err)
	}

	u, err := proxy(proxyFor(t, "http://example.com/"))
	if err != nil {
		t.Fatalf("selection should succeed, got error: %v", err)
	}
	if u != nil {
		t.Errorf("no_proxy target should connect directly, got %v", u)
	}
}

func TestProxyFromEnvEmpty(t *testing.T) {
	clearProxyEnv(t)

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("ProxyFromEnv should succeed with no variables set, got error: %v", err)
	}
	u, err := proxy(proxyFor(t, "http://example.com/"))
	if err != nil || u != nil {
		t.Errorf("unset environment should mean direct connections, got %v (err %v)", u, err)
	}
}

func TestProxyFromEnvMalformed(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("http_proxy", "%zz")

	if _, err := ProxyFromEnv(); err == nil {
		t.Error("ProxyFromEnv should fail on a malformed proxy value")
	}
}

// TestClientRoutesThroughProxy stands up a real proxy endpoint and checks
// that the client sends it the absolute-URI request form.
func TestClientRoutesThroughProxy(t *testing.T) {
	clearProxyEnv(t)

	var sawURI string
	proxyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawURI = r.RequestURI
		w.Write([]byte("proxied"))
	}))
	defer proxyServer.Close()

	t.Setenv("http_proxy", proxyServer.URL)

	proxy, err := ProxyFromEnv()
	if err != nil {
		t.Fatalf("ProxyFromEnv should succeed, got error: %v", err)
	}
	client := NewClient(Config{Proxy: proxy})

	body, err := client.GetText(context.Background(), "http://upstream.invalid/simple/")
	if err != nil {
		t.Fatalf("GetText through proxy should succeed, got error: %v", err)
	}
	if body != "proxied" {
		t.Errorf("body should come from the proxy, got %q", body)
	}
	if !strings.HasPrefix(sawURI, "http://upstream.invalid/") {
		t.Errorf("proxy should see the absolute request URI, got %q", sawURI)
	}
}
