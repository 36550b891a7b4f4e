package fetch

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"golang.org/x/net/http/httpproxy"
)

// ProxyFromEnv builds a proxy selector from the conventional environment
// variables. http_proxy/HTTP_PROXY applies to plain HTTP targets,
// https_proxy/HTTPS_PROXY to HTTPS targets, and all_proxy/ALL_PROXY fills
// in for whichever of the two is unset. no_proxy/NO_PROXY is honored.
//
// Selection is by target scheme at request time. A proxy value that does
// not parse is reported here, before any request is made: a typo in the
// environment should stop the run, not silently direct-connect. (The
// httpproxy dispatcher itself drops unparseable values.)
func ProxyFromEnv() (func(*http.Request) (*url.URL, error), error) {
	cfg := &httpproxy.Config{
		HTTPProxy:  envAny("HTTP_PROXY", "http_proxy"),
		HTTPSProxy: envAny("HTTPS_PROXY", "https_proxy"),
		NoProxy:    envAny("NO_PROXY", "no_proxy"),
	}
	if all := envAny("ALL_PROXY", "all_proxy"); all != "" {
		if cfg.HTTPProxy == "" {
			cfg.HTTPProxy = all
		}
		if cfg.HTTPSProxy == "" {
			cfg.HTTPSProxy = all
		}
	}

	for _, v := range []string{cfg.HTTPProxy, cfg.HTTPSProxy} {
		if err := checkProxyValue(v); err != nil {
			return nil, fmt.Errorf("invalid proxy configuration: %w", err)
		}
	}

	proxy := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}, nil
}

// checkProxyValue accepts exactly the values the httpproxy dispatcher
// will use, including its leniency of prepending http:// to bare
// host:port values, but surfaces the parse error it swallows.
func checkProxyValue(v string) error {
	if v == "" {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "socks5") {
		if _, fallbackErr := url.Parse("http://" + v); fallbackErr == nil {
			return nil
		}
	}
	if err != nil {
		return fmt.Errorf("invalid proxy address %q: %v", v, err)
	}
	return nil
}

func envAny(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
