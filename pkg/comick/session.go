package comick

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
)

// exportedCookie is one entry of a browser cookie export (cookies.txt).
type exportedCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:142.0) Gecko/20100101 Firefox/142.0",
	"Accept-Language": "en-US,en;q=0.5",
	"Origin":          "https://comick.io",
	"Referer":         "https://comick.io/",
}

// sessionTransport adds the browser-like default headers the site expects
// on every request that doesn't already set them.
type sessionTransport struct {
	base http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for name, value := range defaultHeaders {
		if clone.Header.Get(name) == "" {
			clone.Header.Set(name, value)
		}
	}
	return t.base.RoundTrip(clone)
}

// NewSession builds an HTTP client with login cookies loaded from a JSON
// cookie export and default headers installed. The cookies are registered
// against both the API host and the upload host.
func NewSession(cookiesPath string, hosts ...string) (*http.Client, error) {
	raw, err := os.ReadFile(cookiesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies file: %w", err)
	}

	var exported []exportedCookie
	if err := json.Unmarshal(raw, &exported); err != nil {
		return nil, fmt.Errorf("failed to parse cookies file %s: %w", cookiesPath, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	cookies := make([]*http.Cookie, len(exported))
	for i, c := range exported {
		cookies[i] = &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain}
	}

	if len(hosts) == 0 {
		hosts = []string{DefaultAPIBaseURL, DefaultUploadBaseURL}
	}
	for _, host := range hosts {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid session host %s: %w", host, err)
		}
		jar.SetCookies(u, cookies)
	}

	return &http.Client{
		Jar:       jar,
		Transport: &sessionTransport{base: http.DefaultTransport},
	}, nil
}
