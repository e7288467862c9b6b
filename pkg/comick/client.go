// Package comick is a client for the comick.io API and its upload service.
package comick

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultAPIBaseURL    = "https://api.comick.io"
	DefaultUploadBaseURL = "https://upload.comick.io/v1.0"
)

// Languages maps the upload language codes accepted by the site to display names.
var Languages = map[string]string{
	"en":     "English",
	"fr":     "French",
	"es-419": "Spanish (Latin American)",
	"pt-br":  "Brazilian Portuguese",
	"pl":     "Polish",
	"ru":     "Russian",
	"ms":     "Malay",
	"it":     "Italian",
	"id":     "Indonesian",
	"hi":     "Hindi",
	"de":     "German",
	"uk":     "Ukrainian",
	"vi":     "Vietnamese",
	"tl":     "Filipino/Tagalog",
	"bn":     "Bengali",
	"ar":     "Arabic",
	"es":     "Spanish (Castilian)",
	"tr":     "Turkish",
}

type Client struct {
	api       *http.Client
	baseURL   string
	uploadURL string
}

// NewClient builds a client against the given API and upload base URLs.
// Empty strings select the production defaults; a nil httpClient selects
// http.DefaultClient (uploads normally pass the session client so requests
// carry the login cookies).
func NewClient(httpClient *http.Client, baseURL, uploadURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	if uploadURL == "" {
		uploadURL = DefaultUploadBaseURL
	}
	return &Client{api: httpClient, baseURL: baseURL, uploadURL: uploadURL}
}

func (c *Client) do(method, rawURL string, body, v any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	var body struct {
		Message string `json:"message"`
	}
	if json.NewDecoder(resp.Body).Decode(&body) == nil {
		apiErr.Message = body.Message
	}
	if strings.Contains(apiErr.Message, "Chapter already exists") {
		return fmt.Errorf("%s: %w", apiErr.Message, ErrDuplicateChapter)
	}
	return apiErr
}

// Comic is the subset of comic metadata the uploader needs.
type Comic struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// GetComic validates that a comic slug exists and returns its metadata.
func (c *Client) GetComic(slug string) (*Comic, error) {
	var out struct {
		Comic Comic `json:"comic"`
	}
	if err := c.do(http.MethodGet, fmt.Sprintf("%s/comic/%s", c.baseURL, url.PathEscape(slug)), nil, &out); err != nil {
		return nil, err
	}
	return &out.Comic, nil
}

// Group is a scanlation group search hit.
type Group struct {
	ID   string `json:"k"`
	Name string `json:"v"`
}

// SearchGroups looks up scanlation groups by name.
func (c *Client) SearchGroups(term string) ([]Group, error) {
	var out []Group
	rawURL := fmt.Sprintf("%s/search/group?k=%s", c.baseURL, url.QueryEscape(term))
	if err := c.do(http.MethodGet, rawURL, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RequestTargets asks for one presigned upload URL per logical filename.
// Targets are single-use: a retried chapter attempt requests fresh ones.
func (c *Client) RequestTargets(files []string) ([]string, error) {
	payload := map[string][]string{"files": files}
	var out struct {
		URLs []string `json:"urls"`
	}
	if err := c.do(http.MethodPost, c.baseURL+"/presign", payload, &out); err != nil {
		return nil, err
	}
	if len(out.URLs) != len(files) {
		return nil, fmt.Errorf("presign returned %d targets for %d files", len(out.URLs), len(files))
	}
	return out.URLs, nil
}

// PutPage transfers encoded JPEG bytes to a presigned target.
func (c *Client) PutPage(target string, jpegData []byte) error {
	req, err := http.NewRequest(http.MethodPut, target, bytes.NewReader(jpegData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.api.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return nil
}

// FinalizePayload commits a chapter's metadata and uploaded page references.
type FinalizePayload struct {
	Chapter    string   `json:"chap"`
	Language   string   `json:"lang"`
	Images     []string `json:"images"`
	Title      string   `json:"title,omitempty"`
	Volume     string   `json:"vol,omitempty"`
	IsOfficial bool     `json:"is_official,omitempty"`
	Groups     []string `json:"groups,omitempty"`
	Timer      string   `json:"timer,omitempty"` // release delay in hours
}

// AddChapter finalizes a chapter. A remote "Chapter already exists" response
// comes back as ErrDuplicateChapter.
func (c *Client) AddChapter(slug string, payload FinalizePayload) error {
	rawURL := fmt.Sprintf("%s/comic/%s/add-chapter", c.uploadURL, url.PathEscape(slug))
	return c.do(http.MethodPost, rawURL, payload, nil)
}
