package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	baseURL    = "http://export.arxiv.org/api/query?"
	basePDFURL = "https://arxiv.org/pdf/"
)

// FetchError indicates the paper repository could not serve a request.
type FetchError struct {
	Message    string
	StatusCode int
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Entry is one paper record in an arXiv Atom feed.
type Entry struct {
	ID        string    `xml:"id"`
	Title     string    `xml:"title"`
	Summary   string    `xml:"summary"`
	Published time.Time `xml:"published"`
	Updated   time.Time `xml:"updated"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href string `xml:"href,attr"`
		Type string `xml:"type,attr"`
	} `xml:"link"`
}

type feed struct {
	Entries []Entry `xml:"entry"`
}

// Metadata is a parsed paper record.
type Metadata struct {
	ID        string
	Title     string
	Authors   []string
	Published time.Time
	Updated   time.Time
	Summary   string
	PDFURL    string
}

// Document pairs a paper id with its PDF link, as returned by topic search.
type Document struct {
	ID      string `json:"id"`
	PDFLink string `json:"pdf_link"`
}

// Client fetches paper metadata and PDFs from the arXiv export API.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient uses a 30 second timeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient}
}

// FetchMetadata retrieves the metadata record for one paper id.
func (c *Client) FetchMetadata(ctx context.Context, paperID string) (*Metadata, error) {
	body, err := c.get(ctx, baseURL+"id_list="+url.QueryEscape(paperID))
	if err != nil {
		return nil, err
	}
	return parseMetadata(body)
}

// parseMetadata parses a single-entry Atom feed into a Metadata record.
func parseMetadata(body []byte) (*Metadata, error) {
	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("parse arXiv feed: %w", err)
	}
	if len(f.Entries) != 1 {
		return nil, &FetchError{Message: "paper not found or multiple entries returned"}
	}

	entry := f.Entries[0]
	meta := &Metadata{
		ID:        idFromEntry(entry.ID),
		Title:     collapseWhitespace(entry.Title),
		Published: entry.Published,
		Updated:   entry.Updated,
		Summary:   collapseWhitespace(entry.Summary),
	}
	for _, a := range entry.Authors {
		meta.Authors = append(meta.Authors, a.Name)
	}
	for _, link := range entry.Links {
		if link.Type == "application/pdf" {
			meta.PDFURL = link.Href
		}
	}
	if meta.PDFURL == "" {
		return nil, &FetchError{Message: "paper PDF link not found"}
	}
	return meta, nil
}

// SearchByTopic returns up to numPapers documents matching a free-text topic.
func (c *Client) SearchByTopic(ctx context.Context, topic string, numPapers int) ([]Document, error) {
	query := fmt.Sprintf("search_query=all:%s&start=0&max_results=%d", url.QueryEscape(topic), numPapers)
	body, err := c.get(ctx, baseURL+query)
	if err != nil {
		return nil, err
	}

	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("parse arXiv feed: %w", err)
	}

	docs := make([]Document, 0, len(f.Entries))
	for _, entry := range f.Entries {
		id := idFromEntry(entry.ID)
		docs = append(docs, Document{ID: id, PDFLink: basePDFURL + id})
	}
	return docs, nil
}

// FetchPDF downloads the raw PDF bytes for a paper.
func (c *Client) FetchPDF(ctx context.Context, pdfURL string) ([]byte, error) {
	return c.get(ctx, pdfURL)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("request to arXiv failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Message: "failed to fetch from arXiv", StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// idFromEntry extracts the bare paper id from an Atom entry id URL such as
// "http://arxiv.org/abs/2501.00001v1".
func idFromEntry(entryID string) string {
	if i := strings.LastIndex(entryID, "/abs/"); i != -1 {
		return entryID[i+len("/abs/"):]
	}
	if i := strings.LastIndex(entryID, "/"); i != -1 {
		return entryID[i+1:]
	}
	return entryID
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
