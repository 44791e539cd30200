// Package arxiv fetches paper metadata and PDFs from the arXiv export API.
// Metadata arrives as an Atom feed; the client parses it into flat records
// and normalizes titles and summaries that arXiv wraps across lines.
package arxiv
