// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MediaType is the detected format of a downloaded document.
type MediaType string

const (
	MediaPDF  MediaType = "application/pdf"
	MediaDOCX MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaDOC  MediaType = "application/msword"
)

// RawDocument is the unparsed body of a downloaded résumé.
type RawDocument struct {
	// URL is the address as given by the caller.
	URL string `json:"url" yaml:"url"`

	// DownloadURL is the address actually requested; share links are
	// rewritten to direct downloads.
	DownloadURL string `json:"download_url" yaml:"download_url"`

	// ContentType is the Content-Type header reported by the server.
	ContentType string `json:"content_type" yaml:"content_type"`

	// Filename comes from Content-Disposition, else the last URL path segment.
	Filename string `json:"filename" yaml:"filename"`

	// MediaType is resolved from the header, then the filename extension,
	// then the %PDF signature. Empty when nothing matched.
	MediaType MediaType `json:"media_type" yaml:"media_type"`

	// Data is the full response body.
	Data []byte `json:"-" yaml:"-"`

	// FetchedAt records when the download completed.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// ExtractedText is the plain text of a document, pages concatenated in order.
type ExtractedText struct {
	Text string `json:"text" yaml:"text"`

	// Pages is the number of pages visited.
	Pages int `json:"pages" yaml:"pages"`

	// EmptyPages counts pages that yielded no text.
	EmptyPages int `json:"empty_pages" yaml:"empty_pages"`
}

// FormattedText is the Markdown rendition returned by the model.
type FormattedText struct {
	Markdown string     `json:"markdown" yaml:"markdown"`
	Provider AIProvider `json:"provider" yaml:"provider"`
	Model    string     `json:"model" yaml:"model"`
}
