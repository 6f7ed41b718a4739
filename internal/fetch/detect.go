// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/pdiddy/resume-md/pkg/types"
)

const driveHost = "drive.google.com"

// driveFilePath matches Drive share links: /file/d/{id}/view, /file/d/{id}/edit, ...
var driveFilePath = regexp.MustCompile(`^/file/d/([^/]+)`)

// normalizeURL rewrites Google Drive share links to their direct-download
// form. Any other URL, including one that does not parse, is returned
// unchanged.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !strings.EqualFold(u.Hostname(), driveHost) {
		return rawURL
	}
	m := driveFilePath.FindStringSubmatch(u.Path)
	if m == nil {
		return rawURL
	}
	q := url.Values{}
	q.Set("export", "download")
	q.Set("id", m[1])
	return (&url.URL{Scheme: "https", Host: driveHost, Path: "/uc", RawQuery: q.Encode()}).String()
}

// filename returns the Content-Disposition filename, falling back to the
// last path segment of rawURL.
func filename(disposition, rawURL string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				return path.Base(strings.ReplaceAll(name, `\`, "/"))
			}
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return ""
}

var pdfSignature = []byte("%PDF")

// detectMediaType resolves the document format from the Content-Type header,
// then the filename extension, then the %PDF signature. The last two apply
// only when the header is missing or generic. The result is empty or the
// bare header type when nothing is recognised.
func detectMediaType(contentType, name string, data []byte) types.MediaType {
	mt := ""
	if contentType != "" {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			mt = strings.ToLower(parsed)
		}
	}
	if mt != "" && !genericType(mt) {
		return types.MediaType(mt)
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return types.MediaPDF
	case ".docx":
		return types.MediaDOCX
	case ".doc":
		return types.MediaDOC
	}
	if bytes.HasPrefix(data, pdfSignature) {
		return types.MediaPDF
	}
	return types.MediaType(mt)
}

func genericType(mt string) bool {
	switch mt {
	case "application/octet-stream", "binary/octet-stream", "application/download", "application/force-download":
		return true
	}
	return false
}
