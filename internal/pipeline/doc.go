// Package pipeline prepares local documents for submission to the
// conversion service.
//
// The service renders whatever HTML it receives and cannot read the
// caller's disk, so this package turns a local source into one
// self-contained HTML string:
//   - Markdown preprocessing (line normalization, highlight syntax)
//   - Markdown to HTML conversion via Goldmark
//   - CSS injection into HTML documents
//   - Inlining of local images and stylesheets as data: URIs
//
// PDF rendering itself happens remotely; see the root pdfleaf package.
package pipeline
