package pdfleaf

import (
	"fmt"
)

// JobState is the server-side state of a conversion job.
// Progression is pending -> processing -> completed|failed.
type JobState string

// Job states.
const (
	StatePending    JobState = "pending"
	StateProcessing JobState = "processing"
	StateCompleted  JobState = "completed"
	StateFailed     JobState = "failed"
)

// IsTerminal reports whether no further transitions can occur.
func (s JobState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// JobStatus is the read-only view of a job returned by GetStatus.
type JobStatus struct {
	Status JobState `json:"status"`
	Size   *int64   `json:"size,omitempty"`  // PDF size in bytes, set when completed
	Error  string   `json:"error,omitempty"` // set when failed
}

// Quota reports account usage at submission time.
type Quota struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// RateLimit reports the request window at submission time.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// ConversionResponse is returned by Submit. Quota and RateLimit are passed
// through uninterpreted and are nil when the server omits them.
type ConversionResponse struct {
	JobID     string     `json:"job_id"`
	Status    JobState   `json:"status"`
	Quota     *Quota     `json:"quota,omitempty"`
	RateLimit *RateLimit `json:"rate_limit,omitempty"`
}

// PageSize is a paper format understood by the conversion service.
type PageSize string

// Page sizes.
const (
	PageSizeA4     PageSize = "A4"
	PageSizeLetter PageSize = "Letter"
	PageSizeA3     PageSize = "A3"
	PageSizeA5     PageSize = "A5"
	PageSizeLegal  PageSize = "Legal"
)

// Orientation of the rendered page.
type Orientation string

// Orientations.
const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PDFOptions configures rendering. All fields are optional: zero values are
// left out of the request so server defaults apply. Margin, height, and page
// list strings are passed through as-is ("2cm", "1in", "1,2,3").
type PDFOptions struct {
	PageSize    PageSize
	Orientation Orientation

	MarginTop    string
	MarginBottom string
	MarginLeft   string
	MarginRight  string

	// IncludePageNumbers is a pointer so that an explicit false is sent
	// while nil leaves the server default. See Bool.
	IncludePageNumbers *bool

	HeaderHTML         string
	FooterHTML         string
	HeaderHeight       string
	FooterHeight       string
	ExcludeHeaderPages string // comma-separated page numbers, e.g. "1,2"
	ExcludeFooterPages string
}

// Bool returns a pointer to v, for PDFOptions.IncludePageNumbers.
func Bool(v bool) *bool {
	return &v
}

// Validate checks the enumerated fields.
// Returns nil if o is nil (nil means server defaults).
func (o *PDFOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.PageSize != "" && !isValidPageSize(o.PageSize) {
		return fmt.Errorf("%w: %q (must be A4, Letter, A3, A5, or Legal)", ErrInvalidPageSize, o.PageSize)
	}
	if o.Orientation != "" && !isValidOrientation(o.Orientation) {
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, o.Orientation)
	}
	return nil
}

func isValidPageSize(size PageSize) bool {
	switch size {
	case PageSizeA4, PageSizeLetter, PageSizeA3, PageSizeA5, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(o Orientation) bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// convertRequest is the wire body of POST /api/v1/convert.
// Every optional field carries omitempty: absent means "server default",
// never null.
type convertRequest struct {
	HTMLContent        string `json:"html_content"`
	Action             string `json:"action"`
	PageSize           string `json:"page_size,omitempty"`
	Orientation        string `json:"orientation,omitempty"`
	MarginTop          string `json:"margin_top,omitempty"`
	MarginBottom       string `json:"margin_bottom,omitempty"`
	MarginLeft         string `json:"margin_left,omitempty"`
	MarginRight        string `json:"margin_right,omitempty"`
	IncludePageNumbers *bool  `json:"include_page_numbers,omitempty"`
	HeaderHTML         string `json:"header_html,omitempty"`
	FooterHTML         string `json:"footer_html,omitempty"`
	HeaderHeight       string `json:"header_height,omitempty"`
	FooterHeight       string `json:"footer_height,omitempty"`
	ExcludeHeaderPages string `json:"exclude_header_pages,omitempty"`
	ExcludeFooterPages string `json:"exclude_footer_pages,omitempty"`
}

// actionDownload asks the service to keep the result for later download.
const actionDownload = "download"

func newConvertRequest(html string, o *PDFOptions) convertRequest {
	req := convertRequest{
		HTMLContent: html,
		Action:      actionDownload,
	}
	if o == nil {
		return req
	}
	req.PageSize = string(o.PageSize)
	req.Orientation = string(o.Orientation)
	req.MarginTop = o.MarginTop
	req.MarginBottom = o.MarginBottom
	req.MarginLeft = o.MarginLeft
	req.MarginRight = o.MarginRight
	req.IncludePageNumbers = o.IncludePageNumbers
	req.HeaderHTML = o.HeaderHTML
	req.FooterHTML = o.FooterHTML
	req.HeaderHeight = o.HeaderHeight
	req.FooterHeight = o.FooterHeight
	req.ExcludeHeaderPages = o.ExcludeHeaderPages
	req.ExcludeFooterPages = o.ExcludeFooterPages
	return req
}
