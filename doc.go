// Package pdfleaf is a client for the PDF Leaf HTML-to-PDF conversion API.
//
// # Quick Start
//
// Create a client and convert HTML in one call:
//
//	client, err := pdfleaf.NewClient("pk_live_...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pdf, err := client.Convert(ctx, "<h1>Hello</h1>", &pdfleaf.PDFOptions{
//	    PageSize:    pdfleaf.PageSizeLetter,
//	    Orientation: pdfleaf.OrientationLandscape,
//	    MarginTop:   "1in",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", pdf, 0644)
//
// # Job Lifecycle
//
// Convert composes three calls, each available on its own for callers that
// report progress or manage jobs themselves:
//
//  1. Submit creates a job (POST /api/v1/convert) and returns its id.
//  2. GetStatus reads the job state (GET /api/v1/jobs/{id}).
//     WaitForCompletion polls it until the job is completed or failed.
//  3. Download fetches the PDF (GET /api/v1/jobs/{id}/download).
//
// Jobs move pending -> processing -> completed|failed on the server. The
// client only observes; it never retries a failed request on its own.
//
// # Errors
//
// Every network call returns *Error on failure. Status is 0 for transport
// failures, the HTTP status for server errors, and 408 (wrapping
// ErrWaitTimeout) when WaitForCompletion gives up:
//
//	var apiErr *pdfleaf.Error
//	if errors.As(err, &apiErr) && apiErr.Status == 429 {
//	    // back off
//	}
//
// # Configuration
//
// Use functional options to customize the client:
//
//	client, err := pdfleaf.NewClient(key,
//	    pdfleaf.WithBaseURL("https://pdf.example.com"),
//	    pdfleaf.WithTimeout(10*time.Second),
//	    pdfleaf.WithMaxWait(2*time.Minute),
//	    pdfleaf.WithLogger(logger),
//	)
//
// Each request runs under its own timeout; WaitForCompletion bounds the
// whole poll loop separately by wall-clock time.
//
// # Webhooks
//
// CreateWebhook, ListWebhooks and DeleteWebhook manage registrations.
// Deliveries are verified with the webhook subpackage.
package pdfleaf
