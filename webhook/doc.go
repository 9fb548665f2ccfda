// Package webhook verifies and decodes job notifications delivered by the
// PDF Leaf service.
//
// Every delivery carries an X-PDFLeaf-Signature header of the form
// "sha256=<hex>", the HMAC-SHA256 of the raw request body keyed by the
// secret returned when the webhook was created. Verify the raw bytes before
// trusting any field:
//
//	body, _ := io.ReadAll(r.Body)
//	if !webhook.Verify(body, r.Header.Get(webhook.SignatureHeader), secret) {
//	    w.WriteHeader(http.StatusUnauthorized)
//	    return
//	}
//	payload, err := webhook.Parse(body)
//
// VerifyAsync offers the same decision through a channel. Handler wraps the
// whole sequence as an http.Handler.
//
// The package does not depend on the API client.
package webhook
