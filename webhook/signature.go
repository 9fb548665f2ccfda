package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strings"
)

// Header names set by the service on every delivery.
const (
	SignatureHeader = "X-PDFLeaf-Signature"
	EventHeader     = "X-PDFLeaf-Event"
	DeliveryHeader  = "X-PDFLeaf-Delivery"
)

// SignaturePrefix precedes the hex digest in SignatureHeader.
const SignaturePrefix = "sha256="

// Sign returns the SignatureHeader value the service would send for payload:
// "sha256=" followed by the lowercase hex HMAC-SHA256 of payload keyed by
// secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is a valid SignatureHeader value for the
// raw payload bytes under secret. Pass the body exactly as received: a
// re-encoded body can differ byte for byte and will not verify.
//
// A value without the "sha256=" prefix is rejected before any HMAC is
// computed. Digests are compared in constant time. Verify never panics;
// every failure is false.
func Verify(payload []byte, signature, secret string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	provided, found := strings.CutPrefix(signature, SignaturePrefix)
	if !found {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	if _, err := mac.Write(payload); err != nil {
		return false
	}
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(provided), []byte(expected))
}

// VerifyAsync is the asynchronous form of Verify, for callers that already
// run their crypto off the request goroutine. The returned channel yields
// exactly one value and is then closed. If ctx is done before the digest is
// ready the result is false.
//
// The digest and comparison run through a separate code path from Verify;
// both must reach the same decision for every input.
func VerifyAsync(ctx context.Context, payload []byte, signature, secret string) <-chan bool {
	out := make(chan bool, 1)

	provided, found := strings.CutPrefix(signature, SignaturePrefix)
	if !found {
		out <- false
		close(out)
		return out
	}

	digest := make(chan []byte, 1)
	go func() {
		defer close(digest)
		defer func() {
			_ = recover()
		}()
		digest <- streamHMAC(sha256.New, []byte(secret), payload)
	}()

	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
			out <- false
		case sum, ok := <-digest:
			out <- ok && sum != nil && constantTimeHexEqual(provided, sum)
		}
	}()

	return out
}

// hmacChunkSize bounds each write into the MAC in streamHMAC.
const hmacChunkSize = 32 << 10

// streamHMAC computes the MAC by feeding the payload in chunks.
func streamHMAC(h func() hash.Hash, key, payload []byte) []byte {
	mac := hmac.New(h, key)
	for len(payload) > 0 {
		n := min(len(payload), hmacChunkSize)
		if _, err := mac.Write(payload[:n]); err != nil {
			return nil
		}
		payload = payload[n:]
	}
	return mac.Sum(nil)
}

// constantTimeHexEqual compares provided against the lowercase hex encoding
// of sum without early exit on the first differing byte.
func constantTimeHexEqual(provided string, sum []byte) bool {
	const digits = "0123456789abcdef"

	expected := make([]byte, len(sum)*2)
	for i, b := range sum {
		expected[i*2] = digits[b>>4]
		expected[i*2+1] = digits[b&0x0f]
	}

	if len(provided) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), expected) == 1
}
