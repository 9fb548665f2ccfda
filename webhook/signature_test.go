package webhook

// Notes:
// - Reference digests were computed independently of this package
//   (openssl dgst -sha256 -hmac) so Sign is not checked against itself
// - Every rejection case is run through both Verify and VerifyAsync; the two
//   must agree on all inputs

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

const testSecret = "whsec_test"

// ---------------------------------------------------------------------------
// TestSign
// ---------------------------------------------------------------------------

func TestSign_KnownVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		secret  string
		want    string
	}{
		{
			// RFC 4231 test case 2.
			name:    "rfc4231 case 2",
			payload: "what do ya want for nothing?",
			secret:  "Jefe",
			want:    "sha256=5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		},
		{
			name:    "empty payload and key",
			payload: "",
			secret:  "",
			want:    "sha256=b613679a0814d9ec772f95d778c35fc5ff1697c493715653c6c712144292c5ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Sign([]byte(tt.payload), tt.secret); got != tt.want {
				t.Errorf("Sign() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSign_Format(t *testing.T) {
	t.Parallel()

	sig := Sign([]byte(`{"event":"job.completed"}`), testSecret)
	hexPart, ok := strings.CutPrefix(sig, SignaturePrefix)
	if !ok {
		t.Fatalf("Sign() = %q, missing prefix", sig)
	}
	if len(hexPart) != 64 {
		t.Errorf("digest length = %d, want 64", len(hexPart))
	}
	if hexPart != strings.ToLower(hexPart) {
		t.Errorf("digest %q is not lowercase", hexPart)
	}
}

// ---------------------------------------------------------------------------
// TestVerify - Acceptance and rejection
// ---------------------------------------------------------------------------

type verifyCase struct {
	name      string
	payload   []byte
	signature string
	secret    string
	want      bool
}

func verifyCases() []verifyCase {
	payload := []byte(`{"data":{"size":2048,"status":"completed"},"event":"job.completed","job_id":"job-1","timestamp":"2024-01-01T00:00:00Z"}`)
	good := Sign(payload, testSecret)
	digest := strings.TrimPrefix(good, SignaturePrefix)

	mutated := bytes.Clone(payload)
	mutated[10] ^= 0x01

	flipped := []byte(digest)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}

	large := bytes.Repeat([]byte("x"), 3*hmacChunkSize+17)

	return []verifyCase{
		{"valid", payload, good, testSecret, true},
		{"valid large payload", large, Sign(large, testSecret), testSecret, true},
		{"valid empty payload", nil, Sign(nil, testSecret), testSecret, true},
		{"missing prefix", payload, digest, testSecret, false},
		{"wrong prefix", payload, "sha1=" + digest, testSecret, false},
		{"uppercase prefix", payload, "SHA256=" + digest, testSecret, false},
		{"empty signature", payload, "", testSecret, false},
		{"prefix only", payload, SignaturePrefix, testSecret, false},
		{"mutated payload", mutated, good, testSecret, false},
		{"wrong secret", payload, good, "whsec_other", false},
		{"empty secret", payload, good, "", false},
		{"truncated digest", payload, good[:len(good)-2], testSecret, false},
		{"extended digest", payload, good + "00", testSecret, false},
		{"flipped digest char", payload, SignaturePrefix + string(flipped), testSecret, false},
		{"uppercase digest", payload, SignaturePrefix + strings.ToUpper(digest), testSecret, false},
		{"non-hex digest", payload, SignaturePrefix + strings.Repeat("z", 64), testSecret, false},
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	for _, tt := range verifyCases() {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Verify(tt.payload, tt.signature, tt.secret); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyAsync(t *testing.T) {
	t.Parallel()

	for _, tt := range verifyCases() {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := <-VerifyAsync(context.Background(), tt.payload, tt.signature, tt.secret)
			if got != tt.want {
				t.Errorf("VerifyAsync() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerify_SyncAsyncAgree(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		nil,
		[]byte("{}"),
		[]byte(`{"event":"job.failed","job_id":"j","data":{"status":"failed","error":"boom"}}`),
		bytes.Repeat([]byte{0xff, 0x00}, hmacChunkSize),
	}
	secrets := []string{"", "s", testSecret, strings.Repeat("k", 200)}

	for _, p := range payloads {
		for _, secret := range secrets {
			for _, sig := range []string{Sign(p, secret), Sign(p, secret+"x"), "garbage"} {
				sync := Verify(p, sig, secret)
				async := <-VerifyAsync(context.Background(), p, sig, secret)
				if sync != async {
					t.Errorf("len(payload)=%d secret=%q sig=%q: Verify=%v VerifyAsync=%v",
						len(p), secret, sig, sync, async)
				}
			}
		}
	}
}

func TestVerifyAsync_ChannelClosedAfterResult(t *testing.T) {
	t.Parallel()

	ch := VerifyAsync(context.Background(), []byte("x"), Sign([]byte("x"), testSecret), testSecret)
	if !<-ch {
		t.Fatal("first value = false, want true")
	}
	select {
	case _, open := <-ch:
		if open {
			t.Error("channel yielded a second value")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after result")
	}
}

func TestVerifyAsync_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context can only ever turn a result into false.
	payload := []byte("x")
	if got := <-VerifyAsync(ctx, payload, "bad", testSecret); got {
		t.Error("VerifyAsync() = true for bad signature")
	}
}

// ---------------------------------------------------------------------------
// TestConstantTimeHexEqual
// ---------------------------------------------------------------------------

func TestConstantTimeHexEqual(t *testing.T) {
	t.Parallel()

	sum := []byte{0x00, 0x0f, 0xa0, 0xff}

	tests := []struct {
		provided string
		want     bool
	}{
		{"000fa0ff", true},
		{"000FA0FF", false},
		{"000fa0f", false},
		{"000fa0ff0", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := constantTimeHexEqual(tt.provided, sum); got != tt.want {
			t.Errorf("constantTimeHexEqual(%q) = %v, want %v", tt.provided, got, tt.want)
		}
	}
}
