package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"call_ended"}`)

	if !VerifySignature("secret", body, signBody("secret", body)) {
		t.Fatalf("matching signature rejected")
	}
	if VerifySignature("secret", body, signBody("other", body)) {
		t.Fatalf("wrong key accepted")
	}
	if VerifySignature("secret", []byte(`tampered`), signBody("secret", body)) {
		t.Fatalf("tampered body accepted")
	}
	if VerifySignature("secret", body, "") {
		t.Fatalf("empty signature accepted")
	}
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatalf("secrets must be unique")
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("secret is not hex: %v", err)
	}
}
