package token

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// mint signs a token with the given claims. The key is irrelevant to the
// client, which never verifies signatures.
func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return tok
}

func TestIsExpired_AbsentAndMalformed(t *testing.T) {
	now := time.Now()
	for _, raw := range []string{
		"",
		"not-a-valid-token",
		"a.b",
		"a.!!!.c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte("123")) + ".c",
	} {
		if !IsExpired(raw, now) {
			t.Errorf("IsExpired(%q) = false, want true", raw)
		}
	}
}

func TestIsExpired_MissingExpIsExpired(t *testing.T) {
	raw := mint(t, jwt.MapClaims{"sub": "user@example.com"})
	if !IsExpired(raw, time.Now()) {
		t.Error("token without exp should be treated as expired")
	}
	if _, err := Decode(raw); !errors.Is(err, ErrNoExpiry) {
		t.Errorf("Decode error = %v, want ErrNoExpiry", err)
	}
}

func TestIsExpired_Boundary(t *testing.T) {
	exp := int64(1_800_000_000)
	raw := mint(t, jwt.MapClaims{"sub": "user@example.com", "exp": exp})
	at := time.Unix(exp, 0)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second before", at.Add(-time.Second), false},
		{"one millisecond before", at.Add(-time.Millisecond), false},
		{"exactly at exp", at, false},
		{"sub-millisecond after", at.Add(500 * time.Microsecond), false},
		{"one millisecond after", at.Add(time.Millisecond), true},
		{"one second after", at.Add(time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpired(raw, tt.now); got != tt.want {
				t.Errorf("IsExpired at %v = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestIsExpired_FractionalExp(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp": 1800000000.5}`))
	raw := "h." + payload + ".s"

	tests := []struct {
		nowMillis int64
		want      bool
	}{
		{1_800_000_000_200, false},
		{1_800_000_000_500, false},
		{1_800_000_000_501, true},
	}
	for _, tt := range tests {
		if got := IsExpired(raw, time.UnixMilli(tt.nowMillis)); got != tt.want {
			t.Errorf("IsExpired at %d ms = %v, want %v", tt.nowMillis, got, tt.want)
		}
	}

	claims, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got := claims.ExpiresAt.UnixMilli(); got != 1_800_000_000_500 {
		t.Errorf("ExpiresAt = %d ms, want 1800000000500", got)
	}
}

func TestDecode_NonNumericExp(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp": "tomorrow"}`))
	if _, err := Decode("h." + payload + ".s"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode = %v, want ErrMalformed", err)
	}
}

func TestCheck_ReportsReason(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	expired := mint(t, jwt.MapClaims{"exp": now.Add(-time.Second).Unix()})
	if err := Check(expired, now); !errors.Is(err, ErrExpired) {
		t.Errorf("Check(expired) = %v, want ErrExpired", err)
	}
	if err := Check("garbage", now); !errors.Is(err, ErrMalformed) {
		t.Errorf("Check(garbage) = %v, want ErrMalformed", err)
	}
	valid := mint(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	if err := Check(valid, now); err != nil {
		t.Errorf("Check(valid) = %v, want nil", err)
	}
}

func TestDecode_Claims(t *testing.T) {
	exp := time.Unix(1_750_000_000, 0)
	raw := mint(t, jwt.MapClaims{"sub": "ada@example.com", "exp": exp.Unix()})
	claims, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Subject != "ada@example.com" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestDecode_IgnoresHeaderAndSignature(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp": 4102444800}`))
	raw := "not-a-header." + payload + ".not-a-signature"
	if IsExpired(raw, time.Unix(1_700_000_000, 0)) {
		t.Error("only the payload segment should be decoded")
	}
}
