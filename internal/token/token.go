// Package token decodes the claims embedded in bearer tokens issued by the
// task API. Decoding does not verify the signature: the result only gates
// what the client shows, and the server re-validates every request.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the token cannot be split or decoded.
	ErrMalformed = errors.New("malformed token")
	// ErrNoExpiry is returned when the payload carries no exp claim.
	ErrNoExpiry = errors.New("token has no exp claim")
	// ErrExpired is returned by Check when the exp instant has passed.
	ErrExpired = errors.New("token has expired")
)

var parser = jwt.NewParser()

// Claims is the subset of the payload the client cares about
type Claims struct {
	Subject   string
	ExpiresAt time.Time

	expMillis int64
}

// Decode parses the payload segment of raw. Only the second of the three
// dot-separated segments is read.
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var mc jwt.MapClaims
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	expMillis, err := expiryMillis(mc)
	if err != nil {
		return nil, err
	}

	sub, _ := mc.GetSubject()
	return &Claims{
		Subject:   sub,
		ExpiresAt: time.UnixMilli(expMillis),
		expMillis: expMillis,
	}, nil
}

// expiryMillis returns floor(exp*1000). Compared with an integer now in
// milliseconds it gives the same answer as exp*1000 < now.
func expiryMillis(mc jwt.MapClaims) (int64, error) {
	v, ok := mc["exp"]
	if !ok || v == nil {
		return 0, ErrNoExpiry
	}
	var exp float64
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: exp: %v", ErrMalformed, err)
		}
		exp = f
	case float64:
		exp = n
	default:
		return 0, fmt.Errorf("%w: exp is %T", ErrMalformed, v)
	}
	ms := math.Floor(exp * 1000)
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms > math.MaxInt64 || ms < math.MinInt64 {
		return 0, fmt.Errorf("%w: exp out of range", ErrMalformed)
	}
	return int64(ms), nil
}

// Check returns nil when raw decodes and its expiry is not before now.
// The rule is exp*1000 < now in milliseconds; an exp equal to now is
// still valid.
func Check(raw string, now time.Time) error {
	if raw == "" {
		return ErrMalformed
	}
	claims, err := Decode(raw)
	if err != nil {
		return err
	}
	if claims.expMillis < now.UnixMilli() {
		return ErrExpired
	}
	return nil
}

// IsExpired reports whether raw must be treated as expired at now.
// Any decode failure counts as expired.
func IsExpired(raw string, now time.Time) bool {
	return Check(raw, now) != nil
}
