package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
)

// verifySignature checks a delivery against the gateway's configured
// signing scheme. Verification runs over the raw body bytes exactly as
// received; any re-serialization would change the digest.
func (uc *DefaultWebhookUsecase) verifySignature(gateway config.WebhookGateway, signature string, body []byte, now time.Time) error {
	if signature == "" {
		return domain.ErrSignatureMissing
	}

	switch gateway.Scheme {
	case "timestamped":
		return verifyTimestamped(signature, body, gateway.Secret, uc.Webhooks.TimestampTolerance, now)
	case "raw":
		return verifyRaw(signature, body, gateway.Secret)
	default:
		return domain.ErrUnknownGateway
	}
}

// verifyTimestamped expects "t=<unix>,v1=<hex>" where the hex digest is
// HMAC-SHA256 of "<t>.<body>". Binding the timestamp into the digest keeps
// a captured delivery from being replayed outside the tolerance window.
func verifyTimestamped(signature string, body []byte, secret string, tolerance time.Duration, now time.Time) error {
	var timestampPart, digestPart string
	for _, part := range strings.Split(signature, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "t="):
			timestampPart = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v1="):
			digestPart = strings.TrimPrefix(part, "v1=")
		}
	}
	if timestampPart == "" || digestPart == "" {
		return domain.ErrSignatureInvalid
	}

	unix, err := strconv.ParseInt(timestampPart, 10, 64)
	if err != nil {
		return domain.ErrSignatureInvalid
	}

	signed := make([]byte, 0, len(timestampPart)+1+len(body))
	signed = append(signed, timestampPart...)
	signed = append(signed, '.')
	signed = append(signed, body...)
	if !digestMatches(digestPart, signed, secret) {
		return domain.ErrSignatureInvalid
	}

	// Age is checked only after the digest passes, so an attacker cannot
	// probe the tolerance with unsigned payloads.
	signedAt := time.Unix(unix, 0)
	age := now.Sub(signedAt)
	if age < 0 {
		age = -age
	}
	if age > tolerance {
		return domain.ErrTimestampExpired
	}
	return nil
}

// verifyRaw expects a bare hex HMAC-SHA256 of the body.
func verifyRaw(signature string, body []byte, secret string) error {
	if !digestMatches(signature, body, secret) {
		return domain.ErrSignatureInvalid
	}
	return nil
}

func digestMatches(providedHex string, signed []byte, secret string) bool {
	provided, err := hex.DecodeString(strings.TrimSpace(providedHex))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(signed)
	return hmac.Equal(provided, mac.Sum(nil))
}
