// Package challenge issues and verifies the SMS codes that gate visit
// persistence. Codes live in redis under a per-beneficiary key with a TTL;
// a successful verification consumes the code.
package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"impulso-backend/internal/adapter/sms"
	"impulso-backend/internal/domain/beneficiary"
	"impulso-backend/pkg/id"
)

const codeDigits = 4

// Compare-and-delete in a single redis round trip so two concurrent
// verifications of the same code cannot both succeed. A mismatch leaves the
// stored code untouched for further attempts.
var verifyScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

type Service struct {
	rdb           *redis.Client
	sender        sms.Sender
	beneficiaries beneficiary.Repository
	keyPrefix     string
	ttl           time.Duration
}

func NewService(rdb *redis.Client, sender sms.Sender, beneficiaries beneficiary.Repository, keyPrefix string, ttl time.Duration) *Service {
	return &Service{rdb: rdb, sender: sender, beneficiaries: beneficiaries, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *Service) key(beneficiaryID string) string {
	return s.keyPrefix + ":" + beneficiaryID
}

// Request generates a fresh code, stores it under the beneficiary's key and
// sends it to their registered phone. A previous unconsumed code is replaced.
func (s *Service) Request(ctx context.Context, beneficiaryID string) error {
	b, err := s.beneficiaries.GetByPublicID(ctx, beneficiaryID)
	if err != nil {
		return err
	}
	code := id.NewNumericCode(codeDigits)
	if err := s.rdb.Set(ctx, s.key(beneficiaryID), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing challenge code: %w", err)
	}
	msg := fmt.Sprintf("Su código de verificación Impulso es %s", code)
	if err := s.sender.Send(ctx, b.PhoneNumber, msg); err != nil {
		return fmt.Errorf("sending challenge code: %w", err)
	}
	return nil
}

// Verify compares the supplied code against the stored one. A match deletes
// the stored code atomically (single use). An expired, missing or mismatched
// code is a plain rejection, not an infrastructure error.
func (s *Service) Verify(ctx context.Context, beneficiaryID, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	n, err := verifyScript.Run(ctx, s.rdb, []string{s.key(beneficiaryID)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("verifying challenge code: %w", err)
	}
	return n == 1, nil
}
