package challenge

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	domain "impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/testutil/beneficiarymock"
)

type senderMock struct {
	SendFn func(ctx context.Context, phone, message string) error

	phone   string
	message string
	sends   int
}

func (m *senderMock) Send(ctx context.Context, phone, message string) error {
	m.sends++
	m.phone, m.message = phone, message
	if m.SendFn != nil {
		return m.SendFn(ctx, phone, message)
	}
	return nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *Service, *senderMock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sender := &senderMock{}
	repo := &beneficiarymock.Repo{
		GetByPublicIDFn: func(_ context.Context, id string) (*domain.Beneficiary, error) {
			if id != "b-1" {
				return nil, domain.ErrNotFound
			}
			return &domain.Beneficiary{BeneficiaryID: "b-1", PhoneNumber: "3001234567"}, nil
		},
	}
	svc := NewService(rdb, sender, repo, "impulso:sms-code", 5*time.Minute)
	return mr, svc, sender
}

func TestService_RequestStoresAndSends(t *testing.T) {
	mr, svc, sender := setup(t)

	if err := svc.Request(context.Background(), "b-1"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if sender.sends != 1 || sender.phone != "3001234567" {
		t.Fatalf("send = %d to %q", sender.sends, sender.phone)
	}

	code, err := mr.Get("impulso:sms-code:b-1")
	if err != nil {
		t.Fatalf("stored code: %v", err)
	}
	if len(code) != 4 {
		t.Fatalf("code %q, want 4 digits", code)
	}
	if !strings.Contains(sender.message, code) {
		t.Fatalf("message %q does not carry the code %q", sender.message, code)
	}

	ttl := mr.TTL("impulso:sms-code:b-1")
	if ttl <= 0 || ttl > 5*time.Minute {
		t.Fatalf("code TTL = %v", ttl)
	}
}

func TestService_RequestUnknownBeneficiary(t *testing.T) {
	_, svc, sender := setup(t)

	if err := svc.Request(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown beneficiary")
	}
	if sender.sends != 0 {
		t.Fatalf("sends = %d, want 0", sender.sends)
	}
}

func TestService_RequestReplacesPreviousCode(t *testing.T) {
	mr, svc, _ := setup(t)

	if err := svc.Request(context.Background(), "b-1"); err != nil {
		t.Fatalf("Request 1: %v", err)
	}
	first, _ := mr.Get("impulso:sms-code:b-1")

	// a collision on a 4-digit code is possible once; retry until it differs
	for i := 0; i < 20; i++ {
		if err := svc.Request(context.Background(), "b-1"); err != nil {
			t.Fatalf("Request %d: %v", i+2, err)
		}
		if cur, _ := mr.Get("impulso:sms-code:b-1"); cur != first {
			return
		}
	}
	t.Fatal("stored code never changed across re-requests")
}

func TestService_VerifyConsumesCode(t *testing.T) {
	mr, svc, _ := setup(t)

	if err := svc.Request(context.Background(), "b-1"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	code, _ := mr.Get("impulso:sms-code:b-1")

	ok, err := svc.Verify(context.Background(), "b-1", code)
	if err != nil || !ok {
		t.Fatalf("Verify = %v, %v", ok, err)
	}

	// single use: the same code no longer matches
	ok, err = svc.Verify(context.Background(), "b-1", code)
	if err != nil || ok {
		t.Fatalf("second Verify = %v, %v; want rejection", ok, err)
	}
}

func TestService_VerifyConcurrentSingleUse(t *testing.T) {
	mr, svc, _ := setup(t)

	if err := svc.Request(context.Background(), "b-1"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	code, _ := mr.Get("impulso:sms-code:b-1")

	const callers = 4
	oks := make([]bool, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			ok, err := svc.Verify(context.Background(), "b-1", code)
			if err != nil {
				t.Errorf("Verify: %v", err)
			}
			oks[i] = ok
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, ok := range oks {
		if ok {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d verifications succeeded, want exactly 1", succeeded)
	}
}

func TestService_VerifyWrongMissingExpired(t *testing.T) {
	mr, svc, _ := setup(t)

	// missing key is a rejection, not an error
	ok, err := svc.Verify(context.Background(), "b-1", "1234")
	if err != nil || ok {
		t.Fatalf("missing code => %v, %v", ok, err)
	}

	if err := svc.Request(context.Background(), "b-1"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	code, _ := mr.Get("impulso:sms-code:b-1")

	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}
	ok, err = svc.Verify(context.Background(), "b-1", wrong)
	if err != nil || ok {
		t.Fatalf("wrong code => %v, %v", ok, err)
	}
	// a rejection must not consume the stored code
	if ok, err := svc.Verify(context.Background(), "b-1", code); err != nil || !ok {
		t.Fatalf("right code after miss => %v, %v", ok, err)
	}

	// expired code
	if err := svc.Request(context.Background(), "b-1"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	code, _ = mr.Get("impulso:sms-code:b-1")
	mr.FastForward(6 * time.Minute)
	ok, err = svc.Verify(context.Background(), "b-1", code)
	if err != nil || ok {
		t.Fatalf("expired code => %v, %v", ok, err)
	}
}

func TestService_VerifyEmptyCode(t *testing.T) {
	_, svc, _ := setup(t)
	if err := svc.Request(context.Background(), "b-1"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	ok, err := svc.Verify(context.Background(), "b-1", "")
	if err != nil || ok {
		t.Fatalf("empty code => %v, %v", ok, err)
	}
}
