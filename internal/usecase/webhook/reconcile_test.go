package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/testutil"
	webhookdto "github.com/staynest/auction-service/internal/usecase/dto/webhook"
)

type recordingReverser struct {
	mu    sync.Mutex
	Calls []string
	Err   error
}

func (r *recordingReverser) ReverseForPayment(_ context.Context, paymentID, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Calls = append(r.Calls, paymentID+"|"+note)
	return nil
}

type webhookFixture struct {
	store    *testutil.Store
	reverser *recordingReverser
	pub      *testutil.Publisher
	clock    *testutil.ManualClock
	uc       *DefaultWebhookUsecase
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	store := testutil.NewStore()
	reverser := &recordingReverser{}
	pub := &testutil.Publisher{}
	clock := testutil.NewManualClock(baseTime)
	uc := NewDefaultWebhookUsecase(store.ChargebackRepo(), store.PaymentRepo(), reverser,
		pub, testutil.Metrics(), clock, config.Webhooks{
			TimestampTolerance: 5 * time.Minute,
			Gateways: map[string]config.WebhookGateway{
				"stripeish": {Scheme: "timestamped", SignatureHeader: "X-Signature", Secret: "whsec_test"},
				"legacy":    {Scheme: "raw", SignatureHeader: "X-Webhook-Signature", Secret: "raw_secret"},
			},
		})
	return &webhookFixture{store: store, reverser: reverser, pub: pub, clock: clock, uc: uc}
}

func chargebackBody(t *testing.T, chargebackID, status string) []byte {
	t.Helper()
	body, err := json.Marshal(webhookdto.ChargebackPayload{
		ChargebackID: chargebackID,
		PaymentID:    "payment-1",
		DisputeID:    "dp-1",
		Status:       status,
		ReasonCode:   "fraudulent",
		Amount:       "140.00",
		Currency:     "BRL",
	})
	check.Nil(t, err)
	return body
}

func (f *webhookFixture) deliver(t *testing.T, chargebackID, status string) (*webhookdto.ProcessWebhookOutput, error) {
	t.Helper()
	body := chargebackBody(t, chargebackID, status)
	return f.uc.ProcessChargebackWebhook(context.Background(), &webhookdto.ProcessWebhookInput{
		Gateway:   "stripeish",
		Signature: signTimestamped("whsec_test", f.clock.Now(), body),
		Body:      body,
	})
}

func TestProcessWebhook_RecordsNewChargeback(t *testing.T) {
	f := newWebhookFixture(t)

	out, err := f.deliver(t, "cb-1", "needs_response")
	check.Nil(t, err)
	check.True(t, out.Created)
	check.False(t, out.Reversed)
	check.Equal(t, "needs_response", out.Status)
	check.Equal(t, 1, f.store.ChargebackCount())
	check.Equal(t, 1, f.pub.CountOf(domain.EventChargebackOpened))

	stored, gerr := f.store.GetChargebackByKey(context.Background(), "stripeish", "cb-1")
	check.Nil(t, gerr)
	check.Equal(t, domain.ChargebackNeedsResponse, stored.Status)
	check.Equal(t, "payment-1", stored.PaymentID)
}

func TestProcessWebhook_DuplicateDeliveryIsANoOp(t *testing.T) {
	f := newWebhookFixture(t)

	_, err := f.deliver(t, "cb-1", "needs_response")
	check.Nil(t, err)
	out, err := f.deliver(t, "cb-1", "needs_response")
	check.Nil(t, err)
	check.False(t, out.Created)
	check.Equal(t, 1, f.store.ChargebackCount())
	check.Equal(t, 1, f.pub.CountOf(domain.EventChargebackOpened))
}

func TestProcessWebhook_StatusOnlyMovesForward(t *testing.T) {
	f := newWebhookFixture(t)

	_, err := f.deliver(t, "cb-1", "lost")
	check.Nil(t, err)

	// An out-of-order earlier stage arrives late; the stored state stands.
	_, err = f.deliver(t, "cb-1", "under_review")
	check.Nil(t, err)

	stored, gerr := f.store.GetChargebackByKey(context.Background(), "stripeish", "cb-1")
	check.Nil(t, gerr)
	check.Equal(t, domain.ChargebackLost, stored.Status)
}

func TestProcessWebhook_LostChargebackReversesExactlyOnce(t *testing.T) {
	f := newWebhookFixture(t)

	_, err := f.deliver(t, "cb-1", "needs_response")
	check.Nil(t, err)

	out, err := f.deliver(t, "cb-1", "lost")
	check.Nil(t, err)
	check.True(t, out.Reversed)
	check.Equal(t, 1, len(f.reverser.Calls))
	check.Equal(t, "payment-1|chargeback cb-1 lost", f.reverser.Calls[0])
	check.Equal(t, 1, f.pub.CountOf(domain.EventChargebackClosed))

	// Redelivery of the terminal status must not refund twice.
	out, err = f.deliver(t, "cb-1", "lost")
	check.Nil(t, err)
	check.False(t, out.Reversed)
	check.Equal(t, 1, len(f.reverser.Calls))
	check.Equal(t, 1, f.pub.CountOf(domain.EventChargebackClosed))
}

func TestProcessWebhook_WonChargebackNeverReverses(t *testing.T) {
	f := newWebhookFixture(t)

	_, err := f.deliver(t, "cb-1", "under_review")
	check.Nil(t, err)
	out, err := f.deliver(t, "cb-1", "won")
	check.Nil(t, err)
	check.False(t, out.Reversed)
	check.Equal(t, 0, len(f.reverser.Calls))
	check.Equal(t, 1, f.pub.CountOf(domain.EventChargebackClosed))
}

func TestProcessWebhook_ReversalFailureKeepsTheRecord(t *testing.T) {
	f := newWebhookFixture(t)
	f.reverser.Err = errors.New("gateway unavailable")

	out, err := f.deliver(t, "cb-1", "charge_refunded")
	check.Nil(t, err)
	check.True(t, out.Created)
	check.False(t, out.Reversed)
	check.Equal(t, 1, f.store.ChargebackCount())
}

func TestProcessWebhook_UnknownGateway(t *testing.T) {
	f := newWebhookFixture(t)

	_, err := f.uc.ProcessChargebackWebhook(context.Background(), &webhookdto.ProcessWebhookInput{
		Gateway:   "nobody",
		Signature: "sig",
		Body:      []byte(`{}`),
	})
	check.True(t, errors.Is(err, domain.ErrUnknownGateway))
}

func TestProcessWebhook_RejectsBadSignatureBeforeParsing(t *testing.T) {
	f := newWebhookFixture(t)

	body := chargebackBody(t, "cb-1", "needs_response")
	_, err := f.uc.ProcessChargebackWebhook(context.Background(), &webhookdto.ProcessWebhookInput{
		Gateway:   "stripeish",
		Signature: signTimestamped("wrong_secret", f.clock.Now(), body),
		Body:      body,
	})
	check.True(t, errors.Is(err, domain.ErrSignatureInvalid))
	check.Equal(t, 0, f.store.ChargebackCount())
}

func TestProcessWebhook_RawSchemeGateway(t *testing.T) {
	f := newWebhookFixture(t)

	body := chargebackBody(t, "cb-raw", "needs_response")
	out, err := f.uc.ProcessChargebackWebhook(context.Background(), &webhookdto.ProcessWebhookInput{
		Gateway:   "legacy",
		Signature: signRaw("raw_secret", body),
		Body:      body,
	})
	check.Nil(t, err)
	check.True(t, out.Created)
}

func TestProcessWebhook_MalformedPayloads(t *testing.T) {
	f := newWebhookFixture(t)

	cases := []struct {
		name string
		body []byte
	}{
		{"not json", []byte(`not json at all`)},
		{"missing chargeback id", []byte(`{"payment_id":"p","status":"lost","amount":"1.00","currency":"BRL"}`)},
		{"missing payment id", []byte(`{"chargeback_id":"cb","status":"lost","amount":"1.00","currency":"BRL"}`)},
		{"unknown status", []byte(`{"chargeback_id":"cb","payment_id":"p","status":"vanished","amount":"1.00","currency":"BRL"}`)},
		{"bad amount", []byte(`{"chargeback_id":"cb","payment_id":"p","status":"lost","amount":"lots","currency":"BRL"}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.ProcessChargebackWebhook(context.Background(), &webhookdto.ProcessWebhookInput{
				Gateway:   "stripeish",
				Signature: signTimestamped("whsec_test", f.clock.Now(), tc.body),
				Body:      tc.body,
			})
			check.True(t, errors.Is(err, domain.ErrPayloadMalformed))
		})
	}
	check.Equal(t, 0, f.store.ChargebackCount())
}
