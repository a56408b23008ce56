package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/testutil"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type splitFixture struct {
	store   *testutil.Store
	gateway *testutil.Gateway
	pub     *testutil.Publisher
	clock   *testutil.ManualClock
	uc      *DefaultSplitUsecase
}

func newSplitFixture(t *testing.T) *splitFixture {
	t.Helper()
	store := testutil.NewStore()
	gateway := &testutil.Gateway{}
	pub := &testutil.Publisher{}
	clock := testutil.NewManualClock(baseTime)
	uc := NewDefaultSplitUsecase(store, store.PaymentRepo(), store, gateway, pub,
		testutil.Metrics(), clock, config.Payments{
			Window:             5 * time.Minute,
			DefaultCurrency:    "BRL",
			PlatformFeePercent: 10,
			SplitMaxRetries:    3,
			SplitBackoffBase:   30 * time.Second,
		})
	return &splitFixture{store: store, gateway: gateway, pub: pub, clock: clock, uc: uc}
}

// seedCapturedPayment installs a captured 1000.00 payment for auction-1.
func (f *splitFixture) seedCapturedPayment(t *testing.T) *domain.Payment {
	t.Helper()
	f.store.AddAuction(&domain.Auction{
		ID:        "auction-1",
		ListingID: "listing-1",
		HostID:    "host-1",
		Currency:  "BRL",
		Status:    domain.AuctionEnded,
	})
	capturedAt := baseTime
	payment := &domain.Payment{
		ID:               "payment-1",
		AuctionID:        "auction-1",
		PayerID:          "bidder-a",
		Amount:           decimal.NewFromInt(1000),
		Currency:         "BRL",
		Status:           domain.PaymentCaptured,
		GatewayPaymentID: "gwpay-1",
		CapturedAt:       &capturedAt,
	}
	f.store.AddPayment(payment)
	return payment
}

func (f *splitFixture) addConfig(position int, recipientID string, rt domain.RecipientType, st domain.SplitType, value int64) {
	f.store.AddSplitConfig(&domain.SplitConfig{
		ID:            recipientID + "-cfg",
		AuctionID:     "auction-1",
		RecipientID:   recipientID,
		RecipientType: rt,
		SplitType:     st,
		Value:         decimal.NewFromInt(value),
		Position:      position,
	})
}

func splitByRecipient(splits []*domain.PaymentSplit, recipientID string) *domain.PaymentSplit {
	for _, s := range splits {
		if s.RecipientID == recipientID {
			return s
		}
	}
	return nil
}

func TestDisburse_FeeThenFixedThenPercent(t *testing.T) {
	f := newSplitFixture(t)
	f.seedCapturedPayment(t)
	f.addConfig(0, "agent-1", domain.RecipientAgent, domain.SplitFixedAmount, 50)
	f.addConfig(1, "host-1", domain.RecipientHost, domain.SplitPercentage, 80)
	f.addConfig(2, "platform", domain.RecipientPlatform, domain.SplitPercentage, 20)

	err := f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.Nil(t, err)

	splits, serr := f.store.ForPayment(context.Background(), "payment-1")
	check.Nil(t, serr)
	check.Equal(t, 3, len(splits))

	// 1000 - 10% fee = 900; agent takes 50 off; host gets 80% of 850 = 680,
	// platform 20% = 170 plus the 100 fee = 270. Rows sum to the capture.
	check.Equal(t, "50.00", splitByRecipient(splits, "agent-1").Amount.StringFixed(2))
	check.Equal(t, "680.00", splitByRecipient(splits, "host-1").Amount.StringFixed(2))
	platform := splitByRecipient(splits, "platform")
	check.Equal(t, "270.00", platform.Amount.StringFixed(2))
	check.Equal(t, "100.00", platform.FeeAmount.StringFixed(2))

	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Amount)
		check.Equal(t, domain.SplitCompleted, s.Status)
		check.Equal(t, "split:payment-1:"+s.RecipientID, s.IdempotencyKey)
	}
	check.Equal(t, "1000.00", total.StringFixed(2))
	check.Equal(t, 3, len(f.gateway.Transfers()))
	check.Equal(t, 3, f.pub.CountOf(domain.EventSplitCompleted))
}

func TestDisburse_ResidueFallsToHostWithoutPlatformRow(t *testing.T) {
	f := newSplitFixture(t)
	f.seedCapturedPayment(t)
	f.addConfig(0, "host-1", domain.RecipientHost, domain.SplitPercentage, 100)

	err := f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.Nil(t, err)

	splits, serr := f.store.ForPayment(context.Background(), "payment-1")
	check.Nil(t, serr)
	check.Equal(t, 1, len(splits))
	// Host absorbs the 900 plus the 100 fee residue.
	check.Equal(t, "1000.00", splits[0].Amount.StringFixed(2))
	check.Equal(t, "100.00", splits[0].FeeAmount.StringFixed(2))
}

func TestDisburse_EmptyPlanPaysHostDirectly(t *testing.T) {
	f := newSplitFixture(t)
	f.seedCapturedPayment(t)

	err := f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.Nil(t, err)

	splits, serr := f.store.ForPayment(context.Background(), "payment-1")
	check.Nil(t, serr)
	check.Equal(t, 1, len(splits))
	check.Equal(t, "host-1", splits[0].RecipientID)
	check.Equal(t, domain.RecipientHost, splits[0].RecipientType)
	check.Equal(t, "1000.00", splits[0].Amount.StringFixed(2))
}

func TestDisburse_RerunCreatesNothingAndPaysNobodyTwice(t *testing.T) {
	f := newSplitFixture(t)
	f.seedCapturedPayment(t)
	f.addConfig(0, "host-1", domain.RecipientHost, domain.SplitPercentage, 100)

	err := f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.Nil(t, err)
	transfersAfterFirst := len(f.gateway.Transfers())

	err = f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.Nil(t, err)

	splits, serr := f.store.ForPayment(context.Background(), "payment-1")
	check.Nil(t, serr)
	check.Equal(t, 1, len(splits))
	check.Equal(t, transfersAfterFirst, len(f.gateway.Transfers()))
}

func TestDisburse_RejectsUncapturedPayment(t *testing.T) {
	f := newSplitFixture(t)
	payment := f.seedCapturedPayment(t)
	payment.Status = domain.PaymentAuthorized
	f.store.AddPayment(payment)

	err := f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.NotNil(t, err)
}

func TestDisburse_FailedTransferSchedulesRetry(t *testing.T) {
	f := newSplitFixture(t)
	f.seedCapturedPayment(t)
	f.addConfig(0, "host-1", domain.RecipientHost, domain.SplitPercentage, 80)
	f.addConfig(1, "platform", domain.RecipientPlatform, domain.SplitPercentage, 20)
	f.gateway.TransferErrFor = map[string]error{"host-1": errors.New("recipient account frozen")}

	err := f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.Nil(t, err)

	splits, serr := f.store.ForPayment(context.Background(), "payment-1")
	check.Nil(t, serr)

	failed := splitByRecipient(splits, "host-1")
	check.Equal(t, domain.SplitFailed, failed.Status)
	check.Equal(t, "recipient account frozen", failed.FailureReason)
	check.Equal(t, 1, failed.RetryCount)
	check.NotNil(t, failed.NextRetryAt)
	check.Equal(t, baseTime.Add(30*time.Second), *failed.NextRetryAt)

	// The platform leg is unaffected by its sibling's failure.
	check.Equal(t, domain.SplitCompleted, splitByRecipient(splits, "platform").Status)
	check.Equal(t, 1, f.pub.CountOf(domain.EventSplitFailed))
	check.Equal(t, 1, f.pub.CountOf(domain.EventSplitCompleted))
}

func TestDisburse_RetryBudgetExhaustionStopsScheduling(t *testing.T) {
	f := newSplitFixture(t)
	f.seedCapturedPayment(t)
	f.store.AddSplit(&domain.PaymentSplit{
		ID:             "split-1",
		PaymentID:      "payment-1",
		RecipientID:    "host-1",
		RecipientType:  domain.RecipientHost,
		Amount:         decimal.NewFromInt(900),
		Status:         domain.SplitPending,
		RetryCount:     2, // one attempt left of the budget of 3
		IdempotencyKey: "split:payment-1:host-1",
	})
	f.gateway.TransferErrFor = map[string]error{"host-1": errors.New("still frozen")}

	err := f.uc.DisburseForPayment(context.Background(), "payment-1")
	check.Nil(t, err)

	splits, serr := f.store.ForPayment(context.Background(), "payment-1")
	check.Nil(t, serr)
	check.Equal(t, domain.SplitFailed, splits[0].Status)
	check.Equal(t, 3, splits[0].RetryCount)
	// No next attempt is scheduled once the budget is burned.
	check.Nil(t, splits[0].NextRetryAt)
}
