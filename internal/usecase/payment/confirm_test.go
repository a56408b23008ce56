package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/testutil"
	paymentdto "github.com/staynest/auction-service/internal/usecase/dto/payment"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingDisburser struct {
	mu         sync.Mutex
	PaymentIDs []string
	Err        error
}

func (d *recordingDisburser) DisburseForPayment(_ context.Context, paymentID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.PaymentIDs = append(d.PaymentIDs, paymentID)
	return nil
}

type paymentFixture struct {
	store     *testutil.Store
	gateway   *testutil.Gateway
	disburser *recordingDisburser
	pub       *testutil.Publisher
	clock     *testutil.ManualClock
	uc        *DefaultPaymentUsecase
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	store := testutil.NewStore()
	gateway := &testutil.Gateway{}
	disburser := &recordingDisburser{}
	pub := &testutil.Publisher{}
	clock := testutil.NewManualClock(baseTime)
	uc := NewDefaultPaymentUsecase(store, store, store.PaymentRepo(), store, gateway, disburser,
		pub, testutil.Metrics(), nil, clock, config.Payments{
			Window:          5 * time.Minute,
			DefaultCurrency: "BRL",
		})
	return &paymentFixture{store: store, gateway: gateway, disburser: disburser, pub: pub, clock: clock, uc: uc}
}

// seedWonAuction installs an ended auction won by bidder-a at 140.00 with
// the payment window still open.
func (f *paymentFixture) seedWonAuction(t *testing.T) *domain.Auction {
	t.Helper()
	winner := "bidder-a"
	deadline := baseTime.Add(5 * time.Minute)
	auction := &domain.Auction{
		ID:           "auction-1",
		ListingID:    "listing-1",
		HostID:       "host-1",
		Currency:     "BRL",
		StartPrice:   decimal.NewFromInt(100),
		CurrentBid:   decimal.NewFromInt(140),
		MinIncrement: decimal.NewFromInt(10),
		StartTime:    baseTime.Add(-2 * time.Hour),
		EndTime:      baseTime.Add(-1 * time.Minute),
		Status:       domain.AuctionEnded,
		WinnerID:     &winner,
		PaymentDeadline: &deadline,
		CheckIn:      baseTime.Add(30 * 24 * time.Hour),
		CheckOut:     baseTime.Add(33 * 24 * time.Hour),
	}
	f.store.AddAuction(auction)
	f.store.AddBid(&domain.Bid{
		ID: "bid-1", AuctionID: "auction-1", BidderID: "bidder-a",
		Amount: decimal.NewFromInt(140), IsWinning: true,
		CreatedAt: baseTime.Add(-10 * time.Minute),
	})
	return auction
}

func TestConfirmPayment_CapturesAndDisburses(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)

	out, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.Nil(t, err)
	check.Equal(t, string(domain.PaymentCaptured), out.Status)
	check.Equal(t, "140.00", out.Amount)
	check.NotNil(t, out.CapturedAt)

	// Gateway keys are deterministic per (auction, winner) so retries
	// resolve to the same authorization and capture.
	check.Equal(t, 1, len(f.gateway.AuthorizeCalls))
	check.Equal(t, "auth:auction-1:bidder-a", f.gateway.AuthorizeCalls[0].IdempotencyKey)
	check.Equal(t, 1, len(f.gateway.CaptureCalls))
	check.Equal(t, "cap:auction-1:bidder-a", f.gateway.CaptureCalls[0].IdempotencyKey)

	auction, gerr := f.store.GetByID(context.Background(), "auction-1")
	check.Nil(t, gerr)
	check.True(t, auction.PaymentCompleted)

	check.Equal(t, []string{out.ID}, f.disburser.PaymentIDs)
	check.Equal(t, 1, f.pub.CountOf(domain.EventPaymentCaptured))
}

func TestConfirmPayment_RejectsNonWinner(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)

	_, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-b",
		Method:    "card",
	})
	check.True(t, errors.Is(err, domain.ErrNotAuctionWinner))
	check.Equal(t, 0, len(f.gateway.AuthorizeCalls))
}

func TestConfirmPayment_RejectsAfterDeadline(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)
	f.clock.Set(baseTime.Add(5 * time.Minute))

	_, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.True(t, errors.Is(err, domain.ErrPaymentDeadlinePassed))
}

func TestConfirmPayment_NothingDueOnActiveAuction(t *testing.T) {
	f := newPaymentFixture(t)
	auction := f.seedWonAuction(t)
	auction.Status = domain.AuctionActive
	auction.WinnerID = nil
	f.store.AddAuction(auction)

	_, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.True(t, errors.Is(err, domain.ErrNoPaymentDue))
}

func TestConfirmPayment_NothingDueOnceCompleted(t *testing.T) {
	f := newPaymentFixture(t)
	auction := f.seedWonAuction(t)
	auction.PaymentCompleted = true
	f.store.AddAuction(auction)

	_, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.True(t, errors.Is(err, domain.ErrNoPaymentDue))
}

func TestConfirmPayment_AuthorizationFailureLeavesWindowOpen(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)
	f.gateway.AuthorizeErr = errors.New("card declined")

	_, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.NotNil(t, err)

	auction, gerr := f.store.GetByID(context.Background(), "auction-1")
	check.Nil(t, gerr)
	check.False(t, auction.PaymentCompleted)
	check.Equal(t, 0, len(f.gateway.CaptureCalls))
}

func TestGetPaymentStatus_IncludesSplits(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)

	out, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.Nil(t, err)

	f.store.AddSplit(&domain.PaymentSplit{
		ID: "split-1", PaymentID: out.ID, RecipientID: "host-1",
		RecipientType: domain.RecipientHost, Amount: decimal.NewFromInt(126),
		Status: domain.SplitCompleted,
	})

	status, err := f.uc.GetPaymentStatus(context.Background(), "auction-1", "bidder-a")
	check.Nil(t, err)
	check.False(t, status.RequiresPayment)
	check.Equal(t, out.ID, status.Payment.ID)
	check.Equal(t, 1, len(status.Splits))
	check.Equal(t, "126.00", status.Splits[0].Amount)
}

func TestGetPaymentStatus_OpenWindowReportsPaymentDue(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)
	f.clock.Set(baseTime.Add(2 * time.Minute))

	status, err := f.uc.GetPaymentStatus(context.Background(), "auction-1", "bidder-a")
	check.Nil(t, err)
	check.True(t, status.RequiresPayment)
	check.Equal(t, int64(180), status.RemainingSeconds)
	check.Equal(t, "140.00", status.AmountDue)
	check.NotNil(t, status.PaymentDeadline)
	check.Equal(t, baseTime.Add(5*time.Minute), *status.PaymentDeadline)
	check.Nil(t, status.Payment)
	check.Equal(t, 0, len(status.Splits))
}

func TestGetPaymentStatus_NonWinnerOwesNothing(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)

	status, err := f.uc.GetPaymentStatus(context.Background(), "auction-1", "bidder-z")
	check.Nil(t, err)
	check.False(t, status.RequiresPayment)
	check.Equal(t, int64(0), status.RemainingSeconds)
	check.Nil(t, status.Payment)
}

func TestConfirmPayment_WinnerReplacedMidCaptureIsRefunded(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)
	f.store.AddBid(&domain.Bid{
		ID: "bid-2", AuctionID: "auction-1", BidderID: "bidder-b",
		Amount:    decimal.NewFromInt(130),
		CreatedAt: baseTime.Add(-12 * time.Minute),
	})

	// The deadline sweep promotes bidder-b between the capture and the
	// completion write.
	newWinner := "bidder-b"
	newBidID := "bid-2"
	deadline := baseTime.Add(10 * time.Minute)
	f.gateway.OnCapture = func() {
		check.Nil(t, f.store.ReassignWinner(context.Background(),
			"auction-1", "bidder-a", &newWinner, &newBidID, &deadline, baseTime))
	}

	_, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.True(t, errors.Is(err, domain.ErrWinnerChanged))

	// The orphaned capture is returned in full and nothing is disbursed.
	check.Equal(t, 1, len(f.gateway.RefundCalls))
	check.Equal(t, "gwpay-1", f.gateway.RefundCalls[0].PaymentID)
	check.Equal(t, "140.00", f.gateway.RefundCalls[0].Amount.StringFixed(2))
	check.Equal(t, 0, len(f.disburser.PaymentIDs))

	payment, perr := f.store.PaymentRepo().GetByAuctionID(context.Background(), "auction-1")
	check.Nil(t, perr)
	check.Equal(t, domain.PaymentRefunded, payment.Status)

	auction, gerr := f.store.GetByID(context.Background(), "auction-1")
	check.Nil(t, gerr)
	check.False(t, auction.PaymentCompleted)
	check.Equal(t, "bidder-b", *auction.WinnerID)
}

func TestGetPaymentSplits_ListsLedgerRows(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)

	out, err := f.uc.ConfirmPayment(context.Background(), &paymentdto.ConfirmPaymentInput{
		AuctionID: "auction-1",
		PayerID:   "bidder-a",
		Method:    "card",
	})
	check.Nil(t, err)

	f.store.AddSplit(&domain.PaymentSplit{
		ID: "split-1", PaymentID: out.ID, RecipientID: "host-1",
		RecipientType: domain.RecipientHost, Amount: decimal.NewFromInt(126),
		Status: domain.SplitCompleted,
	})
	f.store.AddSplit(&domain.PaymentSplit{
		ID: "split-2", PaymentID: out.ID, RecipientID: "platform",
		RecipientType: domain.RecipientPlatform, Amount: decimal.NewFromInt(14),
		Status: domain.SplitPending,
	})

	splits, serr := f.uc.GetPaymentSplits(context.Background(), out.ID)
	check.Nil(t, serr)
	check.Equal(t, 2, len(splits))

	_, serr = f.uc.GetPaymentSplits(context.Background(), "payment-unknown")
	check.True(t, errors.Is(serr, domain.ErrNoPaymentDue))
}
