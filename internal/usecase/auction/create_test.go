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
	auctiondto "github.com/staynest/auction-service/internal/usecase/dto/auction"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type auctionFixture struct {
	store *testutil.Store
	pub   *testutil.Publisher
	clock *testutil.ManualClock
	uc    *DefaultAuctionUsecase
}

func newAuctionFixture(t *testing.T) *auctionFixture {
	t.Helper()
	store := testutil.NewStore()
	pub := &testutil.Publisher{}
	clock := testutil.NewManualClock(baseTime)
	uc := NewDefaultAuctionUsecase(store, store, pub, testutil.Metrics(), nil, clock, config.Payments{
		Window:          5 * time.Minute,
		DefaultCurrency: "BRL",
	})
	return &auctionFixture{store: store, pub: pub, clock: clock, uc: uc}
}

func validCreateInput() *auctiondto.CreateAuctionInput {
	return &auctiondto.CreateAuctionInput{
		ListingID:    "listing-1",
		HostID:       "host-1",
		Description:  "beach house, two nights",
		StartPrice:   decimal.NewFromInt(100),
		MinIncrement: decimal.NewFromInt(10),
		StartTime:    baseTime.Add(1 * time.Hour),
		EndTime:      baseTime.Add(25 * time.Hour),
		CheckIn:      baseTime.Add(30 * 24 * time.Hour),
		CheckOut:     baseTime.Add(32 * 24 * time.Hour),
		MaxGuests:    4,
	}
}

func TestCreateAuction_SchedulesFutureStart(t *testing.T) {
	f := newAuctionFixture(t)

	out, err := f.uc.CreateAuction(context.Background(), validCreateInput())
	check.Nil(t, err)
	check.Equal(t, string(domain.AuctionScheduled), out.Status)
	check.Equal(t, "100.00", out.CurrentBid)
	check.Equal(t, "110.00", out.MinNextBid)
	check.Equal(t, "BRL", out.Currency) // default currency applied
	check.Equal(t, 0, f.pub.CountOf(domain.EventAuctionActivated))
}

func TestCreateAuction_ActivatesWhenStartAlreadyPassed(t *testing.T) {
	f := newAuctionFixture(t)

	input := validCreateInput()
	input.StartTime = baseTime.Add(-1 * time.Minute)
	out, err := f.uc.CreateAuction(context.Background(), input)
	check.Nil(t, err)
	check.Equal(t, string(domain.AuctionActive), out.Status)
	check.Equal(t, 1, f.pub.CountOf(domain.EventAuctionActivated))
}

func TestCreateAuction_StoresSplitPlanInOrder(t *testing.T) {
	f := newAuctionFixture(t)

	input := validCreateInput()
	input.Splits = []auctiondto.SplitConfigInput{
		{RecipientID: "agent-1", RecipientType: "agent", SplitType: "fixed_amount", Value: decimal.NewFromInt(50)},
		{RecipientID: "host-1", RecipientType: "host", SplitType: "percentage", Value: decimal.NewFromInt(80)},
		{RecipientID: "platform", RecipientType: "platform", SplitType: "percentage", Value: decimal.NewFromInt(20)},
	}
	out, err := f.uc.CreateAuction(context.Background(), input)
	check.Nil(t, err)

	configs, err := f.store.SplitConfigs(context.Background(), out.ID)
	check.Nil(t, err)
	check.Equal(t, 3, len(configs))
	check.Equal(t, "agent-1", configs[0].RecipientID)
	check.Equal(t, 0, configs[0].Position)
	check.Equal(t, domain.SplitPercentage, configs[2].SplitType)
}

func TestCreateAuction_ValidationFailures(t *testing.T) {
	f := newAuctionFixture(t)

	cases := []struct {
		name   string
		mutate func(*auctiondto.CreateAuctionInput)
	}{
		{"missing listing", func(in *auctiondto.CreateAuctionInput) { in.ListingID = "" }},
		{"zero start price", func(in *auctiondto.CreateAuctionInput) { in.StartPrice = decimal.Zero }},
		{"zero increment", func(in *auctiondto.CreateAuctionInput) { in.MinIncrement = decimal.Zero }},
		{"end before start", func(in *auctiondto.CreateAuctionInput) { in.EndTime = in.StartTime.Add(-time.Hour) }},
		{"checkout before checkin", func(in *auctiondto.CreateAuctionInput) { in.CheckOut = in.CheckIn.Add(-time.Hour) }},
		{"percentages over 100", func(in *auctiondto.CreateAuctionInput) {
			in.Splits = []auctiondto.SplitConfigInput{
				{RecipientID: "host-1", RecipientType: "host", SplitType: "percentage", Value: decimal.NewFromInt(90)},
				{RecipientID: "agent-1", RecipientType: "agent", SplitType: "percentage", Value: decimal.NewFromInt(20)},
			}
		}},
		{"unknown recipient type", func(in *auctiondto.CreateAuctionInput) {
			in.Splits = []auctiondto.SplitConfigInput{
				{RecipientID: "x", RecipientType: "cleaner", SplitType: "percentage", Value: decimal.NewFromInt(10)},
			}
		}},
		{"unknown split type", func(in *auctiondto.CreateAuctionInput) {
			in.Splits = []auctiondto.SplitConfigInput{
				{RecipientID: "x", RecipientType: "host", SplitType: "tiered", Value: decimal.NewFromInt(10)},
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(input)
			_, err := f.uc.CreateAuction(context.Background(), input)
			check.NotNil(t, err)
		})
	}
}

func TestGetAuction_UnknownID(t *testing.T) {
	f := newAuctionFixture(t)

	_, err := f.uc.GetAuction(context.Background(), "missing")
	check.True(t, errors.Is(err, domain.ErrAuctionNotFound))
}
