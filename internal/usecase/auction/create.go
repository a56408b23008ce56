package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
	auctiondto "github.com/staynest/auction-service/internal/usecase/dto/auction"
)

func (uc *DefaultAuctionUsecase) CreateAuction(ctx context.Context, input *auctiondto.CreateAuctionInput) (*auctiondto.AuctionOutput, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := uc.Clock.Now()
	status := domain.AuctionScheduled
	if !input.StartTime.After(now) {
		status = domain.AuctionActive
	}

	currency := input.Currency
	if currency == "" {
		currency = uc.Payments.DefaultCurrency
	}

	auction := &domain.Auction{
		ID:           uuid.New().String(),
		ListingID:    input.ListingID,
		HostID:       input.HostID,
		Description:  input.Description,
		Currency:     currency,
		StartPrice:   input.StartPrice,
		CurrentBid:   input.StartPrice,
		MinIncrement: input.MinIncrement,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Status:       status,
		CheckIn:      input.CheckIn,
		CheckOut:     input.CheckOut,
		MaxGuests:    input.MaxGuests,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	splits := make([]*domain.SplitConfig, len(input.Splits))
	for i, s := range input.Splits {
		splits[i] = &domain.SplitConfig{
			ID:            uuid.New().String(),
			AuctionID:     auction.ID,
			RecipientID:   s.RecipientID,
			RecipientType: domain.RecipientType(s.RecipientType),
			SplitType:     domain.SplitType(s.SplitType),
			Value:         s.Value,
			Position:      i,
		}
	}

	if err := uc.AuctionRepo.Create(ctx, auction, splits); err != nil {
		return nil, err
	}

	if status == domain.AuctionActive {
		uc.Metrics.RecordAuctionActivated()
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventAuctionActivated,
			AuctionID:  auction.ID,
			Currency:   auction.Currency,
			Amount:     auction.StartPrice.StringFixed(2),
			OccurredAt: now,
		})
	}

	return auctiondto.NewAuctionOutput(auction), nil
}

func validateCreateInput(input *auctiondto.CreateAuctionInput) error {
	if input.ListingID == "" || input.HostID == "" {
		return fmt.Errorf("listing_id and host_id are required")
	}
	if !input.StartPrice.IsPositive() {
		return fmt.Errorf("start_price must be positive")
	}
	if !input.MinIncrement.IsPositive() {
		return fmt.Errorf("min_increment must be positive")
	}
	if !input.EndTime.After(input.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if !input.CheckOut.After(input.CheckIn) {
		return fmt.Errorf("check_out must be after check_in")
	}
	return validateSplitInputs(input.Splits)
}

func validateSplitInputs(splits []auctiondto.SplitConfigInput) error {
	percentTotal := decimal.Zero
	for _, s := range splits {
		switch domain.SplitType(s.SplitType) {
		case domain.SplitPercentage:
			if s.Value.IsNegative() || s.Value.GreaterThan(decimal.NewFromInt(100)) {
				return fmt.Errorf("percentage split value must be between 0 and 100")
			}
			percentTotal = percentTotal.Add(s.Value)
		case domain.SplitFixedAmount:
			if !s.Value.IsPositive() {
				return fmt.Errorf("fixed split value must be positive")
			}
		default:
			return fmt.Errorf("unknown split type %q", s.SplitType)
		}
		switch domain.RecipientType(s.RecipientType) {
		case domain.RecipientHost, domain.RecipientAgent, domain.RecipientPlatform:
		default:
			return fmt.Errorf("unknown recipient type %q", s.RecipientType)
		}
	}
	if percentTotal.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("percentage splits exceed 100%%")
	}
	return nil
}

func (uc *DefaultAuctionUsecase) publishEvent(ctx context.Context, event domain.AuctionEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishAuctionEvent(ctx, event); err != nil {
		// Event delivery is best-effort; the ledger stays authoritative.
		slog.Error("failed to publish kafka auction event", "type", event.Type, "error", err.Error())
	}
}
