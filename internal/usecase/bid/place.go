package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
	biddto "github.com/staynest/auction-service/internal/usecase/dto/bid"
)

// PlaceBid validates and commits a manual bid, then lets standing proxies
// respond. The returned output carries the accepted bid, every proxy
// counter-bid it triggered, and the resulting price.
func (uc *DefaultBidUsecase) PlaceBid(ctx context.Context, input *biddto.PlaceBidInput) (*biddto.PlaceBidOutput, error) {
	started := time.Now()

	bid, extended, err := uc.acceptBid(ctx, input.AuctionID, input.BidderID, input.Amount, false, nil)
	if err != nil {
		uc.Metrics.RecordBidAcceptDuration("rejected", time.Since(started).Seconds())
		uc.recordRejection(err)
		return nil, err
	}
	uc.Metrics.RecordBidAcceptDuration("accepted", time.Since(started).Seconds())

	counters, err := uc.runAutoBids(ctx, input.AuctionID)
	if err != nil {
		// The manual bid is already committed; proxy evaluation picks up
		// again on the next bid.
		slog.Error("auto-bid evaluation stopped", "auction_id", input.AuctionID, "error", err.Error())
	}

	auction, err := uc.AuctionRepo.GetByID(ctx, input.AuctionID)
	if err != nil {
		return nil, err
	}

	output := &biddto.PlaceBidOutput{
		Bid:          biddto.NewBidOutput(bid),
		CurrentBid:   auction.CurrentBid.StringFixed(2),
		Extended:     extended,
		EffectiveEnd: auction.EffectiveEnd(),
	}
	for _, counter := range counters {
		output.CounterBids = append(output.CounterBids, biddto.NewBidOutput(counter))
	}
	return output, nil
}

// acceptBid runs the optimistic acceptance loop: validate against a fresh
// read, attempt the conditional commit, and on a concurrency conflict
// re-read and re-validate. The bid that lost the race is re-judged against
// the new price, so it either clears the new floor or is rejected, never
// silently accepted below it.
func (uc *DefaultBidUsecase) acceptBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal, auto bool, ceiling *decimal.Decimal) (*domain.Bid, bool, error) {
	for attempt := 0; attempt <= uc.Bidding.ConflictRetries; attempt++ {
		auction, err := uc.AuctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return nil, false, err
		}

		now := uc.Clock.Now()
		if auction.Status != domain.AuctionActive || now.Before(auction.StartTime) || !now.Before(auction.EffectiveEnd()) {
			return nil, false, domain.ErrAuctionNotActive
		}
		if amount.LessThan(auction.MinNextBid()) {
			return nil, false, domain.ErrBidTooLow
		}
		if !auto {
			winning, err := uc.BidRepo.GetWinning(ctx, auctionID)
			if err != nil {
				return nil, false, err
			}
			if winning != nil && winning.BidderID == bidderID {
				return nil, false, domain.ErrDuplicateHighBidder
			}
		}

		newExtendedEnd, newCount, extended := uc.computeExtension(auction, now)

		reference, err := newBidReference()
		if err != nil {
			return nil, false, err
		}
		bid := &domain.Bid{
			ID:        uuid.New().String(),
			Reference: reference,
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			AutoBid:   auto,
			MaxAmount: ceiling,
			IsWinning: true,
			CreatedAt: now,
		}

		err = uc.AuctionRepo.AcceptBid(ctx, &domain.BidAcceptance{
			AuctionID:         auctionID,
			ExpectedBid:       auction.CurrentBid,
			Bid:               bid,
			NewExtendedEnd:    newExtendedEnd,
			NewExtensionCount: newCount,
		})
		if errors.Is(err, domain.ErrBidConflict) {
			uc.Metrics.RecordBidConflict("retried")
			continue
		}
		if err != nil {
			return nil, false, err
		}

		uc.Metrics.RecordBidAccepted(auction.Currency, auto)
		uc.Cache.InvalidateAuction(ctx, auctionID)
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventBidAccepted,
			AuctionID:  auctionID,
			BidID:      bid.ID,
			BidderID:   bidderID,
			Amount:     amount.StringFixed(2),
			Currency:   auction.Currency,
			OccurredAt: now,
		})
		if extended {
			uc.Metrics.RecordExtension()
			uc.publishEvent(ctx, domain.AuctionEvent{
				Type:       domain.EventAuctionExtended,
				AuctionID:  auctionID,
				Detail:     newExtendedEnd.Format(time.RFC3339),
				OccurredAt: now,
			})
		}
		return bid, extended, nil
	}

	uc.Metrics.RecordBidConflict("exhausted")
	return nil, false, domain.ErrBidConflictExhausted
}

// computeExtension applies the anti-sniping rule: a bid landing inside the
// closing window pushes the effective end out by a fixed extension, up to a
// bounded number of times.
func (uc *DefaultBidUsecase) computeExtension(auction *domain.Auction, now time.Time) (*time.Time, int, bool) {
	effectiveEnd := auction.EffectiveEnd()
	if now.Before(effectiveEnd.Add(-uc.Bidding.AntiSnipeWindow)) {
		return nil, auction.ExtensionCount, false
	}
	if auction.ExtensionCount >= uc.Bidding.MaxExtensions {
		return nil, auction.ExtensionCount, false
	}
	extendedEnd := effectiveEnd.Add(uc.Bidding.AntiSnipeExtension)
	return &extendedEnd, auction.ExtensionCount + 1, true
}

func (uc *DefaultBidUsecase) recordRejection(err error) {
	switch {
	case errors.Is(err, domain.ErrBidTooLow):
		uc.Metrics.RecordBidRejected("too_low")
	case errors.Is(err, domain.ErrDuplicateHighBidder):
		uc.Metrics.RecordBidRejected("duplicate_leader")
	case errors.Is(err, domain.ErrAuctionNotActive):
		uc.Metrics.RecordBidRejected("not_active")
	case errors.Is(err, domain.ErrBidConflictExhausted):
		uc.Metrics.RecordBidRejected("conflict_exhausted")
	case errors.Is(err, domain.ErrAuctionNotFound):
		uc.Metrics.RecordBidRejected("not_found")
	default:
		uc.Metrics.RecordBidRejected("internal")
	}
}

func newBidReference() (string, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return "", err
	}
	return idGenerator(), nil
}

func (uc *DefaultBidUsecase) publishEvent(ctx context.Context, event domain.AuctionEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishAuctionEvent(ctx, event); err != nil {
		slog.Error("failed to publish kafka auction event", "type", event.Type, "error", err.Error())
	}
}
