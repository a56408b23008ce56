package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
	biddto "github.com/staynest/auction-service/internal/usecase/dto/bid"
)

// autoBidRoundLimit bounds one evaluation pass. Every round raises the
// price by at least the minimum increment, so real convergence comes from
// ceilings; the cap only guards against repository misbehavior.
const autoBidRoundLimit = 1000

// RegisterAutoBid installs or replaces the caller's standing proxy. When
// the proxy can already beat the standing price it fires immediately, which
// is how a later, richer proxy takes the lead from the current one.
func (uc *DefaultBidUsecase) RegisterAutoBid(ctx context.Context, input *biddto.RegisterAutoBidInput) (*biddto.AutoBidOutput, error) {
	auction, err := uc.AuctionRepo.GetByID(ctx, input.AuctionID)
	if err != nil {
		return nil, err
	}

	now := uc.Clock.Now()
	if auction.Status != domain.AuctionActive || !now.Before(auction.EffectiveEnd()) {
		return nil, domain.ErrAuctionNotActive
	}
	if input.Ceiling.LessThan(auction.MinNextBid()) {
		return nil, domain.ErrCeilingTooLow
	}

	proxy := &domain.AutoBid{
		ID:        uuid.New().String(),
		AuctionID: input.AuctionID,
		BidderID:  input.BidderID,
		Ceiling:   input.Ceiling,
		Active:    true,
		CreatedAt: now,
	}
	if err := uc.AutoBidRepo.Upsert(ctx, proxy); err != nil {
		return nil, err
	}

	counters, err := uc.runAutoBids(ctx, input.AuctionID)
	if err != nil {
		return nil, err
	}

	output := &biddto.AutoBidOutput{
		ID:        proxy.ID,
		AuctionID: proxy.AuctionID,
		BidderID:  proxy.BidderID,
		Ceiling:   proxy.Ceiling.StringFixed(2),
		Active:    true,
	}
	for _, counter := range counters {
		output.CounterBids = append(output.CounterBids, biddto.NewBidOutput(counter))
	}
	return output, nil
}

func (uc *DefaultBidUsecase) CancelAutoBid(ctx context.Context, auctionID, bidderID string) error {
	proxies, err := uc.AutoBidRepo.ActiveForAuction(ctx, auctionID)
	if err != nil {
		return err
	}
	for _, proxy := range proxies {
		if proxy.BidderID == bidderID {
			return uc.AutoBidRepo.Deactivate(ctx, proxy.ID)
		}
	}
	return nil
}

// runAutoBids plays out the standing proxies against the current price. In
// each round the earliest-registered proxy that is not already leading and
// whose ceiling covers the next increment responds; the loop ends when no
// proxy can. A proxy that cannot beat an earlier registration with an equal
// or higher ceiling jumps straight to the highest price that rival can
// still answer, so the earlier registration takes the final lead even when
// ceilings tie.
func (uc *DefaultBidUsecase) runAutoBids(ctx context.Context, auctionID string) ([]*domain.Bid, error) {
	var placed []*domain.Bid

	for round := 0; round < autoBidRoundLimit; round++ {
		auction, err := uc.AuctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return placed, err
		}
		now := uc.Clock.Now()
		if auction.Status != domain.AuctionActive || !now.Before(auction.EffectiveEnd()) {
			return placed, nil
		}

		winning, err := uc.BidRepo.GetWinning(ctx, auctionID)
		if err != nil {
			return placed, err
		}
		proxies, err := uc.AutoBidRepo.ActiveForAuction(ctx, auctionID)
		if err != nil {
			return placed, err
		}

		next := auction.MinNextBid()
		var chosen *domain.AutoBid
		var amount decimal.Decimal
		for i, proxy := range proxies {
			if winning != nil && proxy.BidderID == winning.BidderID {
				continue
			}
			if proxy.Ceiling.LessThan(next) {
				continue
			}
			amount = next
			if rival := strongestSeniorRival(proxies[:i], proxy.Ceiling); rival != nil {
				// The rival registered first and can match every price this
				// proxy can reach, so stepping by the increment only hands
				// the rival the win at a higher cost. Push to the rival's
				// breaking point in one move instead.
				forced := decimal.Min(proxy.Ceiling, rival.Ceiling.Sub(auction.MinIncrement))
				if forced.LessThan(next) {
					continue
				}
				amount = forced
			}
			chosen = proxy
			break
		}
		if chosen == nil {
			return placed, nil
		}

		ceiling := chosen.Ceiling
		bid, _, err := uc.acceptBid(ctx, auctionID, chosen.BidderID, amount, true, &ceiling)
		if err != nil {
			if errors.Is(err, domain.ErrBidTooLow) || errors.Is(err, domain.ErrBidConflict) {
				// A concurrent bid moved the price; re-evaluate.
				continue
			}
			if errors.Is(err, domain.ErrAuctionNotActive) {
				return placed, nil
			}
			return placed, err
		}
		placed = append(placed, bid)
	}
	return placed, nil
}

// strongestSeniorRival returns the highest-ceiling proxy registered before
// the candidate whose ceiling is at least the candidate's, or nil when the
// candidate can outbid every earlier registration.
func strongestSeniorRival(senior []*domain.AutoBid, ceiling decimal.Decimal) *domain.AutoBid {
	var rival *domain.AutoBid
	for _, proxy := range senior {
		if proxy.Ceiling.LessThan(ceiling) {
			continue
		}
		if rival == nil || proxy.Ceiling.GreaterThan(rival.Ceiling) {
			rival = proxy
		}
	}
	return rival
}
