package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/staynest/auction-service/internal/domain"
	auctiondto "github.com/staynest/auction-service/internal/usecase/dto/auction"
)

func (uc *DefaultAuctionUsecase) GetAuction(ctx context.Context, auctionID string) (*auctiondto.AuctionOutput, error) {
	if cached, ok := uc.Cache.GetAuction(ctx, auctionID); ok {
		return auctiondto.NewAuctionOutput(cached), nil
	}

	auction, err := uc.AuctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	uc.Cache.SetAuction(ctx, auction)
	return auctiondto.NewAuctionOutput(auction), nil
}

// ListAuctions serves listing pages from the version-keyed redis namespace
// when possible; any auction write bumps the namespace version, so stale
// pages simply stop being addressable.
func (uc *DefaultAuctionUsecase) ListAuctions(ctx context.Context, input *auctiondto.ListAuctionsInput) (*auctiondto.ListAuctionsOutput, error) {
	fingerprint := listingFingerprint(input)
	if raw, ok := uc.Cache.GetListing(ctx, fingerprint); ok {
		var cached auctiondto.ListAuctionsOutput
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	filter := domain.AuctionFilter{
		HostID:      input.HostID,
		ListingIDs:  input.ListingIDs,
		MinPrice:    input.MinPrice,
		MaxPrice:    input.MaxPrice,
		CheckInFrom: input.CheckInFrom,
		CheckOutTo:  input.CheckOutTo,
		Page:        input.Page,
		Limit:       input.Limit,
		SortBy:      input.SortBy,
		SortOrder:   input.SortOrder,
	}
	for _, s := range input.Statuses {
		filter.Statuses = append(filter.Statuses, domain.AuctionStatus(s))
	}

	auctions, total, err := uc.AuctionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	outputs := make([]*auctiondto.AuctionOutput, len(auctions))
	for i, a := range auctions {
		outputs[i] = auctiondto.NewAuctionOutput(a)
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}

	output := &auctiondto.ListAuctionsOutput{
		Auctions: outputs,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	if raw, err := json.Marshal(output); err == nil {
		uc.Cache.SetListing(ctx, fingerprint, raw)
	}
	return output, nil
}

// listingFingerprint flattens a listing query into a stable cache key
// fragment; two requests with identical filters share one cache entry.
func listingFingerprint(in *auctiondto.ListAuctionsInput) string {
	var b strings.Builder
	b.WriteString(strings.Join(in.Statuses, ","))
	b.WriteByte('|')
	b.WriteString(in.HostID)
	b.WriteByte('|')
	b.WriteString(strings.Join(in.ListingIDs, ","))
	b.WriteByte('|')
	if in.MinPrice != nil {
		b.WriteString(in.MinPrice.String())
	}
	b.WriteByte('|')
	if in.MaxPrice != nil {
		b.WriteString(in.MaxPrice.String())
	}
	b.WriteByte('|')
	if in.CheckInFrom != nil {
		b.WriteString(in.CheckInFrom.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if in.CheckOutTo != nil {
		b.WriteString(in.CheckOutTo.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "|%d|%d|%s|%s", in.Page, in.Limit, in.SortBy, in.SortOrder)
	return b.String()
}

func (uc *DefaultAuctionUsecase) GetTransitions(ctx context.Context, auctionID string) ([]*auctiondto.TransitionOutput, error) {
	if _, err := uc.AuctionRepo.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}

	transitions, err := uc.AuctionRepo.Transitions(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	outputs := make([]*auctiondto.TransitionOutput, len(transitions))
	for i, t := range transitions {
		outputs[i] = &auctiondto.TransitionOutput{
			Kind:       string(t.Kind),
			FromStatus: string(t.FromStatus),
			ToStatus:   string(t.ToStatus),
			WinnerID:   t.WinnerID,
			Detail:     t.Detail,
			OccurredAt: t.OccurredAt,
		}
	}
	return outputs, nil
}
