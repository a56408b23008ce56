// Package testutil provides in-memory doubles for the repository and
// gateway ports. The store honors the same contracts as the Postgres
// implementation, in particular the conditional-update semantics of
// AcceptBid, ClaimProcessing and the chargeback upsert.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/staynest/auction-service/internal/domain"
)

type Store struct {
	mu sync.Mutex

	auctions     map[string]*domain.Auction
	splitConfigs map[string][]*domain.SplitConfig
	transitions  map[string][]*domain.AuctionTransition
	bids         []*domain.Bid
	autoBids     []*domain.AutoBid
	payments     map[string]*domain.Payment
	splits       []*domain.PaymentSplit
	chargebacks  map[string]*domain.ChargebackEvent
	cbOrder      []string

	// ForcedConflicts makes the next N AcceptBid calls fail with
	// ErrBidConflict regardless of the expected bid, simulating a rival
	// writer winning the row. AcceptAttempts counts every call.
	ForcedConflicts int
	AcceptAttempts  int
}

func NewStore() *Store {
	return &Store{
		auctions:     make(map[string]*domain.Auction),
		splitConfigs: make(map[string][]*domain.SplitConfig),
		transitions:  make(map[string][]*domain.AuctionTransition),
		payments:     make(map[string]*domain.Payment),
		chargebacks:  make(map[string]*domain.ChargebackEvent),
	}
}

// Seeding helpers.

func (s *Store) AddAuction(a *domain.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *a
	s.auctions[a.ID] = &copied
}

func (s *Store) AddBid(b *domain.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *b
	s.bids = append(s.bids, &copied)
}

func (s *Store) AddSplitConfig(cfg *domain.SplitConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cfg
	s.splitConfigs[cfg.AuctionID] = append(s.splitConfigs[cfg.AuctionID], &copied)
}

func (s *Store) AddPayment(p *domain.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.payments[p.ID] = &copied
}

func (s *Store) AddSplit(sp *domain.PaymentSplit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sp
	s.splits = append(s.splits, &copied)
}

// ChargebackCount reports how many distinct chargeback rows exist.
func (s *Store) ChargebackCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chargebacks)
}

// AuctionRepository.

func (s *Store) Create(_ context.Context, auction *domain.Auction, splits []*domain.SplitConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *auction
	s.auctions[auction.ID] = &copied
	for _, cfg := range splits {
		c := *cfg
		s.splitConfigs[auction.ID] = append(s.splitConfigs[auction.ID], &c)
	}
	return nil
}

func (s *Store) GetByID(_ context.Context, auctionID string) (*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[auctionID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *Store) List(_ context.Context, filter domain.AuctionFilter) ([]*domain.Auction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Auction
	for _, a := range s.auctions {
		if filter.HostID != "" && a.HostID != filter.HostID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, st := range filter.Statuses {
				if a.Status == st {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s *Store) AcceptBid(_ context.Context, acc *domain.BidAcceptance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AcceptAttempts++
	if s.ForcedConflicts > 0 {
		s.ForcedConflicts--
		return domain.ErrBidConflict
	}
	a, ok := s.auctions[acc.AuctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if a.Status != domain.AuctionActive || !a.CurrentBid.Equal(acc.ExpectedBid) {
		return domain.ErrBidConflict
	}
	for _, b := range s.bids {
		if b.AuctionID == acc.AuctionID {
			b.IsWinning = false
		}
	}
	bid := *acc.Bid
	s.bids = append(s.bids, &bid)
	a.CurrentBid = bid.Amount
	a.BidCount++
	if acc.NewExtendedEnd != nil {
		end := *acc.NewExtendedEnd
		a.ExtendedEnd = &end
		a.ExtensionCount = acc.NewExtensionCount
	}
	bidders := make(map[string]struct{})
	for _, b := range s.bids {
		if b.AuctionID == acc.AuctionID {
			bidders[b.BidderID] = struct{}{}
		}
	}
	a.ParticipantCount = len(bidders)
	a.UpdatedAt = bid.CreatedAt
	return nil
}

func (s *Store) FindDueScheduled(_ context.Context, now time.Time) ([]*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Auction
	for _, a := range s.auctions {
		if a.Status == domain.AuctionScheduled && !a.StartTime.After(now) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Store) FindDueActive(_ context.Context, now time.Time) ([]*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Auction
	for _, a := range s.auctions {
		if a.Status == domain.AuctionActive && !a.EffectiveEnd().After(now) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Store) FindOverduePayments(_ context.Context, now time.Time) ([]*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Auction
	for _, a := range s.auctions {
		if a.Status == domain.AuctionEnded && a.WinnerID != nil && !a.PaymentCompleted &&
			a.PaymentDeadline != nil && a.PaymentDeadline.Before(now) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Store) MarkActive(_ context.Context, auctionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if a.Status != domain.AuctionScheduled {
		return nil
	}
	a.Status = domain.AuctionActive
	a.UpdatedAt = at
	s.appendTransition(auctionID, domain.TransitionActivated, domain.AuctionScheduled, domain.AuctionActive, nil, "", at)
	return nil
}

func (s *Store) CloseWithWinner(_ context.Context, auctionID string, winnerID *string, deadline *time.Time, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if a.Status != domain.AuctionActive {
		return nil
	}
	a.Status = domain.AuctionEnded
	a.WinnerID = winnerID
	a.PaymentDeadline = deadline
	a.UpdatedAt = at
	s.appendTransition(auctionID, domain.TransitionEnded, domain.AuctionActive, domain.AuctionEnded, winnerID, "", at)
	if winnerID != nil {
		s.appendTransition(auctionID, domain.TransitionWinnerAssigned, domain.AuctionEnded, domain.AuctionEnded, winnerID, "", at)
	}
	return nil
}

func (s *Store) ReassignWinner(_ context.Context, auctionID, forfeitBidderID string, winnerID *string, newWinningBidID *string, deadline *time.Time, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if a.WinnerID == nil || *a.WinnerID != forfeitBidderID || a.PaymentCompleted {
		return nil
	}
	for _, b := range s.bids {
		if b.AuctionID == auctionID && b.BidderID == forfeitBidderID {
			b.Forfeited = true
			b.IsWinning = false
		}
	}
	if newWinningBidID != nil {
		for _, b := range s.bids {
			if b.ID == *newWinningBidID {
				b.IsWinning = true
			}
		}
	}
	a.WinnerID = winnerID
	a.PaymentDeadline = deadline
	a.UpdatedAt = at
	s.appendTransition(auctionID, domain.TransitionWinnerReassigned, a.Status, a.Status, winnerID, "", at)
	return nil
}

func (s *Store) MarkPaymentCompleted(_ context.Context, auctionID, winnerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if a.WinnerID == nil || *a.WinnerID != winnerID || a.PaymentCompleted {
		return domain.ErrWinnerChanged
	}
	a.PaymentCompleted = true
	a.UpdatedAt = at
	s.appendTransition(auctionID, domain.TransitionPaymentCompleted, a.Status, a.Status, a.WinnerID, "", at)
	return nil
}

func (s *Store) Cancel(_ context.Context, auctionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if a.Status != domain.AuctionScheduled && a.Status != domain.AuctionActive {
		return domain.ErrAuctionAlreadyClosed
	}
	from := a.Status
	a.Status = domain.AuctionCancelled
	a.UpdatedAt = at
	s.appendTransition(auctionID, domain.TransitionCancelled, from, domain.AuctionCancelled, nil, "", at)
	return nil
}

func (s *Store) SplitConfigs(_ context.Context, auctionID string) ([]*domain.SplitConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SplitConfig
	for _, cfg := range s.splitConfigs[auctionID] {
		c := *cfg
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) Transitions(_ context.Context, auctionID string) ([]*domain.AuctionTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.AuctionTransition
	for _, tr := range s.transitions[auctionID] {
		t := *tr
		out = append(out, &t)
	}
	return out, nil
}

func (s *Store) appendTransition(auctionID string, kind domain.TransitionKind, from, to domain.AuctionStatus, winnerID *string, detail string, at time.Time) {
	s.transitions[auctionID] = append(s.transitions[auctionID], &domain.AuctionTransition{
		AuctionID:  auctionID,
		Kind:       kind,
		FromStatus: from,
		ToStatus:   to,
		WinnerID:   winnerID,
		Detail:     detail,
		OccurredAt: at,
	})
}

// BidRepository.

func (s *Store) History(_ context.Context, auctionID string) ([]*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Bid
	for i := len(s.bids) - 1; i >= 0; i-- {
		if s.bids[i].AuctionID == auctionID {
			b := *s.bids[i]
			out = append(out, &b)
		}
	}
	return out, nil
}

func (s *Store) GetWinning(_ context.Context, auctionID string) (*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bids {
		if b.AuctionID == auctionID && b.IsWinning {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) RankedRemaining(_ context.Context, auctionID string) ([]*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Bid
	for _, b := range s.bids {
		if b.AuctionID == auctionID && !b.Forfeited {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AutoBidRepository.

func (s *Store) Upsert(_ context.Context, proxy *domain.AutoBid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.autoBids {
		if existing.AuctionID == proxy.AuctionID && existing.BidderID == proxy.BidderID {
			existing.Ceiling = proxy.Ceiling
			existing.Active = true
			return nil
		}
	}
	copied := *proxy
	s.autoBids = append(s.autoBids, &copied)
	return nil
}

func (s *Store) ActiveForAuction(_ context.Context, auctionID string) ([]*domain.AutoBid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.AutoBid
	for _, proxy := range s.autoBids {
		if proxy.AuctionID == auctionID && proxy.Active {
			copied := *proxy
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Store) Deactivate(_ context.Context, proxyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, proxy := range s.autoBids {
		if proxy.ID == proxyID {
			proxy.Active = false
		}
	}
	return nil
}

// ParticipantRepository.

func (s *Store) ForAuction(_ context.Context, auctionID string) ([]*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byBidder := make(map[string]*domain.Participant)
	var order []string
	for _, b := range s.bids {
		if b.AuctionID != auctionID {
			continue
		}
		p, ok := byBidder[b.BidderID]
		if !ok {
			p = &domain.Participant{
				AuctionID:  auctionID,
				BidderID:   b.BidderID,
				FirstBidAt: b.CreatedAt,
			}
			byBidder[b.BidderID] = p
			order = append(order, b.BidderID)
		}
		p.BidCount++
		p.TotalBidAmount = p.TotalBidAmount.Add(b.Amount)
		p.LastBidAt = b.CreatedAt
	}
	out := make([]*domain.Participant, 0, len(order))
	for _, bidderID := range order {
		out = append(out, byBidder[bidderID])
	}
	return out, nil
}

// PaymentRepository.

func (s *Store) CreatePayment(_ context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *payment
	s.payments[payment.ID] = &copied
	return nil
}

func (s *Store) GetPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return nil, domain.ErrNoPaymentDue
	}
	copied := *p
	return &copied, nil
}

func (s *Store) GetPaymentByAuctionID(_ context.Context, auctionID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.AuctionID == auctionID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrNoPaymentDue
}

func (s *Store) MarkRefunded(_ context.Context, paymentID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return domain.ErrNoPaymentDue
	}
	p.Status = domain.PaymentRefunded
	p.RefundedAt = &at
	return nil
}

// SplitRepository.

func (s *Store) CreateBatch(_ context.Context, splits []*domain.PaymentSplit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range splits {
		copied := *sp
		s.splits = append(s.splits, &copied)
	}
	return nil
}

func (s *Store) ForPayment(_ context.Context, paymentID string) ([]*domain.PaymentSplit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PaymentSplit
	for _, sp := range s.splits {
		if sp.PaymentID == paymentID {
			copied := *sp
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Store) ClaimProcessing(_ context.Context, splitID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.splits {
		if sp.ID == splitID && sp.Status == domain.SplitPending {
			sp.Status = domain.SplitProcessing
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MarkCompleted(_ context.Context, splitID, transferID, rawResponse string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.splits {
		if sp.ID == splitID {
			sp.Status = domain.SplitCompleted
			sp.GatewayTransferID = transferID
			sp.GatewayResponse = rawResponse
			sp.FailureReason = ""
			sp.NextRetryAt = nil
		}
	}
	return nil
}

func (s *Store) MarkFailed(_ context.Context, splitID, reason string, retryCount int, nextRetryAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.splits {
		if sp.ID == splitID {
			sp.Status = domain.SplitFailed
			sp.FailureReason = reason
			sp.RetryCount = retryCount
			sp.NextRetryAt = nextRetryAt
		}
	}
	return nil
}

func (s *Store) ResetForRetry(_ context.Context, splitID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.splits {
		if sp.ID == splitID && sp.Status == domain.SplitFailed {
			sp.Status = domain.SplitPending
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DueForRetry(_ context.Context, now time.Time, maxRetries int) ([]*domain.PaymentSplit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PaymentSplit
	for _, sp := range s.splits {
		if sp.Status == domain.SplitFailed && sp.RetryCount < maxRetries &&
			sp.NextRetryAt != nil && !sp.NextRetryAt.After(now) {
			copied := *sp
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Store) CancelWithNote(_ context.Context, splitID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.splits {
		if sp.ID == splitID {
			sp.Status = domain.SplitCancelled
			sp.LedgerNote = note
		}
	}
	return nil
}

// ChargebackRepository.

func (s *Store) UpsertChargeback(_ context.Context, event *domain.ChargebackEvent) (bool, domain.ChargebackStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := event.Gateway + "/" + event.ChargebackID
	existing, ok := s.chargebacks[key]
	if !ok {
		copied := *event
		s.chargebacks[key] = &copied
		s.cbOrder = append(s.cbOrder, key)
		return true, "", nil
	}
	previous := existing.Status
	if event.Status.Rank() <= previous.Rank() {
		return false, previous, nil
	}
	existing.Status = event.Status
	existing.RawPayload = event.RawPayload
	existing.ReceivedAt = event.ReceivedAt
	if event.EvidenceDueAt != nil {
		existing.EvidenceDueAt = event.EvidenceDueAt
	}
	if event.Status.Terminal() {
		at := event.ReceivedAt
		existing.ResolvedAt = &at
	}
	return false, previous, nil
}

func (s *Store) GetChargebackByKey(_ context.Context, gateway, chargebackID string) (*domain.ChargebackEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.chargebacks[gateway+"/"+chargebackID]
	if !ok {
		return nil, errors.New("chargeback not found")
	}
	copied := *existing
	return &copied, nil
}

// PaymentRepo and ChargebackRepo expose the store through the port method
// names that collide with the auction repository's on a single type.

func (s *Store) PaymentRepo() domain.PaymentRepository { return paymentStore{s} }

func (s *Store) ChargebackRepo() domain.ChargebackRepository { return chargebackStore{s} }

type paymentStore struct{ s *Store }

func (p paymentStore) Create(ctx context.Context, payment *domain.Payment) error {
	return p.s.CreatePayment(ctx, payment)
}

func (p paymentStore) GetByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return p.s.GetPaymentByID(ctx, paymentID)
}

func (p paymentStore) GetByAuctionID(ctx context.Context, auctionID string) (*domain.Payment, error) {
	return p.s.GetPaymentByAuctionID(ctx, auctionID)
}

func (p paymentStore) MarkRefunded(ctx context.Context, paymentID string, at time.Time) error {
	return p.s.MarkRefunded(ctx, paymentID, at)
}

type chargebackStore struct{ s *Store }

func (c chargebackStore) Upsert(ctx context.Context, event *domain.ChargebackEvent) (bool, domain.ChargebackStatus, error) {
	return c.s.UpsertChargeback(ctx, event)
}

func (c chargebackStore) GetByKey(ctx context.Context, gateway, chargebackID string) (*domain.ChargebackEvent, error) {
	return c.s.GetChargebackByKey(ctx, gateway, chargebackID)
}
