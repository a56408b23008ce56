package background

import (
	"context"
	"log"
	"time"

	auctionuc "github.com/staynest/auction-service/internal/usecase/auction"
	paymentuc "github.com/staynest/auction-service/internal/usecase/payment"
	splituc "github.com/staynest/auction-service/internal/usecase/split"
)

// BackgroundTasks owns the periodic sweeps: auction activation, auction
// close, payment-deadline enforcement and split retries. All deadline
// behavior in the service is driven by these database-backed sweeps, so a
// crashed instance loses no timers.
type BackgroundTasks struct {
	AuctionUsecase auctionuc.AuctionUsecase
	PaymentUsecase paymentuc.PaymentUsecase
	SplitUsecase   splituc.SplitUsecase
}

func NewBackgroundTasks(auctionUC auctionuc.AuctionUsecase, paymentUC paymentuc.PaymentUsecase, splitUC splituc.SplitUsecase) *BackgroundTasks {
	return &BackgroundTasks{
		AuctionUsecase: auctionUC,
		PaymentUsecase: paymentUC,
		SplitUsecase:   splitUC,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startAuctionActivation(ctx)
	go bt.startAuctionClose(ctx)
	go bt.startPaymentDeadlineEnforcement(ctx)
	go bt.startSplitRetries(ctx)
}

// RunStartupRecovery performs one eager pass of every sweep so deadlines
// that lapsed while the service was down are enforced before traffic is
// served.
func (bt *BackgroundTasks) RunStartupRecovery(ctx context.Context) {
	if err := bt.AuctionUsecase.ActivateDueAuctions(ctx); err != nil {
		log.Printf("startup activation sweep failed: %v", err)
	}
	if err := bt.AuctionUsecase.CloseDueAuctions(ctx); err != nil {
		log.Printf("startup close sweep failed: %v", err)
	}
	if err := bt.PaymentUsecase.EnforcePaymentDeadlines(ctx); err != nil {
		log.Printf("startup payment deadline sweep failed: %v", err)
	}
	if err := bt.SplitUsecase.RetryDueSplits(ctx); err != nil {
		log.Printf("startup split retry sweep failed: %v", err)
	}
}

func (bt *BackgroundTasks) startAuctionActivation(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.AuctionUsecase.ActivateDueAuctions(ctx); err != nil {
				log.Printf("activation sweep error: %v", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startAuctionClose(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.AuctionUsecase.CloseDueAuctions(ctx); err != nil {
				log.Printf("close sweep error: %v", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startPaymentDeadlineEnforcement(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.PaymentUsecase.EnforcePaymentDeadlines(ctx); err != nil {
				log.Printf("payment deadline sweep error: %v", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startSplitRetries(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.SplitUsecase.RetryDueSplits(ctx); err != nil {
				log.Printf("split retry sweep error: %v", err)
			}
		}
	}
}
