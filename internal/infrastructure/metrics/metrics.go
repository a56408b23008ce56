package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AuctionMetrics bundles every Prometheus vector the service exports.
type AuctionMetrics struct {
	BidsAcceptedTotal   prometheus.CounterVec
	BidsRejectedTotal   prometheus.CounterVec
	BidConflictsTotal   prometheus.CounterVec
	AutoBidsPlacedTotal prometheus.CounterVec
	BidAcceptDuration   prometheus.HistogramVec

	AuctionsActivatedTotal prometheus.CounterVec
	AuctionsEndedTotal     prometheus.CounterVec
	AuctionsCancelledTotal prometheus.CounterVec
	AuctionExtensionsTotal prometheus.CounterVec
	ActiveAuctionsGauge    prometheus.GaugeVec

	PaymentsCapturedTotal    prometheus.CounterVec
	PaymentsCapturedAmount   prometheus.CounterVec
	ForfeituresTotal         prometheus.CounterVec
	SplitTransfersTotal      prometheus.CounterVec
	SplitTransferAmountTotal prometheus.CounterVec
	SplitRetriesTotal        prometheus.CounterVec

	WebhooksReceivedTotal  prometheus.CounterVec
	WebhooksRejectedTotal  prometheus.CounterVec
	ChargebacksOpenedTotal prometheus.CounterVec
	SplitReversalsTotal    prometheus.CounterVec
}

func NewAuctionMetrics() *AuctionMetrics {
	return &AuctionMetrics{
		BidsAcceptedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_bids_accepted_total",
				Help: "Number of bids accepted into the ledger",
			},
			[]string{"currency", "auto"},
		),

		BidsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_bids_rejected_total",
				Help: "Number of bids rejected, by reason",
			},
			[]string{"reason"},
		),

		BidConflictsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_bid_conflicts_total",
				Help: "Number of optimistic-concurrency conflicts during bid acceptance",
			},
			[]string{"outcome"},
		),

		AutoBidsPlacedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_auto_bids_placed_total",
				Help: "Number of counter-bids placed by standing proxies",
			},
			[]string{"currency"},
		),

		BidAcceptDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auction_bid_accept_duration_seconds",
				Help:    "Wall time of the full bid acceptance path",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"outcome"},
		),

		AuctionsActivatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctions_activated_total",
				Help: "Number of auctions moved scheduled -> active",
			},
			[]string{},
		),

		AuctionsEndedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctions_ended_total",
				Help: "Number of auctions closed, by whether a winner existed",
			},
			[]string{"with_winner"},
		),

		AuctionsCancelledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctions_cancelled_total",
				Help: "Number of auctions cancelled by their host",
			},
			[]string{},
		),

		AuctionExtensionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_extensions_total",
				Help: "Number of late-bid closing-time extensions granted",
			},
			[]string{},
		),

		ActiveAuctionsGauge: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "auctions_active",
				Help: "Auctions currently accepting bids",
			},
			[]string{},
		),

		PaymentsCapturedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_payments_captured_total",
				Help: "Number of winner payments captured",
			},
			[]string{"currency"},
		),

		PaymentsCapturedAmount: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_payments_captured_amount_total",
				Help: "Total captured amount",
			},
			[]string{"currency"},
		),

		ForfeituresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_forfeitures_total",
				Help: "Number of winner forfeitures, by outcome of the promotion",
			},
			[]string{"outcome"},
		),

		SplitTransfersTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_split_transfers_total",
				Help: "Number of split transfers, by terminal status",
			},
			[]string{"recipient_type", "status"},
		),

		SplitTransferAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_split_transfer_amount_total",
				Help: "Total amount disbursed to recipients",
			},
			[]string{"recipient_type", "currency"},
		),

		SplitRetriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_split_retries_total",
				Help: "Number of failed split transfers re-queued for retry",
			},
			[]string{},
		),

		WebhooksReceivedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_webhooks_received_total",
				Help: "Number of webhook deliveries accepted for processing",
			},
			[]string{"gateway"},
		),

		WebhooksRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_webhooks_rejected_total",
				Help: "Number of webhook deliveries rejected, by reason",
			},
			[]string{"gateway", "reason"},
		),

		ChargebacksOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chargebacks_opened_total",
				Help: "Number of distinct chargebacks recorded",
			},
			[]string{"gateway"},
		),

		SplitReversalsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_split_reversals_total",
				Help: "Number of completed splits reversed after a lost chargeback",
			},
			[]string{"recipient_type"},
		),
	}
}

func (m *AuctionMetrics) RecordBidAccepted(currency string, auto bool) {
	autoLabel := "false"
	if auto {
		autoLabel = "true"
		m.AutoBidsPlacedTotal.WithLabelValues(currency).Inc()
	}
	m.BidsAcceptedTotal.WithLabelValues(currency, autoLabel).Inc()
}

func (m *AuctionMetrics) RecordBidRejected(reason string) {
	m.BidsRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *AuctionMetrics) RecordBidConflict(outcome string) {
	m.BidConflictsTotal.WithLabelValues(outcome).Inc()
}

func (m *AuctionMetrics) RecordBidAcceptDuration(outcome string, seconds float64) {
	m.BidAcceptDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *AuctionMetrics) RecordAuctionActivated() {
	m.AuctionsActivatedTotal.WithLabelValues().Inc()
	m.ActiveAuctionsGauge.WithLabelValues().Inc()
}

func (m *AuctionMetrics) RecordAuctionEnded(withWinner bool) {
	label := "false"
	if withWinner {
		label = "true"
	}
	m.AuctionsEndedTotal.WithLabelValues(label).Inc()
	m.ActiveAuctionsGauge.WithLabelValues().Dec()
}

func (m *AuctionMetrics) RecordAuctionCancelled(wasActive bool) {
	m.AuctionsCancelledTotal.WithLabelValues().Inc()
	if wasActive {
		m.ActiveAuctionsGauge.WithLabelValues().Dec()
	}
}

func (m *AuctionMetrics) RecordExtension() {
	m.AuctionExtensionsTotal.WithLabelValues().Inc()
}

func (m *AuctionMetrics) RecordPaymentCaptured(currency string, amount float64) {
	m.PaymentsCapturedTotal.WithLabelValues(currency).Inc()
	m.PaymentsCapturedAmount.WithLabelValues(currency).Add(amount)
}

func (m *AuctionMetrics) RecordForfeiture(outcome string) {
	m.ForfeituresTotal.WithLabelValues(outcome).Inc()
}

func (m *AuctionMetrics) RecordSplitTransfer(recipientType, status string) {
	m.SplitTransfersTotal.WithLabelValues(recipientType, status).Inc()
}

func (m *AuctionMetrics) RecordSplitAmount(recipientType, currency string, amount float64) {
	m.SplitTransferAmountTotal.WithLabelValues(recipientType, currency).Add(amount)
}

func (m *AuctionMetrics) RecordSplitRetry() {
	m.SplitRetriesTotal.WithLabelValues().Inc()
}

func (m *AuctionMetrics) RecordWebhookReceived(gateway string) {
	m.WebhooksReceivedTotal.WithLabelValues(gateway).Inc()
}

func (m *AuctionMetrics) RecordWebhookRejected(gateway, reason string) {
	m.WebhooksRejectedTotal.WithLabelValues(gateway, reason).Inc()
}

func (m *AuctionMetrics) RecordChargebackOpened(gateway string) {
	m.ChargebacksOpenedTotal.WithLabelValues(gateway).Inc()
}

func (m *AuctionMetrics) RecordSplitReversal(recipientType string) {
	m.SplitReversalsTotal.WithLabelValues(recipientType).Inc()
}
