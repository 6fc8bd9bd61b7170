package services

import (
	"context"
	"fmt"
	"sync"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementStore is the slice of the ledger store the settlement state
// machine needs. Flip and revert must be atomic at the store level.
type SettlementStore interface {
	FetchAgencyCharges(ctx context.Context, agencyID domain.ID, window domain.DateRange) ([]domain.LedgerEntry, error)
	PersistSettlementFlip(ctx context.Context, agencyID domain.ID, window domain.DateRange, batchID string, chargeIDs []domain.ID) error
	RevertSettlementFlip(ctx context.Context, chargeIDs []domain.ID) error
}

// SettlementService drives the per-agency pay/cancel state machine:
// Pendente (nothing paid) -> Parcial (some paid) -> Pago (all paid).
// Settle mutations for one agency are serialized through a per-agency mutex
// so two concurrent settles cannot double-flip the same pending set.
type SettlementService struct {
	Store     SettlementStore
	RequestID string

	mu    sync.Mutex
	locks map[domain.ID]*sync.Mutex
}

func NewSettlementService(store SettlementStore) *SettlementService {
	return &SettlementService{
		Store: store,
		locks: make(map[domain.ID]*sync.Mutex),
	}
}

func (s *SettlementService) agencyLock(agencyID domain.ID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[agencyID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[agencyID] = l
	}
	return l
}

// SettlePeriod marks every pending charge of the agency inside [start, end]
// as paid under a fresh batch id and returns exactly the ids it flipped.
// With nothing newly pending it is a no-op: FlippedIDs is empty and the
// status reflects the ledger as it stands.
func (s *SettlementService) SettlePeriod(ctx context.Context, agencyID domain.ID, start, end string) (domain.SettlementReceipt, error) {
	window, err := settlementWindow(start, end)
	if err != nil {
		return domain.SettlementReceipt{}, err
	}

	lock := s.agencyLock(agencyID)
	lock.Lock()
	defer lock.Unlock()

	charges, err := s.Store.FetchAgencyCharges(ctx, agencyID, window)
	if err != nil {
		return domain.SettlementReceipt{}, err
	}

	receipt := domain.SettlementReceipt{
		AgencyID:   agencyID,
		Period:     window,
		FlippedIDs: []domain.ID{},
	}

	pendingIDs := []domain.ID{}
	pendingAmount := decimal.Zero
	for _, c := range charges {
		if !c.Paid {
			pendingIDs = append(pendingIDs, c.ID)
			pendingAmount = pendingAmount.Add(c.Amount)
		}
	}

	if len(pendingIDs) == 0 {
		receipt.Status = statusOf(charges)
		utils.LogEvent(s.RequestID, "settlement", "settle",
			fmt.Sprintf("agency=%d period=%s..%s noop status=%s", agencyID, window.Start, window.End, receipt.Status))
		return receipt, nil
	}

	batchID := uuid.NewString()
	if err := s.Store.PersistSettlementFlip(ctx, agencyID, window, batchID, pendingIDs); err != nil {
		return domain.SettlementReceipt{}, err
	}

	receipt.BatchID = batchID
	receipt.PaidAmount = pendingAmount
	receipt.FlippedIDs = pendingIDs
	receipt.Status = domain.SettlementPago

	utils.LogEvent(s.RequestID, "settlement", "settle",
		fmt.Sprintf("agency=%d period=%s..%s batch=%s flipped=%d amount=%s",
			agencyID, window.Start, window.End, batchID, len(pendingIDs), pendingAmount.String()))
	return receipt, nil
}

// CancelSettlement reverts the given charge ids back to pending. Ids that
// are unknown or already pending are ignored, never an error, so retries of
// the same cancellation stay idempotent. The store applies the revert as one
// atomic write; charges paid by a different batch and not named here are
// untouched.
func (s *SettlementService) CancelSettlement(ctx context.Context, chargeIDs []domain.ID) (domain.CancelReceipt, error) {
	ids := dedupeIDs(chargeIDs)
	if len(ids) == 0 {
		return domain.CancelReceipt{RevertedIDs: []domain.ID{}}, nil
	}

	if err := s.Store.RevertSettlementFlip(ctx, ids); err != nil {
		return domain.CancelReceipt{}, err
	}

	utils.LogEvent(s.RequestID, "settlement", "cancel", fmt.Sprintf("reverted=%d", len(ids)))
	return domain.CancelReceipt{RevertedIDs: ids}, nil
}

// AgencyView computes the settlement picture for an agency/period from the
// charge ledger. Never stored; always derived.
func (s *SettlementService) AgencyView(ctx context.Context, agencyID domain.ID, start, end string) (domain.AgencySettlementView, error) {
	window, err := settlementWindow(start, end)
	if err != nil {
		return domain.AgencySettlementView{}, err
	}

	charges, err := s.Store.FetchAgencyCharges(ctx, agencyID, window)
	if err != nil {
		return domain.AgencySettlementView{}, err
	}

	view := domain.AgencySettlementView{
		AgencyID:      agencyID,
		Period:        window,
		SettlementIDs: []domain.ID{},
		Daily:         []domain.AgencyChargeDay{},
	}

	dayIndex := map[string]int{}
	var lastBatch string
	var lastPaidAt string
	for _, c := range charges {
		i, ok := dayIndex[c.Date]
		if !ok {
			i = len(view.Daily)
			dayIndex[c.Date] = i
			view.Daily = append(view.Daily, domain.AgencyChargeDay{Date: c.Date, EntryIDs: []domain.ID{}})
		}
		d := &view.Daily[i]
		d.TotalValue = d.TotalValue.Add(c.Amount)
		d.EntryIDs = append(d.EntryIDs, c.ID)
		view.TotalValueToPay = view.TotalValueToPay.Add(c.Amount)

		if c.Paid {
			d.PaidValue = d.PaidValue.Add(c.Amount)
			view.TotalValuePaid = view.TotalValuePaid.Add(c.Amount)
			if c.SettlementID != "" && c.PaidAt >= lastPaidAt {
				lastPaidAt = c.PaidAt
				lastBatch = c.SettlementID
			}
		}
	}

	if lastBatch != "" {
		for _, c := range charges {
			if c.Paid && c.SettlementID == lastBatch {
				view.SettlementIDs = append(view.SettlementIDs, c.ID)
			}
		}
	}

	view.Status = statusOf(charges)
	return view, nil
}

// statusOf derives the three-state settlement status from the raw ledger:
// nothing paid (or no charges) is Pendente, everything paid is Pago,
// anything in between is Parcial.
func statusOf(charges []domain.LedgerEntry) domain.SettlementStatus {
	paid := 0
	for _, c := range charges {
		if c.Paid {
			paid++
		}
	}
	switch {
	case len(charges) == 0 || paid == 0:
		return domain.SettlementPendente
	case paid == len(charges):
		return domain.SettlementPago
	default:
		return domain.SettlementParcial
	}
}

func settlementWindow(start, end string) (domain.DateRange, error) {
	if !utils.ValidDate(start) {
		return domain.DateRange{}, domain.ValidationError{Field: "start", Msg: fmt.Sprintf("invalid date %q", start)}
	}
	if !utils.ValidDate(end) {
		return domain.DateRange{}, domain.ValidationError{Field: "end", Msg: fmt.Sprintf("invalid date %q", end)}
	}
	if end < start {
		return domain.DateRange{}, domain.ValidationError{Field: "end", Msg: "before start"}
	}
	return domain.DateRange{Start: start, End: end}, nil
}

func dedupeIDs(ids []domain.ID) []domain.ID {
	seen := make(map[domain.ID]struct{}, len(ids))
	out := make([]domain.ID, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
