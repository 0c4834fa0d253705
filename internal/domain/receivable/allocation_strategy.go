package receivable

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/strategy"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// AllocationStrategyType defines how a payment is distributed across outstanding sales
type AllocationStrategyType string

const (
	AllocationStrategyOverdueFirst AllocationStrategyType = "OVERDUE_FIRST" // Most overdue sales first
	AllocationStrategyOldestFirst  AllocationStrategyType = "OLDEST_FIRST"  // Earliest sale date first
	AllocationStrategyHighestFirst AllocationStrategyType = "HIGHEST_FIRST" // Largest outstanding amount first
	AllocationStrategyManual       AllocationStrategyType = "MANUAL"        // Caller-specified per-sale amounts
)

// IsValid checks if the strategy type is valid
func (t AllocationStrategyType) IsValid() bool {
	switch t {
	case AllocationStrategyOverdueFirst, AllocationStrategyOldestFirst,
		AllocationStrategyHighestFirst, AllocationStrategyManual:
		return true
	}
	return false
}

// String returns the string representation
func (t AllocationStrategyType) String() string {
	return string(t)
}

// AllAllocationStrategyTypes returns all valid allocation strategy types
func AllAllocationStrategyTypes() []AllocationStrategyType {
	return []AllocationStrategyType{
		AllocationStrategyOverdueFirst,
		AllocationStrategyOldestFirst,
		AllocationStrategyHighestFirst,
		AllocationStrategyManual,
	}
}

// AllocationCandidate represents an outstanding sale eligible for allocation
type AllocationCandidate struct {
	SaleID            uuid.UUID       // ID of the sale
	SaleNumber        string          // Number for display purposes
	SaleDate          time.Time       // Sale date for age ordering
	DueDate           *time.Time      // Due date, nil when open-ended
	OutstandingAmount decimal.Decimal // Amount still outstanding
	DaysOverdue       int             // Days past due as of the allocation date
}

// AllocationLine represents a single proposed allocation
type AllocationLine struct {
	SaleID     uuid.UUID       // Target sale
	SaleNumber string          // Number of the target sale
	Amount     decimal.Decimal // Amount to allocate
}

// AllocationPlan represents the complete result of an allocation strategy run
type AllocationPlan struct {
	Lines                 []AllocationLine // Proposed allocations in order
	TotalAllocated        decimal.Decimal  // Total amount allocated
	RemainingAmount       decimal.Decimal  // Amount left unallocated
	FullyAllocated        bool             // True if the whole payment was allocated
	SalesFullySettled     []uuid.UUID      // Sales that would reach zero outstanding
	SalesPartiallySettled []uuid.UUID      // Sales that would remain partially outstanding
}

// AllocationStrategy is the interface for payment allocation strategies
type AllocationStrategy interface {
	strategy.Strategy
	// StrategyType returns the allocation strategy type
	StrategyType() AllocationStrategyType
	// Allocate calculates how to distribute the given amount across candidates
	Allocate(amount valueobject.Money, candidates []AllocationCandidate) (*AllocationPlan, error)
}

// emptyPlan returns a plan with nothing allocated
func emptyPlan(amount decimal.Decimal) *AllocationPlan {
	return &AllocationPlan{
		Lines:                 make([]AllocationLine, 0),
		TotalAllocated:        decimal.Zero,
		RemainingAmount:       amount,
		FullyAllocated:        false,
		SalesFullySettled:     make([]uuid.UUID, 0),
		SalesPartiallySettled: make([]uuid.UUID, 0),
	}
}

// greedyAllocate walks the candidates in order, giving each the smaller of the
// remaining payment and its outstanding amount, stopping once nothing remains.
func greedyAllocate(amount decimal.Decimal, ordered []AllocationCandidate) *AllocationPlan {
	lines := make([]AllocationLine, 0)
	fullySettled := make([]uuid.UUID, 0)
	partiallySettled := make([]uuid.UUID, 0)
	remaining := amount
	totalAllocated := decimal.Zero

	for _, c := range ordered {
		if remaining.IsZero() {
			break
		}
		if c.OutstandingAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		allocAmount := decimal.Min(remaining, c.OutstandingAmount)

		lines = append(lines, AllocationLine{
			SaleID:     c.SaleID,
			SaleNumber: c.SaleNumber,
			Amount:     allocAmount,
		})

		totalAllocated = totalAllocated.Add(allocAmount)
		remaining = remaining.Sub(allocAmount)

		if allocAmount.GreaterThanOrEqual(c.OutstandingAmount) {
			fullySettled = append(fullySettled, c.SaleID)
		} else {
			partiallySettled = append(partiallySettled, c.SaleID)
		}
	}

	return &AllocationPlan{
		Lines:                 lines,
		TotalAllocated:        totalAllocated,
		RemainingAmount:       remaining,
		FullyAllocated:        remaining.IsZero(),
		SalesFullySettled:     fullySettled,
		SalesPartiallySettled: partiallySettled,
	}
}

// sortedStrategy shares the sort-then-greedy mechanics of the automatic strategies
type sortedStrategy struct {
	strategy.BaseStrategy
	strategyType AllocationStrategyType
	less         func(a, b AllocationCandidate) bool
}

// StrategyType returns the allocation strategy type
func (s *sortedStrategy) StrategyType() AllocationStrategyType {
	return s.strategyType
}

// Allocate sorts the candidates by the strategy's order and allocates greedily
func (s *sortedStrategy) Allocate(amount valueobject.Money, candidates []AllocationCandidate) (*AllocationPlan, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if len(candidates) == 0 {
		return emptyPlan(amount.Amount()), nil
	}

	ordered := make([]AllocationCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return s.less(ordered[i], ordered[j])
	})

	return greedyAllocate(amount.Amount(), ordered), nil
}

// NewOverdueFirstStrategy allocates to the most overdue sales first,
// tie-broken by earliest sale date
func NewOverdueFirstStrategy() AllocationStrategy {
	return &sortedStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"overdue_first_allocation",
			strategy.StrategyTypeAllocation,
			"Allocates to the most overdue sales first, oldest sale date breaking ties",
		),
		strategyType: AllocationStrategyOverdueFirst,
		less: func(a, b AllocationCandidate) bool {
			if a.DaysOverdue != b.DaysOverdue {
				return a.DaysOverdue > b.DaysOverdue
			}
			return a.SaleDate.Before(b.SaleDate)
		},
	}
}

// NewOldestFirstStrategy allocates to the earliest sales first by sale date
func NewOldestFirstStrategy() AllocationStrategy {
	return &sortedStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"oldest_first_allocation",
			strategy.StrategyTypeAllocation,
			"Allocates to the earliest sales first by sale date",
		),
		strategyType: AllocationStrategyOldestFirst,
		less: func(a, b AllocationCandidate) bool {
			return a.SaleDate.Before(b.SaleDate)
		},
	}
}

// NewHighestFirstStrategy allocates to the largest outstanding balances first
func NewHighestFirstStrategy() AllocationStrategy {
	return &sortedStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"highest_first_allocation",
			strategy.StrategyTypeAllocation,
			"Allocates to the largest outstanding balances first",
		),
		strategyType: AllocationStrategyHighestFirst,
		less: func(a, b AllocationCandidate) bool {
			return a.OutstandingAmount.GreaterThan(b.OutstandingAmount)
		},
	}
}

// AllocateToSelected runs the greedy allocation over the caller-selected subset
// of candidates, in their existing relative order. Unselected candidates
// receive nothing.
func AllocateToSelected(amount valueobject.Money, candidates []AllocationCandidate, selected []uuid.UUID) (*AllocationPlan, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	selectedSet := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}

	filtered := make([]AllocationCandidate, 0, len(selected))
	for _, c := range candidates {
		if _, ok := selectedSet[c.SaleID]; ok {
			filtered = append(filtered, c)
		}
	}

	return greedyAllocate(amount.Amount(), filtered), nil
}

// ManualAllocationInput is a caller-specified allocation to one sale
type ManualAllocationInput struct {
	SaleID uuid.UUID       // Target sale
	Amount decimal.Decimal // Amount to allocate
}

// ManualAllocationStrategy applies caller-specified per-sale amounts without
// sorting or greedy distribution. Amounts are validated against the payment
// total and each sale's current outstanding balance.
type ManualAllocationStrategy struct {
	strategy.BaseStrategy
	inputs []ManualAllocationInput
}

// NewManualAllocationStrategy creates a manual strategy with the given allocations
func NewManualAllocationStrategy(inputs []ManualAllocationInput) *ManualAllocationStrategy {
	return &ManualAllocationStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"manual_allocation",
			strategy.StrategyTypeAllocation,
			"Applies caller-specified per-sale amounts, validated but not redistributed",
		),
		inputs: inputs,
	}
}

// StrategyType returns the allocation strategy type
func (s *ManualAllocationStrategy) StrategyType() AllocationStrategyType {
	return AllocationStrategyManual
}

// GetInputs returns the configured manual allocations
func (s *ManualAllocationStrategy) GetInputs() []ManualAllocationInput {
	return s.inputs
}

// Allocate validates the manual allocations against the payment amount and
// each sale's outstanding balance
func (s *ManualAllocationStrategy) Allocate(amount valueobject.Money, candidates []AllocationCandidate) (*AllocationPlan, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	candidateMap := make(map[uuid.UUID]*AllocationCandidate, len(candidates))
	for i := range candidates {
		candidateMap[candidates[i].SaleID] = &candidates[i]
	}

	lines := make([]AllocationLine, 0, len(s.inputs))
	fullySettled := make([]uuid.UUID, 0)
	partiallySettled := make([]uuid.UUID, 0)
	totalAllocated := decimal.Zero

	for _, input := range s.inputs {
		candidate, exists := candidateMap[input.SaleID]
		if !exists {
			return nil, shared.NewDomainError("INVALID_SALE",
				"Allocation references a sale that is not outstanding: "+input.SaleID.String())
		}
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
		}
		if input.Amount.GreaterThan(candidate.OutstandingAmount) {
			return nil, shared.NewDomainError("ALLOCATION_EXCEEDS_OUTSTANDING",
				"Allocation of "+input.Amount.StringFixed(2)+" exceeds outstanding "+candidate.OutstandingAmount.StringFixed(2)+" for sale "+candidate.SaleNumber)
		}

		lines = append(lines, AllocationLine{
			SaleID:     candidate.SaleID,
			SaleNumber: candidate.SaleNumber,
			Amount:     input.Amount,
		})

		totalAllocated = totalAllocated.Add(input.Amount)

		if input.Amount.GreaterThanOrEqual(candidate.OutstandingAmount) {
			fullySettled = append(fullySettled, candidate.SaleID)
		} else {
			partiallySettled = append(partiallySettled, candidate.SaleID)
		}

		// Track the balance in case the same sale appears twice
		candidate.OutstandingAmount = candidate.OutstandingAmount.Sub(input.Amount)
	}

	if totalAllocated.GreaterThan(amount.Amount()) {
		return nil, shared.NewDomainError("ALLOCATION_EXCEEDS_PAYMENT",
			"Allocated amount "+totalAllocated.StringFixed(2)+" exceeds payment amount "+amount.Amount().StringFixed(2))
	}

	remaining := amount.Amount().Sub(totalAllocated)

	return &AllocationPlan{
		Lines:                 lines,
		TotalAllocated:        totalAllocated,
		RemainingAmount:       remaining,
		FullyAllocated:        remaining.IsZero(),
		SalesFullySettled:     fullySettled,
		SalesPartiallySettled: partiallySettled,
	}, nil
}

// AllocationStrategyFactory creates allocation strategies
type AllocationStrategyFactory struct{}

// NewAllocationStrategyFactory creates a new factory
func NewAllocationStrategyFactory() *AllocationStrategyFactory {
	return &AllocationStrategyFactory{}
}

// GetStrategy returns a strategy by type. Manual strategies require
// allocation inputs; automatic strategies ignore them.
func (f *AllocationStrategyFactory) GetStrategy(strategyType AllocationStrategyType, inputs []ManualAllocationInput) (AllocationStrategy, error) {
	switch strategyType {
	case AllocationStrategyOverdueFirst:
		return NewOverdueFirstStrategy(), nil
	case AllocationStrategyOldestFirst:
		return NewOldestFirstStrategy(), nil
	case AllocationStrategyHighestFirst:
		return NewHighestFirstStrategy(), nil
	case AllocationStrategyManual:
		if len(inputs) == 0 {
			return nil, shared.NewDomainError("INVALID_ALLOCATIONS", "Manual strategy requires allocation inputs")
		}
		return NewManualAllocationStrategy(inputs), nil
	default:
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Unknown allocation strategy type")
	}
}

// CandidatesFromSales converts outstanding sales to allocation candidates
// as of the given date
func CandidatesFromSales(sales []Sale, asOf time.Time) []AllocationCandidate {
	candidates := make([]AllocationCandidate, 0, len(sales))
	for i := range sales {
		s := &sales[i]
		if !s.IsOutstanding() {
			continue
		}
		candidates = append(candidates, AllocationCandidate{
			SaleID:            s.ID,
			SaleNumber:        s.SaleNumber,
			SaleDate:          s.SaleDate,
			DueDate:           s.DueDate,
			OutstandingAmount: s.OutstandingAmount,
			DaysOverdue:       s.DaysOverdue(asOf),
		})
	}
	return candidates
}
