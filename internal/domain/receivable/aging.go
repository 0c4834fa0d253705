package receivable

import (
	"time"
)

// AgingBucket classifies an outstanding balance by how many days past due it is
type AgingBucket string

const (
	AgingBucketCurrent     AgingBucket = "CURRENT"       // not yet due or up to 30 days overdue
	AgingBucket31To60      AgingBucket = "DAYS_31_60"    // 31-60 days overdue
	AgingBucket61To90      AgingBucket = "DAYS_61_90"    // 61-90 days overdue
	AgingBucket91To120     AgingBucket = "DAYS_91_120"   // 91-120 days overdue
	AgingBucket120Plus     AgingBucket = "DAYS_120_PLUS" // more than 120 days overdue
)

// String returns the string representation
func (b AgingBucket) String() string {
	return string(b)
}

// IsValid returns true if the bucket is a known value
func (b AgingBucket) IsValid() bool {
	switch b {
	case AgingBucketCurrent, AgingBucket31To60, AgingBucket61To90, AgingBucket91To120, AgingBucket120Plus:
		return true
	default:
		return false
	}
}

// AllAgingBuckets returns the buckets in ascending age order
func AllAgingBuckets() []AgingBucket {
	return []AgingBucket{
		AgingBucketCurrent,
		AgingBucket31To60,
		AgingBucket61To90,
		AgingBucket91To120,
		AgingBucket120Plus,
	}
}

// CollectionPriority indicates how urgently an outstanding sale should be chased
type CollectionPriority string

const (
	PriorityHigh   CollectionPriority = "HIGH"
	PriorityMedium CollectionPriority = "MEDIUM"
	PriorityLow    CollectionPriority = "LOW"
)

// String returns the string representation
func (p CollectionPriority) String() string {
	return string(p)
}

// Rank returns a sortable weight, higher is more urgent
func (p CollectionPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// DaysOverdue returns the number of whole days the due date lies in the past
// relative to asOf. Returns 0 when dueDate is nil or not yet reached.
func DaysOverdue(dueDate *time.Time, asOf time.Time) int {
	if dueDate == nil {
		return 0
	}
	days := int(asOf.Sub(*dueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ClassifyAging buckets an outstanding balance by its due date.
// Boundaries are inclusive-lower, exclusive-upper on days overdue:
// CURRENT [0,31), 31-60 [31,61), 61-90 [61,91), 91-120 [91,121), 120+ [121,...).
func ClassifyAging(dueDate *time.Time, asOf time.Time) (AgingBucket, int) {
	days := DaysOverdue(dueDate, asOf)
	return BucketForDays(days), days
}

// BucketForDays maps a days-overdue count to its aging bucket
func BucketForDays(days int) AgingBucket {
	switch {
	case days <= 30:
		return AgingBucketCurrent
	case days <= 60:
		return AgingBucket31To60
	case days <= 90:
		return AgingBucket61To90
	case days <= 120:
		return AgingBucket91To120
	default:
		return AgingBucket120Plus
	}
}

// PriorityForDays maps a days-overdue count to a collection priority:
// HIGH above 60 days, MEDIUM above 30 days, LOW otherwise.
func PriorityForDays(days int) CollectionPriority {
	switch {
	case days > 60:
		return PriorityHigh
	case days > 30:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
