package services

import (
	"errors"

	"github.com/oneair/oneair-store-api/repository"
)

// Error kinds reported per id by bulk operations
const (
	ErrorKindNotFound   = "not_found"
	ErrorKindValidation = "validation"
	ErrorKindConflict   = "conflict"
	ErrorKindStoreWrite = "store_write"
	ErrorKindInternal   = "internal"
)

// ErrorKind classifies err into one of the bulk outcome kinds
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrorKindNotFound
	case errors.Is(err, repository.ErrValidation):
		return ErrorKindValidation
	case errors.Is(err, repository.ErrConflict):
		return ErrorKindConflict
	case errors.Is(err, repository.ErrStoreWrite):
		return ErrorKindStoreWrite
	default:
		return ErrorKindInternal
	}
}

// BulkOutcome is the result of a bulk action for one order
type BulkOutcome struct {
	OrderID string `json:"order_id"`
	OK      bool   `json:"ok"`
	Kind    string `json:"error_kind,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkResult lists one outcome per distinct id, in the order the ids were given
type BulkResult struct {
	Outcomes  []BulkOutcome `json:"outcomes"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

func (r *BulkResult) record(id string, err error) {
	if err == nil {
		r.Outcomes = append(r.Outcomes, BulkOutcome{OrderID: id, OK: true})
		r.Succeeded++
		return
	}
	r.Outcomes = append(r.Outcomes, BulkOutcome{OrderID: id, Kind: ErrorKind(err), Error: err.Error()})
	r.Failed++
}

// Outcome returns the outcome recorded for id
func (r *BulkResult) Outcome(id string) (BulkOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.OrderID == id {
			return o, true
		}
	}
	return BulkOutcome{}, false
}
