package output

import (
	"context"

	"github.com/crimson-sun/subword/internal/model"
)

// Output defines the interface for encode record destinations.
type Output interface {
	Write(ctx context.Context, rec model.Record) error
	Close() error
}
