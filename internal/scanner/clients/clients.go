package clients

import (
	"context"

	"github.com/wallarm/gotestoffsets/internal/offset"
	"github.com/wallarm/gotestoffsets/internal/scanner/types"
)

const (
	ListOffsetsPath = "/api/getConsumptionOffsets"
	AddOffsetPath   = "/api/addConsumptionOffset"
)

// HTTPClient is an interface that defines the calls of the consumption
// offsets API. Transport failures (timeouts, refused connections) are
// returned as errors, any HTTP status is a response.
type HTTPClient interface {
	// ListOffsets fetches the current offsets listing.
	ListOffsets(ctx context.Context) (types.Response, error)

	// AddOffset creates or updates an offset. A nil payload sends the
	// request without a body.
	AddOffset(ctx context.Context, payload *offset.Offset) (types.Response, error)
}
