package openapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/pkg/errors"

	"github.com/wallarm/gotestoffsets/internal/scanner/clients"
	"github.com/wallarm/gotestoffsets/internal/scanner/types"
)

// Validator checks API responses against the OpenAPI description.
type Validator struct {
	router  routers.Router
	baseURL string
}

func NewValidator(ctx context.Context, location string, targetURL string) (*Validator, error) {
	baseURL := strings.TrimSuffix(targetURL, "/")

	_, router, err := LoadOpenAPISpec(ctx, location, baseURL)
	if err != nil {
		return nil, err
	}

	return &Validator{
		router:  router,
		baseURL: baseURL,
	}, nil
}

// ValidateListing checks a list offsets response: the status must be
// documented and the body must match the documented schema.
func (v *Validator) ValidateListing(ctx context.Context, resp types.Response) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+clients.ListOffsetsPath, nil)
	if err != nil {
		return errors.Wrap(err, "couldn't prepare request")
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return errors.Wrap(err, "couldn't find route")
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: resp.GetStatusCode(),
		Header: resp.GetHeaders(),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}
	input.SetBodyBytes(resp.GetContent())

	err = openapi3filter.ValidateResponse(ctx, input)
	if err != nil {
		return errors.Wrap(err, "response doesn't match the API description")
	}

	return nil
}
