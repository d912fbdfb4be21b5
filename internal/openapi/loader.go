package openapi

import (
	"context"
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	routers_legacy "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/pkg/errors"
)

//go:embed consumption_offsets.yaml
var defaultSpec []byte

// LoadOpenAPISpec loads an openAPI file, parses it and validates data. An
// empty location loads the built-in description of the consumption offsets
// API. The target URL is added to the servers so that requests sent to it
// can be routed.
func LoadOpenAPISpec(ctx context.Context, location string, targetURL string) (*openapi3.T, routers.Router, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	var (
		doc *openapi3.T
		err error
	)

	if location == "" {
		doc, err = loader.LoadFromData(defaultSpec)
	} else {
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "couldn't load OpenAPI file")
	}

	doc.Servers = append(doc.Servers, &openapi3.Server{
		URL: targetURL,
	})

	err = doc.Validate(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "couldn't validate OpenAPI spec")
	}

	router, err := routers_legacy.NewRouter(doc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "couldn't create router from OpenAPI spec")
	}

	return doc, router, nil
}
