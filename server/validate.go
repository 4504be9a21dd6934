package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/krelinga/chunked-transcoder/api"
)

// newRequestValidator checks each request against the OpenAPI document
// before it reaches a handler.
func newRequestValidator() (func(http.Handler) http.Handler, error) {
	doc, err := openapi3.NewLoader().LoadFromData(api.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	// Match on path alone, whatever host the server is reached through.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			var routeErr *routers.RouteError
			if errors.As(err, &routeErr) {
				// Unknown routes are left to the router to reject.
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequest, err)
				return
			}

			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			})
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
