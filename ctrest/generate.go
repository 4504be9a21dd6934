// Package ctrest contains the types, client and chi server bindings generated
// from api/openapi.yaml.
package ctrest

//go:generate go tool oapi-codegen -config cfg.yaml ../api/openapi.yaml
