// Package api holds the OpenAPI document for the HTTP API. The ctrest package
// is generated from it.
package api

import _ "embed"

//go:embed openapi.yaml
var Document []byte
