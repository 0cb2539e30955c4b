// Package swagger serves the OpenAPI document and its ReDoc viewer.
package swagger

import _ "embed"

// OpenAPI is the API description served at /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
