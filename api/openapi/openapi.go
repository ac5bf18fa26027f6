// Package openapi carries the OpenAPI document describing the HTTP API.
// The document is embedded so the binary serves it without needing the
// source tree at runtime.
package openapi

import _ "embed"

//go:embed users.swagger.json
var UsersSpec []byte
