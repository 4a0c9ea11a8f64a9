// Package db provides the embedded product fixture served by the
// development stub server.
package db

import _ "embed"

// Products is the catalog fixture in the GET /product response shape.
//
//go:embed seed/products.json
var Products []byte
