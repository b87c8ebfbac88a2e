// Package static holds the assets bundled into the binary.
package static

import _ "embed"

// AdminPage is the single-page admin front-end.
//
//go:embed admin.html
var AdminPage string
