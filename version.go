package plenum

import _ "embed"

// Version of the plenum module.
//
//go:embed VERSION
var Version string
