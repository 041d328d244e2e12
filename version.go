package inkwell

import _ "embed"

// Version exposes the version of the library, kept in version.txt so release
// tooling can bump it without touching code.
//
//go:embed version.txt
var Version string
