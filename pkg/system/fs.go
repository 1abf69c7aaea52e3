package system

import "github.com/spf13/afero"

// AppFs is the default filesystem used by command wiring. Steps receive
// an afero.Fs explicitly so tests can substitute an in-memory or
// tempdir-backed filesystem per test instead of swapping a global.
var AppFs afero.Fs = afero.NewOsFs()
