package commands

import "errors"

// errSilent signals a failure whose message has already been printed
var errSilent = errors.New("command failed")
