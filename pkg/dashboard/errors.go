package dashboard

import "errors"

var errUnknownScreen = errors.New("unknown screen kind")
