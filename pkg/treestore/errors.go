package treestore

import (
	"errors"
)

var (
	errEmptyPath               = errors.New("path must contain at least one segment")
	errUnknownBackend          = errors.New("unknown store backend")
	errCredentialsFileRequired = errors.New("firebase.credentials_file is required")
	errDatabaseURLRequired     = errors.New("firebase.database_url is required")
	errNatsURLRequired         = errors.New("nats.url is required")
	errNatsTLSIncomplete       = errors.New("nats tls requires cert_file, key_file, and ca_file")
)
