package siteconfig

import "errors"

var (
	ErrNotFound      = errors.New("siteconfig: document not found")
	ErrInvalidConfig = errors.New("siteconfig: invalid document")
)
