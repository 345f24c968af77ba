package portfolio

import "errors"

var (
	ErrNotFound    = errors.New("artwork not found")
	ErrForbidden   = errors.New("not the owner of this artwork")
	ErrArtistsOnly = errors.New("only artists have portfolios")
)
