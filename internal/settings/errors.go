package settings

import "errors"

var (
	ErrNeighborhoodNotFound = errors.New("neighborhood not found")
	ErrSocialLinkNotFound   = errors.New("social link not found")
)
