package repository

import "errors"

var (
	ErrFailedToAppend = errors.New("failed to append run index entry")
	ErrFailedToRead   = errors.New("failed to read run index")
	ErrFailedToSync   = errors.New("failed to sync run index mirror")
	ErrFailedToQuery  = errors.New("failed to query run index mirror")
)
