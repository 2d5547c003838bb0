package http

import "errors"

var (
	errInvalidBody     = errors.New("request body must be JSON with a question field")
	errBlankQuestion   = errors.New("question must not be blank")
	errQuestionTooLong = errors.New("question is too long")
)

const maxQuestionLen = 4096
