package content

import "errors"

// ErrContentRequired indicates the required content field is empty.
var ErrContentRequired = errors.New("content is required")

// ErrInvalidType indicates a content_type outside its enumeration.
var ErrInvalidType = errors.New("invalid content type")

// ErrInvalidStatus indicates a status outside its enumeration.
var ErrInvalidStatus = errors.New("invalid status")

// ErrTitleTooLong indicates a title exceeding 255 characters.
var ErrTitleTooLong = errors.New("title exceeds maximum length")

// ErrPlatformTooLong indicates a platform exceeding 50 characters.
var ErrPlatformTooLong = errors.New("platform exceeds maximum length")
