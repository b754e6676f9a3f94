package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

var ErrorInUse = errors.New("record is referenced by other records")
