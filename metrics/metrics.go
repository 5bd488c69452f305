package metrics

import (
	"errors"
	"time"

	"github.com/prebid/gpp-codec/errortypes"
)

// Operation is the codec operation being measured.
type Operation string

const (
	OperationEncode Operation = "encode"
	OperationDecode Operation = "decode"
)

func OperationTypes() []Operation {
	return []Operation{
		OperationEncode,
		OperationDecode,
	}
}

// Status is the outcome of an operation.
type Status string

const (
	// StatusOK means the operation succeeded.
	StatusOK Status = "ok"
	// StatusBadInput means the string or a field value could not be represented.
	StatusBadInput Status = "badinput"
	// StatusErr means the caller referenced a section or field which does not exist.
	StatusErr Status = "err"
)

func StatusTypes() []Status {
	return []Status{
		StatusOK,
		StatusBadInput,
		StatusErr,
	}
}

// StatusFromError maps the error returned by an operation to its Status label.
func StatusFromError(err error) Status {
	if err == nil {
		return StatusOK
	}
	var encodingErr *errortypes.Encoding
	var decodingErr *errortypes.Decoding
	if errors.As(err, &encodingErr) || errors.As(err, &decodingErr) {
		return StatusBadInput
	}
	return StatusErr
}

// CacheResult tells whether a decoded snapshot was served from the cache.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
)

func CacheResults() []CacheResult {
	return []CacheResult{
		CacheHit,
		CacheMiss,
	}
}

// Labels defines the labels that can be attached to the operation metrics.
type Labels struct {
	Operation Operation
	Status    Status
}

// MetricsEngine is a generic interface to record codec metrics into the desired backend.
// The first three metrics function fire once per Encode or Decode. RecordSection fires
// once per section written or read.
type MetricsEngine interface {
	RecordOperation(labels Labels)
	RecordOperationTime(labels Labels, length time.Duration)
	RecordSection(section string, operation Operation)
	RecordSnapshotCache(result CacheResult)
}
