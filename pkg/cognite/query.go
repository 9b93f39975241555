package cognite

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidPartition is returned when a "p/N" partition string fails to parse.
var ErrInvalidPartition = errors.New("invalid partition string")

// Partition identifies one of N independent slices of a filter query. It
// renders as the literal string "p/N" on the wire and parses back the
// same way.
type Partition struct {
	Index int
	Of    int
}

func (p Partition) String() string {
	return fmt.Sprintf("%d/%d", p.Index, p.Of)
}

// ParsePartition parses the "p/N" wire form produced by Partition.String.
func ParsePartition(s string) (Partition, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return Partition{}, fmt.Errorf("%w: invalid partition %q", ErrInvalidPartition, s)
	}

	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return Partition{}, fmt.Errorf("%w: invalid partition %q", ErrInvalidPartition, s)
	}

	of, err := strconv.Atoi(parts[1])
	if err != nil {
		return Partition{}, fmt.Errorf("%w: invalid partition %q", ErrInvalidPartition, s)
	}

	return Partition{Index: idx, Of: of}, nil
}

// QueryParams accumulates query-string parameters for a request, flattening
// repeated values into one pair per element and omitting absent options.
type QueryParams struct {
	values url.Values
}

// NewQueryParams returns an empty QueryParams builder.
func NewQueryParams() *QueryParams {
	return &QueryParams{values: url.Values{}}
}

// Set adds a single scalar parameter. A zero-value v is still sent: call
// sites that want "omit when absent" should use SetOptional instead.
func (q *QueryParams) Set(key, value string) *QueryParams {
	q.values.Add(key, value)

	return q
}

// SetOptional adds key=value only when present is true, implementing the
// "absent options are omitted, never sent as empty strings" rule.
func (q *QueryParams) SetOptional(key string, value string, present bool) *QueryParams {
	if present {
		q.values.Add(key, value)
	}

	return q
}

// SetInt adds a single integer parameter.
func (q *QueryParams) SetInt(key string, value int) *QueryParams {
	q.values.Add(key, strconv.Itoa(value))

	return q
}

// SetBool adds a single boolean parameter.
func (q *QueryParams) SetBool(key string, value bool) *QueryParams {
	q.values.Add(key, strconv.FormatBool(value))

	return q
}

// SetPartition adds a partition parameter using its "p/N" wire form.
func (q *QueryParams) SetPartition(key string, p Partition) *QueryParams {
	q.values.Add(key, p.String())

	return q
}

// SetEach adds one key=value pair per element of values, per the "vectors
// of primitive values flatten into one pair per element" rule.
func (q *QueryParams) SetEach(key string, values []string) *QueryParams {
	for _, v := range values {
		q.values.Add(key, v)
	}

	return q
}

// SetJoined adds a single key=v1,v2,v3 parameter, for the rare endpoint
// that wants a comma-joined list instead of repeated keys.
func (q *QueryParams) SetJoined(key string, values []string) *QueryParams {
	if len(values) == 0 {
		return q
	}

	q.values.Add(key, strings.Join(values, ","))

	return q
}

// Values returns the accumulated url.Values.
func (q *QueryParams) Values() url.Values {
	if q == nil {
		return url.Values{}
	}

	return q.values
}
