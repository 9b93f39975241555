package cognite

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_FormattingWithRequestID(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindNotFound, Code: 404, Message: "asset not found", RequestID: "req-1"}
	assert.Equal(t, "404: asset not found. RequestId: req-1", err.Error())
}

func TestError_FormattingWithoutRequestID(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindBadRequest, Code: 400, Message: "bad filter"}
	assert.Equal(t, "400: bad filter", err.Error())
}

func TestError_IsMatchesOnKindOnly(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindNotFound, Code: 404, Message: "whatever", RequestID: "req-9"}
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: KindConflict}))
}

func TestNewAPIError_StatusSelectsKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{400, KindBadRequest},
		{401, KindUnauthorized},
		{403, KindForbidden},
		{404, KindNotFound},
		{409, KindConflict},
		{422, KindUnprocessableEntity},
		{500, KindOtherAPI},
	}

	for _, tc := range cases {
		body := []byte(`{"error":{"code":` + strconv.Itoa(tc.status) + `,"message":"boom"}}`)
		err := newAPIError(tc.status, "req-1", body)
		assert.Equal(t, tc.kind, err.Kind, "status %d", tc.status)
		assert.Equal(t, "req-1", err.RequestID)
	}
}

func TestNewAPIError_UndecodableBodyFallsBackToOtherAPI(t *testing.T) {
	t.Parallel()

	err := newAPIError(500, "", []byte("not json"))
	assert.Equal(t, KindOtherAPI, err.Kind)
	assert.Equal(t, 500, err.Code)
}

func TestGetMissingFromResult(t *testing.T) {
	t.Parallel()

	body := []byte(`{"error":{"code":400,"message":"missing time series","missing":[{"externalId":"ts-x"},{"externalId":"ts-y"}]}}`)
	err := newAPIError(400, "", body)

	missing := GetMissingFromResult(err)
	require.Len(t, missing, 2)

	extA, _ := missing[0].ExternalID()
	extB, _ := missing[1].ExternalID()
	assert.Equal(t, "ts-x", extA)
	assert.Equal(t, "ts-y", extB)
}

func TestGetMissingFromResult_NilWhenNotAMissingError(t *testing.T) {
	t.Parallel()

	err := newAPIError(404, "", []byte(`{"error":{"code":404,"message":"not found"}}`))
	assert.Nil(t, GetMissingFromResult(err))
	assert.Nil(t, GetMissingFromResult(errors.New("unrelated")))
}
