package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMapsToAWSTypeAndStatus(t *testing.T) {
	cases := []struct {
		kind       Kind
		wantStatus int
		wantType   string
	}{
		{KindResourceNotFound, http.StatusBadRequest, "com.amazonaws.dynamodb.v20120810#ResourceNotFoundException"},
		{KindSerializationError, http.StatusBadRequest, "com.amazon.coral.service#SerializationException"},
		{KindUnimplemented, http.StatusNotImplemented, "com.amazon.coral.service#UnknownOperationException"},
		{KindInternalError, http.StatusInternalServerError, "com.amazon.coral.service#InternalFailure"},
	}
	for _, c := range cases {
		assert.Equal(t, c.wantStatus, c.kind.HTTPStatus(), "HTTPStatus for %s", c.kind)
		assert.Equal(t, c.wantType, c.kind.AWSType(), "AWSType for %s", c.kind)
	}
}

func TestUnknownKindFallsBackToInternalError(t *testing.T) {
	unknown := Kind("SomethingMadeUp")
	assert.Equal(t, http.StatusInternalServerError, unknown.HTTPStatus())
	assert.Equal(t, KindInternalError.AWSType(), unknown.AWSType())
}

func TestWrapPreservesCauseAndKind(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(KindInternalError, cause, "insert failed")

	var appErr *Error
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, KindInternalError, appErr.Kind)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestAsDefaultsPlainErrorsToInternalError(t *testing.T) {
	plain := stderrors.New("unexpected")
	appErr := As(plain)
	require.NotNil(t, appErr)
	assert.Equal(t, KindInternalError, appErr.Kind)
}

func TestAsReturnsUnderlyingAppError(t *testing.T) {
	original := New(KindMissingPartitionKey, "missing pk")
	appErr := As(original)
	require.NotNil(t, appErr)
	assert.Equal(t, KindMissingPartitionKey, appErr.Kind)
}
