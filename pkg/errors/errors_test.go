package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error_WithDetail(t *testing.T) {
	err := New(ErrCodeRunNotFound, "run not found").WithDetail("id=abc")
	assert.Equal(t, "[RUN_001] run not found: id=abc", err.Error())
}

func TestAppError_Error_WithoutDetail(t *testing.T) {
	err := New(ErrCodeRunNotFound, "run not found")
	assert.Equal(t, "[RUN_001] run not found", err.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "whatever"))
}

func TestWrap_PreservesCodeWhenUnknown(t *testing.T) {
	inner := New(ErrCodeDocumentPayloadInvalid, "bad payload")
	outer := Wrap(inner, CodeUnknown, "extraction step failed")
	assert.Equal(t, ErrCodeDocumentPayloadInvalid, outer.Code)
}

func TestWrap_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, ErrCodeDatabaseError, "query failed")
	assert.True(t, stderrors.Is(err, cause))
}

func TestIsCode_TraversesChain(t *testing.T) {
	inner := New(ErrCodeRunNotFound, "missing")
	wrapped := fmt.Errorf("outer: %w", inner)
	assert.True(t, IsCode(wrapped, ErrCodeRunNotFound))
	assert.False(t, IsCode(wrapped, ErrCodeDocumentNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeRunNotFound, "x")))
	assert.True(t, IsNotFound(New(ErrCodeDocumentNotFound, "x")))
	assert.True(t, IsNotFound(New(ErrCodeProfileNotFound, "x")))
	assert.False(t, IsNotFound(New(ErrCodeConflict, "x")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeCacheError, GetCode(New(ErrCodeCacheError, "x")))
}

func TestWithDetail_NilReceiver(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("anything"))
}

func TestWithCause_ShallowCopy(t *testing.T) {
	orig := New(ErrCodeInternal, "base")
	cause := stderrors.New("root")
	clone := orig.WithCause(cause)
	require.NotSame(t, orig, clone)
	assert.Nil(t, orig.Cause)
	assert.Equal(t, cause, clone.Cause)
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, 404, HTTPStatusForCode(ErrCodeRunNotFound))
	assert.Equal(t, 422, HTTPStatusForCode(ErrCodeDocumentPayloadInvalid))
	assert.Equal(t, 500, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestClientServerErrorClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.False(t, IsServerError(ErrCodeBadRequest))
	assert.True(t, IsServerError(ErrCodeDatabaseError))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "RUN", ModuleForCode(ErrCodeRunNotFound))
	assert.Equal(t, "EXT", ModuleForCode(ErrCodeExtractionTimeout))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
}
