package validator

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pledgeRequest struct {
	GiftID string `json:"gift_id" validate:"required"`
	Mode   string `json:"mode" validate:"required,oneof=full partial"`
	Amount int64  `json:"amount" validate:"omitempty,gt=0"`
}

func TestValidate_Valid(t *testing.T) {
	req := pledgeRequest{GiftID: "g-1", Mode: "partial", Amount: 50000}
	assert.NoError(t, Validate(req))
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(pledgeRequest{Mode: "full"})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "is required", valErr.Fields()["GiftID"])
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(pledgeRequest{GiftID: "g-1", Mode: "bogus"})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields()["Mode"], "must be one of")
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"gift_id":"g-1","mode":"full"}`))
	var req pledgeRequest
	require.NoError(t, DecodeAndValidate(r, &req))
	assert.Equal(t, "g-1", req.GiftID)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	err := DecodeAndValidate(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
