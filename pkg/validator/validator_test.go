package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexRequest struct {
	Code    string `json:"code" validate:"required,min=2"`
	Channel string `json:"channel" validate:"omitempty,oneof=WEB MOBILE"`
	PerPage int    `json:"per_page" validate:"omitempty,gte=1,lte=100"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(indexRequest{Code: "MUG", Channel: "WEB", PerPage: 20})
	assert.NoError(t, err)
}

func TestValidate_RequiredField(t *testing.T) {
	err := Validate(indexRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Code"])
}

func TestValidate_MinLength(t *testing.T) {
	err := Validate(indexRequest{Code: "M"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Code"], "at least 2")
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(indexRequest{Code: "MUG", Channel: "PRINT"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Channel"], "must be one of")
}

func TestValidate_Range(t *testing.T) {
	err := Validate(indexRequest{Code: "MUG", PerPage: 500})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["PerPage"], "less than or equal to 100")
}

func TestValidationError_ErrorJoinsMessages(t *testing.T) {
	err := Validate(indexRequest{Code: "", PerPage: 500})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code")
	assert.Contains(t, err.Error(), "PerPage")
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/index", strings.NewReader(`{"code": "MUG"}`))

	var req indexRequest
	require.NoError(t, DecodeAndValidate(r, &req))
	assert.Equal(t, "MUG", req.Code)

	r = httptest.NewRequest("POST", "/index", strings.NewReader(`{not json`))
	err := DecodeAndValidate(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
