package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
	assert.Empty(t, resp.Code)
}

func TestErrorWithCode(t *testing.T) {
	resp := ErrorWithCode(CodeInsufficientCoins, "not enough coins")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "not enough coins", resp.Error)
	assert.Equal(t, CodeInsufficientCoins, resp.Code)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		PlanID string `validate:"required,uuid"`
		PIN    string `validate:"numeric"`
	}

	v := validator.New()
	ts := TestStruct{
		PlanID: "not-a-uuid",
		PIN:    "abcd",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.NotEmpty(t, resp.Error)

	errMsg := resp.Error
	assert.Contains(t, errMsg, "field PlanID can contain only uuid")
	assert.Contains(t, errMsg, "field PIN can contain only numbers")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		Name string `validate:"required"`
	}

	v := validator.New()
	ts := TestStruct{}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Name is a required field")
}
