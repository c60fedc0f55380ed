package wscutils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAmount struct {
	Amount   string `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

func TestSendSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendSuccessResponse(c, NewSuccessResponse("test data"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"success","data":"test data","messages":null}`, w.Body.String())
}

func TestSendErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response *Response
		expected string
	}{
		{
			name:     "invalid amount",
			status:   http.StatusBadRequest,
			response: NewErrorResponse(ErrcodeInvalidAmount),
			expected: `{"status":"error","data":null,"messages":[{"msgid":1101,"errcode":"invalid_amount"}]}`,
		},
		{
			name:     "amount too large",
			status:   http.StatusUnprocessableEntity,
			response: NewErrorResponse(ErrcodeAmountTooLarge),
			expected: `{"status":"error","data":null,"messages":[{"msgid":1102,"errcode":"amount_too_large"}]}`,
		},
		{
			name:     "with vals",
			status:   http.StatusBadRequest,
			response: NewErrorResponse(ErrcodeUnexpectedEvent, "ONAPPUNINSTALL"),
			expected: `{"status":"error","data":null,"messages":[{"msgid":1201,"errcode":"unexpected_event","vals":["ONAPPUNINSTALL"]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			SendErrorResponse(c, tt.status, tt.response)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.expected, w.Body.String())
			assert.True(t, c.IsAborted())
		})
	}
}

func TestBuildErrorMessageUnknownCode(t *testing.T) {
	msg := BuildErrorMessage("no_such_code", nil)
	assert.Equal(t, 9999, msg.MsgID)
	assert.Equal(t, "no_such_code", msg.ErrCode)
}

func TestLoadErrorTypes(t *testing.T) {
	defer func() {
		require.NoError(t, LoadErrorTypes(bytes.NewReader(defaultErrorTypes)))
	}()

	require.NoError(t, LoadErrorTypes(strings.NewReader("unknown: 1\ninvalid_amount: 42\n")))
	assert.Equal(t, 42, MsgID(ErrcodeInvalidAmount))
	assert.Equal(t, 1, MsgID(ErrcodeAmountTooLarge))

	assert.Error(t, LoadErrorTypes(strings.NewReader("invalid_amount: 42\n")))
	assert.Error(t, LoadErrorTypes(strings.NewReader("- not\n- a map\n")))
	assert.Equal(t, 42, MsgID(ErrcodeInvalidAmount), "failed loads keep the previous catalog")
}

func TestWscValidate(t *testing.T) {
	amountField := "Amount"
	currencyField := "Currency"

	getVals := func(err validator.FieldError) []string {
		if err.Tag() == "len" {
			return []string{err.Param()}
		}
		return nil
	}

	tests := []struct {
		name  string
		input testAmount
		want  []ErrorMessage
	}{
		{
			name:  "valid",
			input: testAmount{Amount: "10.00", Currency: "RUB"},
			want:  nil,
		},
		{
			name:  "missing amount",
			input: testAmount{},
			want:  []ErrorMessage{{MsgID: 1003, ErrCode: "required", Field: &amountField}},
		},
		{
			name:  "bad currency length",
			input: testAmount{Amount: "1", Currency: "RUBLE"},
			want:  []ErrorMessage{{MsgID: 9999, ErrCode: "len", Field: &currencyField, Vals: []string{"3"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WscValidate(tt.input, getVals))
		})
	}
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     testAmount
		wantCode int
		wantErr  bool
	}{
		{
			name:     "envelope",
			body:     `{"data": {"amount": "12.50"}}`,
			want:     testAmount{Amount: "12.50"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong structure",
			body:     `{"data": "12.50"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  true,
		},
		{
			name:     "malformed",
			body:     `{"data": }`,
			wantCode: http.StatusBadRequest,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			var data testAmount
			err := BindJSON(c, &data)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr {
				assert.Error(t, err)
				assert.JSONEq(t, `{"status":"error","data":null,"messages":[{"msgid":1001,"errcode":"invalid_json"}]}`, w.Body.String())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}
