// Package wscutils holds the request and response envelope shared by all web
// services, together with the catalog that maps error codes to message IDs.
package wscutils

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed errortypes.yaml
var defaultErrorTypes []byte

var (
	mu         sync.RWMutex
	errorTypes map[string]int // errcode -> msgid
)

func init() {
	if err := yaml.Unmarshal(defaultErrorTypes, &errorTypes); err != nil {
		panic(fmt.Sprintf("wscutils: bad embedded error types: %v", err))
	}
}

// LoadErrorTypes replaces the error catalog with the YAML mapping read from r.
// The mapping must contain the "unknown" error code.
func LoadErrorTypes(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read error types: %w", err)
	}

	var types map[string]int
	if err := yaml.Unmarshal(data, &types); err != nil {
		return fmt.Errorf("parse error types: %w", err)
	}
	if _, ok := types[ErrcodeUnknown]; !ok {
		return fmt.Errorf("error types: missing %q", ErrcodeUnknown)
	}

	mu.Lock()
	errorTypes = types
	mu.Unlock()
	return nil
}

// MsgID returns the message ID for errcode, falling back to the ID of the
// "unknown" error code.
func MsgID(errcode string) int {
	mu.RLock()
	defer mu.RUnlock()
	if id, ok := errorTypes[errcode]; ok {
		return id
	}
	log.Printf("Unrecognized errcode: %s", errcode)
	return errorTypes[ErrcodeUnknown]
}

// Request represents the standard structure of a request to the web service.
type Request struct {
	Data any `json:"data" binding:"required"`
}

// Response represents the standard structure of a response of the web service.
type Response struct {
	Status   string         `json:"status"`
	Data     any            `json:"data"`
	Messages []ErrorMessage `json:"messages"`
}

// ErrorMessage defines the format of error part of the standard response object
type ErrorMessage struct {
	MsgID   int      `json:"msgid"`
	ErrCode string   `json:"errcode"`
	Field   *string  `json:"field,omitempty"`
	Vals    []string `json:"vals,omitempty"`
}

// BuildErrorMessage generates an ErrorMessage for errcode, taking the message
// ID from the catalog.
//
//	BuildErrorMessage("invalid_amount", nil)
//	BuildErrorMessage("unexpected_event", nil, "ONAPPUNINSTALL")
func BuildErrorMessage(errcode string, field *string, vals ...string) ErrorMessage {
	return ErrorMessage{
		MsgID:   MsgID(errcode),
		ErrCode: errcode,
		Field:   field,
		Vals:    vals,
	}
}

// WscValidate validates data according to its `validate` struct tags and
// returns one ErrorMessage per failed field. The validation tag is used as
// the error code. getVals supplies the request-specific vals and may be nil.
func WscValidate[T any](data T, getVals func(err validator.FieldError) []string) []ErrorMessage {
	var validationErrors []ErrorMessage

	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []ErrorMessage{BuildErrorMessage(ErrcodeBadRequest, nil)}
	}
	for _, fe := range validationErrs {
		var vals []string
		if getVals != nil {
			vals = getVals(fe)
		}
		field := fe.Field()
		validationErrors = append(validationErrors, BuildErrorMessage(fe.Tag(), &field, vals...))
	}
	return validationErrors
}

// validator caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// NewResponse is a helper function to create a new web service response.
func NewResponse(status string, data any, messages []ErrorMessage) *Response {
	return &Response{
		Status:   status,
		Data:     data,
		Messages: messages,
	}
}

// NewErrorResponse creates a standard error response with a single message.
func NewErrorResponse(errcode string, vals ...string) *Response {
	return NewResponse(ErrorStatus, nil, []ErrorMessage{BuildErrorMessage(errcode, nil, vals...)})
}

// NewSuccessResponse simplifies the process of creating a standard success response
func NewSuccessResponse(data any) *Response {
	return NewResponse(SuccessStatus, data, nil)
}

// BindJSON binds the JSON envelope {"data": ...} into data. On failure it
// writes a 400 invalid_json response and returns the bind error.
func BindJSON(c *gin.Context, data any) error {
	req := Request{Data: data}
	if err := c.ShouldBindJSON(&req); err != nil {
		SendErrorResponse(c, http.StatusBadRequest, NewErrorResponse(ErrcodeInvalidJson))
		return err
	}
	return nil
}

// SendSuccessResponse sends a JSON response.
func SendSuccessResponse(c *gin.Context, response *Response) {
	c.JSON(http.StatusOK, response)
}

// SendErrorResponse sends a JSON error response with the given status code.
func SendErrorResponse(c *gin.Context, status int, response *Response) {
	c.AbortWithStatusJSON(status, response)
}
