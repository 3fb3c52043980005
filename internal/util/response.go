package util

import (
	"errors"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response is the envelope every gridwatch endpoint answers with.
// Fleet responses put the orchestrator's diagnostic (demo fallback reason) in Message.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo is the error half of the envelope
type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError names one request field that failed binding
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SendSuccessWithMessage answers 200 with data and message; an empty message is omitted
func SendSuccessWithMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Message: message})
}

func SendCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

// SendError writes err as an error envelope. Anything that is not an *AppError is
// reported as a generic 500 so internal messages never reach the client.
func SendError(c *gin.Context, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		appErr = ErrInternalServer("Internal server error")
	}
	writeError(c, appErr.StatusCode, &ErrorInfo{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// SendBindError reports a request that gin could not bind. Validation failures list
// the offending fields by their JSON names; malformed bodies get a plain message.
func SendBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(c, http.StatusBadRequest, &ErrorInfo{
			Code:    ErrCodeValidation,
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: jsonFieldName(fe.Field()), Rule: fe.Tag()})
	}
	writeError(c, http.StatusBadRequest, &ErrorInfo{
		Code:    ErrCodeValidation,
		Message: "Validation failed",
		Details: fields,
	})
}

// AbortWithError writes err and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	SendError(c, err)
	c.Abort()
}

func AbortWithCustomError(c *gin.Context, statusCode int, code, message string) {
	writeError(c, statusCode, &ErrorInfo{Code: code, Message: message})
	c.Abort()
}

func writeError(c *gin.Context, statusCode int, info *ErrorInfo) {
	c.JSON(statusCode, Response{Success: false, Error: info})
}

// jsonFieldName turns a Go field name into its camelCase JSON name: UpperLimit -> upperLimit,
// APIKey -> apiKey.
func jsonFieldName(name string) string {
	runes := []rune(name)
	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
