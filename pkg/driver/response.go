package driver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/unproducts/unmail/pkg/mail"
	"github.com/unproducts/unmail/pkg/transport"
)

// DefaultSuccessMessage is used when a vendor answers without an identifier.
const DefaultSuccessMessage = "Email sent successfully"

// ErrorStatus returns the vendor status carried by err, or 500 when the
// vendor never answered.
func ErrorStatus(err error) int {
	var terr *transport.Error
	if errors.As(err, &terr) && terr.HasResponse() {
		return terr.Status
	}
	return http.StatusInternalServerError
}

// ErrorBody returns the raw vendor body carried by err, if any.
func ErrorBody(err error) []byte {
	var terr *transport.Error
	if errors.As(err, &terr) {
		return terr.Data
	}
	return nil
}

// DecodeErrorBody unmarshals the vendor body carried by err into v.
// It reports whether a body was present and decoded.
func DecodeErrorBody(err error, v any) bool {
	data := ErrorBody(err)
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Success builds a successful response.
func Success(code int, message string) *mail.SendMailResponse {
	return &mail.SendMailResponse{Success: true, Code: code, Message: message}
}

// FailureResponse builds a failed response for a transport error.
func FailureResponse(err error, message string, payload Payload) *mail.SendMailResponse {
	resp := &mail.SendMailResponse{
		Success: false,
		Code:    ErrorStatus(err),
		Message: message,
		Error:   err,
	}
	if payload != nil {
		resp.Payload = payload
	}
	return resp
}

// RawMessage renders the vendor error body as the failure message, falling
// back to the error text when the vendor sent nothing.
func RawMessage(err error) string {
	if data := ErrorBody(err); len(data) > 0 {
		return string(data)
	}
	var terr *transport.Error
	if errors.As(err, &terr) && terr.Err != nil {
		return terr.Err.Error()
	}
	return err.Error()
}
