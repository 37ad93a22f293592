package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shandysiswandi/duoweb/internal/pkg/goerror"
)

const (
	maxBodyBytes = 64 * 1024

	contentTypeForm = "application/x-www-form-urlencoded"
)

// Request is the inbound request handed to a Handler.
type Request struct {
	*http.Request
}

// IsForm reports whether the body is form-encoded, as posted by the Duo
// widget.
func (r *Request) IsForm() bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == contentTypeForm
}

// GetForm returns the trimmed value of a form field. The body is parsed once
// and capped at maxBodyBytes.
func (r *Request) GetForm(key string) (string, error) {
	if r.PostForm == nil {
		if r.Body == nil {
			return "", goerror.NewInvalidFormat()
		}
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return "", goerror.NewInvalidFormat()
		}
	}

	return strings.TrimSpace(r.PostForm.Get(key)), nil
}

// DecodeBody decodes exactly one JSON value into dst. Unknown fields and
// trailing data are rejected.
func (r *Request) DecodeBody(dst any) error {
	if r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
