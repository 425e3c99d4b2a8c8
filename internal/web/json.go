// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/samber/oops"

	"github.com/natours/identity/pkg/errutil"
)

type envelope map[string]any

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errutil.LogErrorContext(r.Context(), h.logger, "write response failed",
			oops.Code("HTTP_WRITE_FAILED").Wrap(err))
	}
}

// decodeBody reads a JSON or url-encoded form body into dst. Form fields
// are matched to dst's json tags.
func decodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")) //nolint:errcheck // empty on failure
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(32 << 10); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return bodyError(err)
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return oops.Code("HTTP_DECODE_FAILED").Wrap(err)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return oops.Code(CodeBadRequest).Errorf("Invalid request body")
		}
		return nil
	default:
		if r.Body == nil || r.ContentLength == 0 {
			return nil
		}
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(dst); err != nil {
			return bodyError(err)
		}
		return nil
	}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return oops.Code(CodeBodyTooLarge).
			With("limit", tooLarge.Limit).
			Errorf("Request body is larger than %d bytes", tooLarge.Limit)
	}
	return oops.Code(CodeBadRequest).Errorf("Invalid request body")
}
