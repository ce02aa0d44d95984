// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/moodlehq/moodleapp-sub049/internal/utils"
)

// mapHTTPError classifies a non-2xx response. A response becomes a
// [*RejectionError] only when its status describes the request itself and
// its body is the authority's {error_code, message} document; anything
// else, such as a proxy error page, is transient.
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch status {
	case http.StatusBadRequest,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusConflict,
		http.StatusUnprocessableEntity:
		if rejection, ok := decodeRejection(status, body); ok {
			return rejection
		}
	}

	if body == "" {
		body = http.StatusText(status)
	}
	return fmt.Errorf("%w: http %d: %s", ErrTransient, status, body)
}

func decodeRejection(status int, body string) (*RejectionError, bool) {
	var decoded utils.ErrorBody
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, false
	}
	if decoded.ErrorCode == "" || decoded.Message == "" {
		return nil, false
	}

	return &RejectionError{StatusCode: status, Code: decoded.ErrorCode, Message: decoded.Message}, true
}
