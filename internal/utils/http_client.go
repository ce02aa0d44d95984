// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// HTTPClient is a wrapper around resty.Client. It embeds *resty.Client to
// expose all of its methods directly and paces outbound requests with an
// optional token bucket limiter.
//
// Example usage:
//
//	client := utils.NewHTTPClient(rate.NewLimiter(10, 5))
//	resp, err := client.R().SetContext(ctx).Get("https://example.com")
type HTTPClient struct {
	*resty.Client

	limiter *rate.Limiter
}

// NewHTTPClient creates an independent HTTPClient. When limiter is non-nil
// every request waits for a token before it is sent; the wait honours the
// request context, so a cancelled caller is not blocked by the limiter.
func NewHTTPClient(limiter *rate.Limiter) *HTTPClient {
	c := &HTTPClient{Client: resty.New(), limiter: limiter}

	if limiter != nil {
		c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			ctx := r.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return c.limiter.Wait(ctx)
		})
	}

	return c
}

// Limiter returns the limiter pacing the client, or nil.
func (c *HTTPClient) Limiter() *rate.Limiter {
	return c.limiter
}
