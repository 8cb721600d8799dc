package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const requestsPath = "/catalog-service/api/consumer/requests"

// Requests lists all catalog requests visible to the user.
func (s *Session) Requests(ctx context.Context) ([]CatalogRequest, error) {
	reqs, err := collect[CatalogRequest](ctx, s, requestsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	return reqs, nil
}

// Request retrieves a catalog request by id.
func (s *Session) Request(ctx context.Context, id string) (*CatalogRequest, error) {
	var req CatalogRequest
	if err := s.Do(ctx, http.MethodGet, requestsPath+"/"+url.PathEscape(id), nil, nil, &req); err != nil {
		return nil, fmt.Errorf("getting request %q: %w", id, err)
	}
	return &req, nil
}

// RequestResourceViews lists the resources provisioned by a request.
func (s *Session) RequestResourceViews(ctx context.Context, id string) ([]ResourceView, error) {
	views, err := collect[ResourceView](ctx, s, requestsPath+"/"+url.PathEscape(id)+"/resourceViews", nil)
	if err != nil {
		return nil, fmt.Errorf("listing resources of request %q: %w", id, err)
	}
	return views, nil
}

// WaitForRequest polls a request every interval until it reaches a terminal
// state. onPoll, when non-nil, is called with every fetched state.
//
// It returns the request on SUCCESSFUL, *RequestFailedError on a failure
// state, and the context error when ctx is done first.
func (s *Session) WaitForRequest(ctx context.Context, id string, interval time.Duration, onPoll func(*CatalogRequest)) (*CatalogRequest, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		req, err := s.Request(ctx, id)
		if err != nil {
			return nil, err
		}
		if onPoll != nil {
			onPoll(req)
		}

		slog.Debug("polled catalog request",
			slog.String("request_id", id),
			slog.String("state", req.State),
			slog.String("phase", req.Phase),
		)

		switch {
		case req.Succeeded():
			return req, nil
		case req.Failed():
			return req, &RequestFailedError{Request: req}
		}

		select {
		case <-ctx.Done():
			return req, ctx.Err()
		case <-ticker.C:
		}
	}
}
