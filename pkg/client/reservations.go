package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
)

const reservationsPath = "/reservation-service/api/reservations"

// Reservations lists all reservations.
func (s *Session) Reservations(ctx context.Context) ([]Reservation, error) {
	res, err := collect[Reservation](ctx, s, reservationsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	return res, nil
}

// ReservationsInfo lists reservations together with their allocation.
func (s *Session) ReservationsInfo(ctx context.Context) ([]ReservationInfo, error) {
	info, err := collect[ReservationInfo](ctx, s, reservationsPath+"/info", nil)
	if err != nil {
		return nil, fmt.Errorf("listing reservation info: %w", err)
	}
	return info, nil
}

// Reservation retrieves a reservation by id.
func (s *Session) Reservation(ctx context.Context, id string) (*Reservation, error) {
	var res Reservation
	if err := s.Do(ctx, http.MethodGet, reservationsPath+"/"+url.PathEscape(id), nil, nil, &res); err != nil {
		return nil, fmt.Errorf("getting reservation %q: %w", id, err)
	}
	return &res, nil
}

// CloneReservation creates a reservation named name from an existing one and
// returns the id of the new reservation. The clone keeps the business group
// of its source.
func (s *Session) CloneReservation(ctx context.Context, name, sourceID string) (string, error) {
	var source map[string]any
	if err := s.Do(ctx, http.MethodGet, reservationsPath+"/"+url.PathEscape(sourceID), nil, nil, &source); err != nil {
		return "", fmt.Errorf("getting reservation %q: %w", sourceID, err)
	}
	if source == nil {
		return "", &ParseError{Type: "Reservation", Err: fmt.Errorf("reservation %q: empty response body", sourceID)}
	}
	source["id"] = nil
	source["name"] = name

	resp, err := s.send(ctx, http.MethodPost, reservationsPath, nil, source)
	if err != nil {
		return "", fmt.Errorf("creating reservation %q: %w", name, err)
	}

	// The new id is only reported through the Location header.
	if loc := resp.header.Get("Location"); loc != "" {
		if u, err := url.Parse(loc); err == nil {
			return path.Base(u.Path), nil
		}
	}
	return "", nil
}
