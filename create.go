package keycloak

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// CreatedID interprets the response of a create call. The admin API returns
// the new resource's ID only as the trailing segment of the 201 response's
// Location header, never in the body; failed creations carry an optional
// errorMessage field instead. Both quirks are handled here so the resource
// APIs can wrap their POST calls directly:
//
//	id, err := keycloak.CreatedID(c.kc.Send(ctx, http.MethodPost, "users", newUser, nil))
func CreatedID(resp *Response, err error) (string, error) {
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && len(reqErr.Body) > 0 {
			return "", creationError(reqErr)
		}
		return "", err
	}

	if resp.Status != http.StatusCreated {
		return "", &CreationError{Message: "entity creation failed"}
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", &CreationError{Message: `entity created without "Location" header`}
	}
	parts := strings.Split(strings.TrimSuffix(location, "/"), "/")
	return parts[len(parts)-1], nil
}

func creationError(reqErr *RequestError) error {
	var payload struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(reqErr.Body, &payload); err != nil {
		return &CreationError{Message: "unable to decode error response", Err: err}
	}
	if payload.ErrorMessage != "" {
		return &CreationError{Message: payload.ErrorMessage, Err: reqErr}
	}
	return &CreationError{Message: "entity creation failed", Err: reqErr}
}
