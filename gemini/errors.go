package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrEmptyResponse is returned when the model answers with no text
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrNoAssets is returned when a lecture is requested without materials
	ErrNoAssets = errors.New("at least one asset is required")
)

// RemoteServiceError wraps every failure of a provider call
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// CredentialError marks a failure caused by a missing or rejected API key.
// The user should be asked to select a key again.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	if e.Err == nil {
		return "invalid or missing API key"
	}
	return "credential rejected: " + e.Err.Error()
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response to a plain HTTP request
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// IsCredentialError reports whether err was caused by the API key
func IsCredentialError(err error) bool {
	var credErr *CredentialError
	return errors.As(err, &credErr)
}

var credentialSignatures = []string{
	"Requested entity was not found",
	"API key not valid",
	"API_KEY_INVALID",
	"PERMISSION_DENIED",
}

func isCredentialFailure(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return true
		}
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden {
			return true
		}
	}
	msg := err.Error()
	for _, sig := range credentialSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// wrap classifies err and wraps it in a RemoteServiceError
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var remote *RemoteServiceError
	if errors.As(err, &remote) {
		return err
	}
	if !IsCredentialError(err) && isCredentialFailure(err) {
		err = &CredentialError{Err: err}
	}
	return &RemoteServiceError{Op: op, Err: err}
}
