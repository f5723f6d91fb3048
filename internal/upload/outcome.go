package upload

import (
	"fmt"
	"strings"
)

// Visibility controls whether an upload is listed publicly.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// ParseVisibility accepts "public" or "private".
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case Public:
		return Public, nil
	case Private:
		return Private, nil
	}
	return "", fmt.Errorf("invalid visibility %q", s)
}

// Toggle flips between public and private.
func (v Visibility) Toggle() Visibility {
	if v == Private {
		return Public
	}
	return Private
}

// Intent is a validated file waiting to be submitted.
type Intent struct {
	File       File
	Visibility Visibility
}

// OutcomeKind classifies the result of one submission.
type OutcomeKind int

const (
	Succeeded OutcomeKind = iota + 1
	RateLimited
	Rejected
	TransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case RateLimited:
		return "rate_limited"
	case Rejected:
		return "rejected"
	case TransportFailure:
		return "transport_failure"
	default:
		return "none"
	}
}

// Outcome is the terminal result of one submission attempt.
type Outcome struct {
	Kind OutcomeKind
	// ShareURL is set for Succeeded, exactly as the backend returned it.
	ShareURL string
	// Message is the response body for Rejected and the generic text for TransportFailure.
	Message string
	// Err holds the transport error behind a TransportFailure, for logging.
	Err error
}

func Success(url string) Outcome { return Outcome{Kind: Succeeded, ShareURL: url} }

func Limited() Outcome { return Outcome{Kind: RateLimited} }

func Rejection(body string) Outcome { return Outcome{Kind: Rejected, Message: body} }

func Failure(err error) Outcome {
	return Outcome{Kind: TransportFailure, Message: ErrTransport.Error(), Err: err}
}
