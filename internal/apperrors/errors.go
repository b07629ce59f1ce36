// Package apperrors turns transport failures into messages fit for the UI.
package apperrors

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// User-facing messages.
const (
	MsgCancelled   = "Request cancelled."
	MsgNotFound    = "Not found."
	MsgServerError = "Server error. Please try again."
	MsgBadRequest  = "Request failed. Please try again."
	MsgDefault     = "Something went wrong. Please try again."
)

// CodeCanceled is the cancellation code carried by coded transport errors.
const CodeCanceled = "ERR_CANCELED"

// Classification is the outcome of Classify.
type Classification struct {
	Message   string
	Cancelled bool
}

type statusCoder interface {
	StatusCode() int
}

type coder interface {
	Code() string
}

// Classify maps err to a message using the default fallback.
func Classify(err error) Classification {
	if IsCancelled(err) {
		return Classification{Message: MsgCancelled, Cancelled: true}
	}
	return Classification{Message: ToUserMessage(err, "")}
}

// ToUserMessage maps err to a human readable message. An empty fallback
// selects MsgDefault.
func ToUserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = MsgDefault
	}
	if err == nil {
		return fallback
	}
	if IsCancelled(err) {
		return MsgCancelled
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		switch status := sc.StatusCode(); {
		case status == http.StatusNotFound:
			return MsgNotFound
		case status >= 500:
			return MsgServerError
		case status >= 400:
			return MsgBadRequest
		}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// IsCancelled reports whether err signals a cancelled request.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var c coder
	return errors.As(err, &c) && c.Code() == CodeCanceled
}
