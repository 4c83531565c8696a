package providers

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// APIError is a non-2xx response from an upstream service.
type APIError struct {
	Service string
	Status  int
	// Detail is the message from the response body's detail field.
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Service, e.Status, e.Detail)
}

// TransportError is a failure to reach an upstream service at all.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsCORSLike reports whether err is a transport failure of the kind a
// browser surfaces as a blocked cross-origin fetch: the request never got
// an HTTP response because the connection was refused, reset, could not
// resolve, or failed the TLS handshake.
func IsCORSLike(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return true
	}
	var headerErr tls.RecordHeaderError
	return errors.As(err, &headerErr)
}

// parseDetail extracts the human message from an error body. The detail
// field may be a string, a list of {msg} objects, or any other JSON value.
func parseDetail(status int, body []byte) string {
	var resp struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if json.Unmarshal(body, &resp) == nil {
		if msg := detailMessage(resp.Detail); msg != "" {
			return msg
		}
		if resp.Error != "" {
			return resp.Error
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return string(raw)
}
