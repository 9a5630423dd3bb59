// Package errors names delivery failure causes for metric tags.
package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	goerrors "errors"
	"net"
	"reflect"
	"strings"
	"syscall"
)

// Transport failure classes. Anything else falls back to the innermost error's type name.
const (
	ClassTimeout           = "timeout"
	ClassCanceled          = "canceled"
	ClassDNS               = "dns"
	ClassConnectionRefused = "connection_refused"
	ClassConnectionReset   = "connection_reset"
	ClassTLS               = "tls"
	ClassUnknown           = "unknown"
)

// Classify returns a low-cardinality name for err's root cause.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if class := transportClass(err); class != "" {
		return class
	}
	return typeName(innermost(err))
}

func transportClass(err error) string {
	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var recordErr tls.RecordHeaderError
	var netErr net.Error

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	case goerrors.Is(err, context.Canceled):
		return ClassCanceled
	case goerrors.As(err, &dnsErr):
		return ClassDNS
	case goerrors.Is(err, syscall.ECONNREFUSED):
		return ClassConnectionRefused
	case goerrors.Is(err, syscall.ECONNRESET):
		return ClassConnectionReset
	case goerrors.As(err, &certErr), goerrors.As(err, &unknownAuth),
		goerrors.As(err, &hostErr), goerrors.As(err, &recordErr):
		return ClassTLS
	case goerrors.As(err, &netErr) && netErr.Timeout():
		return ClassTimeout
	}
	return ""
}

func innermost(err error) error {
	for {
		next := goerrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ClassUnknown
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return ClassUnknown
	}
	return name
}
