package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// EmailChecker reports whether an address is acceptable for registration.
type EmailChecker func(ctx context.Context, email string) bool

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailSyntaxValid accepts a bare address with a dotted domain.
func IsEmailSyntaxValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

// IsEmailDomainValid checks the syntax and that the domain resolves to an
// MX record or, failing that, an address.
func IsEmailDomainValid(ctx context.Context, email string) bool {
	if !IsEmailSyntaxValid(email) {
		return false
	}
	domain := email[strings.LastIndex(email, "@")+1:]

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var r net.Resolver
	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
