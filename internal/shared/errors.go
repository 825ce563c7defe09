package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
	// ErrUpstream indicates the school backend rejected or failed a call.
	ErrUpstream = errors.New("upstream request failed")
)

// UserSafeMessage maps an error to a message that can be rendered on a
// page. Anything unrecognised collapses to a generic Indonesian notice
// so internals never leak into the UI.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Data tidak ditemukan"
	case errors.Is(err, ErrInvalidCredentials):
		return "Email atau password tidak valid"
	case errors.Is(err, ErrUpstream):
		return "Server sekolah tidak dapat dihubungi. Silakan coba lagi."
	default:
		return "Terjadi kesalahan. Silakan coba lagi."
	}
}
