package core

import (
	"net"
	"net/http"
)

// GetOutboundIP returns the preferred outbound IP address of this machine.
// No packets are sent; dialing UDP only makes the kernel pick a route and a local address.
func GetOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP
}

// ReadUserIP extracts the client IP address from an HTTP request.
// It checks X-Real-Ip, X-Forwarded-For headers, and falls back to RemoteAddr.
func ReadUserIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

// SecurityHeaders adds standard HTTP security headers to all responses.
// Forms may only post back to this origin, and images (originals & converted files) are served from it too.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data: blob:; style-src 'self'; form-action 'self'; object-src 'none'; base-uri 'self'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}
