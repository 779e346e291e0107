package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health         - Health check")
	fmt.Println("  GET  /stats          - Server statistics")
	fmt.Println("  POST /sections       - List sections of a LaTeX resume")
	fmt.Println("  POST /edit/section   - AI-edit a named section (requires API key)")
	fmt.Println("  POST /edit/document  - AI-edit the full document (requires API key)")
	fmt.Println("  POST /score/ats      - Universal ATS score")
	fmt.Println("  POST /score/jd       - Job-description match score (requires API key)")
	fmt.Println("  POST /score/human    - Human impact score")
	fmt.Println("  POST /session                      - Start an editing session")
	fmt.Println("  GET  /session/{id}                 - Session state")
	fmt.Println("  GET  /session/{id}/document        - Current LaTeX source")
	fmt.Println("  PUT  /session/{id}/document        - Replace LaTeX source")
	fmt.Println("  POST /session/{id}/undo            - Undo last change")
	fmt.Println("  POST /session/{id}/redo            - Redo last undone change")
	fmt.Println("  POST /session/{id}/edit/section    - AI-edit inside the session (requires API key)")
	fmt.Println("  DELETE /session/{id}               - End the session")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /edit/* and /score/jd")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
