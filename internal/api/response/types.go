package response

// Health is the response of the health endpoint. Reason is populated when
// the content backend is unreachable; the service still serves rooms then,
// so the status degrades rather than fails.
type Health struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Stats is the response of the stats endpoint.
type Stats struct {
	Rooms   int `json:"rooms"`
	Clients int `json:"clients"`
}
