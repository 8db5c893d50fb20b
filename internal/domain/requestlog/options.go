package requestlog

// ListOptions provides filtering options for listing request log entries.
type ListOptions struct {
	Endpoint string
	Outcome  *Outcome
	Limit    int
	Offset   int
}
