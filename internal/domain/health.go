package domain

// HealthReport describes the reachability of external dependencies.
// An empty field means the dependency answered.
type HealthReport struct {
	Docker   string
	Registry string
}

// Healthy reports whether every dependency answered.
func (h HealthReport) Healthy() bool {
	return h.Docker == "" && h.Registry == ""
}
