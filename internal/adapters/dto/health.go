package dto

// HealthResponse reports reachability of external dependencies.
// Empty dependency fields mean the dependency answered.
type HealthResponse struct {
	Status   string `json:"status"`
	Docker   string `json:"docker,omitempty"`
	Registry string `json:"registry,omitempty"`
}

// ConfigResponse exposes the settings the UI needs to render commands.
type ConfigResponse struct {
	RegistryHost string `json:"registryHost"`
}
