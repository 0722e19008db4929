package dto

// PushRequest is the body of POST /api/push.
type PushRequest struct {
	Image     string `json:"image"`
	SessionID string `json:"sessionId,omitempty"`
}

// PushResponse is returned when every stage succeeded.
type PushResponse struct {
	Result string   `json:"result"`
	Log    string   `json:"log"`
	Logs   []string `json:"logs"`
}

// PushErrorResponse is returned when a stage failed.
type PushErrorResponse struct {
	Error  string   `json:"error"`
	Detail string   `json:"detail"`
	Logs   []string `json:"logs"`
}
