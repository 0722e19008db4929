package dto

// DeleteRequest is the body of DELETE /api/delete.
type DeleteRequest struct {
	Repo string `json:"repo"`
	Tag  string `json:"tag"`
}

// DeleteResponse is returned after the registry accepted the delete.
type DeleteResponse struct {
	Result string `json:"result"`
	Digest string `json:"digest"`
}

// RegistryErrorResponse surfaces the status code of a failed upstream call.
type RegistryErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}
