package request

type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Query     string `json:"query" binding:"required"`
}

type UpdateSessionTitleRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

// CreateActivityRequest carries the free-text activity form.
type CreateActivityRequest struct {
	Form string `json:"form" binding:"required"`
}

type IngestRequest struct {
	ObjectName string `json:"object_name" binding:"required"`
}
