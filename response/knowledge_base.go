package response

import "time"

type CompanyDocumentResponse struct {
	ObjectName string    `json:"object_name"`
	FileType   string    `json:"file_type"`
	Status     string    `json:"status"`
	Chunks     int       `json:"chunks"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type GetCompanyDocumentsResponse struct {
	Documents []CompanyDocumentResponse `json:"documents"`
}

// IngestResponse reports a synchronous ingestion's chunk count, or that it was queued.
type IngestResponse struct {
	ObjectName string `json:"object_name"`
	Queued     bool   `json:"queued"`
	Chunks     int    `json:"chunks,omitempty"`
}
