package entity

type UploadsCleanup struct {
	Deleted int `json:"deleted"`
}

type DocumentStoreCleanup struct {
	Cleared int `json:"cleared"`
}

// CleanupResponse is returned by POST /cleanup.
type CleanupResponse struct {
	Success       bool                  `json:"success"`
	Error         string                `json:"error,omitempty"`
	Uploads       *UploadsCleanup       `json:"uploads,omitempty"`
	DocumentStore *DocumentStoreCleanup `json:"documentStore,omitempty"`
	IdleCleaned   int                   `json:"idleCleaned"`
	Message       string                `json:"message,omitempty"`
}
