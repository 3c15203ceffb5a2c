package dto

// UploadResponse is the 200 body of an upload.
type UploadResponse struct {
	Message       string `json:"message"`
	Transcription string `json:"transcription"`
}

// ProvidersResponse lists the registered providers and the one serving uploads.
type ProvidersResponse struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
}
