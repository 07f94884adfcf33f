package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	FileType       string     `json:"file_type"`
	MimeType       string     `json:"mime_type"`
	SizeBytes      int64      `json:"size_bytes"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	AnalysisStatus string     `json:"analysis_status"`
	Summary        string     `json:"summary,omitempty"`
	Insights       []string   `json:"insights,omitempty"`
	AnalyzedAt     *time.Time `json:"analyzed_at,omitempty"`
}

// AnalysisResponse is returned by the polling endpoint.
type AnalysisResponse struct {
	Status   string   `json:"status"`
	Summary  string   `json:"summary,omitempty"`
	Insights []string `json:"insights,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:             doc.ID,
		Name:           doc.Name,
		FileType:       doc.FileType,
		MimeType:       doc.MimeType,
		SizeBytes:      doc.SizeBytes,
		UploadedAt:     doc.UploadedAt,
		AnalysisStatus: doc.Status,
		Summary:        doc.Summary,
		Insights:       doc.Insights,
		AnalyzedAt:     doc.AnalyzedAt,
	}
}

func toAnalysisResponse(doc Document) AnalysisResponse {
	resp := AnalysisResponse{Status: doc.Status}
	switch doc.Status {
	case StatusCompleted:
		resp.Summary = doc.Summary
		resp.Insights = doc.Insights
	case StatusFailed:
		resp.Error = doc.AnalysisError
	}
	return resp
}
