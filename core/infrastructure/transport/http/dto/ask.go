package dto

import (
	"github.com/diavgeia-watch/diavgeia/core/domain"
)

// AskRequest is the body of POST /api/ask
type AskRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

// AskResponse mirrors the agent outcome for HTTP clients
type AskResponse struct {
	Answer      string           `json:"answer"`
	SQL         string           `json:"sql,omitempty"`
	Thinking    string           `json:"thinking,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
	Data        []map[string]any `json:"data"`
	Columns     []string         `json:"columns,omitempty"`
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
}

// NewAskResponse copies the client-facing fields of an outcome.
func NewAskResponse(o *domain.Outcome) AskResponse {
	data := o.Rows
	if data == nil {
		data = []map[string]any{}
	}
	return AskResponse{
		Answer:      o.Answer,
		SQL:         o.SQL,
		Thinking:    o.Thinking,
		Explanation: o.Explanation,
		Data:        data,
		Columns:     o.Columns,
		Success:     o.Success,
		Error:       o.Error,
	}
}

// AnomaliesResponse is the body of GET /api/anomalies
type AnomaliesResponse struct {
	Anomalies []domain.Anomaly `json:"anomalies"`
	Count     int              `json:"count"`
}
