package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pb33f/libopenapi"
)

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{
		"application/json": map[string]any{"schema": schema},
	}
}

func jsonResponse(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content":     jsonContent(schema),
	}
}

func limitParam(name string, def, max int) map[string]any {
	return map[string]any{
		"name":     name,
		"in":       "query",
		"required": false,
		"schema":   map[string]any{"type": "integer", "minimum": 1, "maximum": max, "default": def},
	}
}

var (
	rowsSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"data": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object", "additionalProperties": true},
			},
		},
	}
	errorSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean", "example": false},
			"error":   map[string]any{"type": "string"},
			"code":    map[string]any{"type": "string"},
		},
	}
)

// GenerateOpenAPISpec builds the OpenAPI 3.0 document for the HTTP API and
// validates it with libopenapi.
func GenerateOpenAPISpec(baseURL, version string) ([]byte, error) {
	getRows := func(summary, operationID string, params ...map[string]any) map[string]any {
		op := map[string]any{
			"summary":     summary,
			"operationId": operationID,
			"responses": map[string]any{
				"200": jsonResponse("Rows", rowsSchema),
				"500": jsonResponse("Query failed", errorSchema),
			},
		}
		if len(params) > 0 {
			op["parameters"] = params
		}
		return map[string]any{"get": op}
	}

	paths := map[string]any{
		"/api/health": map[string]any{
			"get": map[string]any{
				"summary":     "Liveness check",
				"operationId": "health",
				"responses": map[string]any{
					"200": jsonResponse("Service is up", map[string]any{
						"type":       "object",
						"properties": map[string]any{"status": map[string]any{"type": "string", "example": "ok"}},
					}),
				},
			},
		},
		"/api/stats": map[string]any{
			"get": map[string]any{
				"summary":     "Database overview statistics",
				"operationId": "stats",
				"responses": map[string]any{
					"200": jsonResponse("Counts, total amount and date range", map[string]any{
						"type": "object",
						"properties": map[string]any{
							"total_decisions":      map[string]any{"type": "integer"},
							"total_expense_items":  map[string]any{"type": "integer"},
							"unique_organizations": map[string]any{"type": "integer"},
							"unique_contractors":   map[string]any{"type": "integer"},
							"total_amount":         map[string]any{"type": "number"},
							"date_range": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"from": map[string]any{"type": "string", "format": "date"},
									"to":   map[string]any{"type": "string", "format": "date"},
								},
							},
						},
					}),
					"500": jsonResponse("Query failed", errorSchema),
				},
			},
		},
		"/api/ask": map[string]any{
			"post": map[string]any{
				"summary":     "Ask a question about public spending",
				"description": "Translates a Greek or English question into a read-only SQL query, runs it and summarizes the rows.",
				"operationId": "ask",
				"requestBody": map[string]any{
					"required": true,
					"content": jsonContent(map[string]any{
						"type":     "object",
						"required": []string{"question"},
						"properties": map[string]any{
							"question": map[string]any{"type": "string", "example": "Πόσα ξόδεψε ο Δήμος Αθηναίων για καθαριότητα;"},
						},
					}),
				},
				"responses": map[string]any{
					"200": jsonResponse("Agent outcome; check success", map[string]any{
						"type": "object",
						"properties": map[string]any{
							"answer":      map[string]any{"type": "string"},
							"sql":         map[string]any{"type": "string"},
							"thinking":    map[string]any{"type": "string"},
							"explanation": map[string]any{"type": "string"},
							"data":        rowsSchema["properties"].(map[string]any)["data"],
							"columns":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"success":     map[string]any{"type": "boolean"},
							"error":       map[string]any{"type": "string"},
						},
					}),
					"400": jsonResponse("Empty question or invalid JSON", errorSchema),
					"429": jsonResponse("Rate limit exceeded", errorSchema),
				},
			},
		},
		"/api/top-spenders":     getRows("Organizations by total spending", "topSpenders", limitParam("limit", 10, 100)),
		"/api/top-contractors":  getRows("Contractors by total amount received", "topContractors", limitParam("limit", 10, 100)),
		"/api/spending-by-date": getRows("Daily spending totals", "spendingByDate"),
		"/api/recent-decisions": getRows("Most recent decisions with amounts", "recentDecisions", limitParam("limit", 20, 100)),
		"/api/network": map[string]any{
			"get": map[string]any{
				"summary":     "Organization to contractor spending graph",
				"operationId": "network",
				"parameters": []map[string]any{
					{"name": "min_amount", "in": "query", "schema": map[string]any{"type": "number", "default": 10000}},
					limitParam("max_edges", 80, 100),
				},
				"responses": map[string]any{
					"200": jsonResponse("Nodes, edges and counts", map[string]any{"type": "object"}),
					"500": jsonResponse("Query failed", errorSchema),
				},
			},
		},
		"/api/anomalies": map[string]any{
			"get": map[string]any{
				"summary":     "Contract splitting, near-threshold amounts and contractor concentration",
				"operationId": "anomalies",
				"responses": map[string]any{
					"200": jsonResponse("Anomalies, high severity first", map[string]any{
						"type": "object",
						"properties": map[string]any{
							"anomalies": map[string]any{
								"type": "array",
								"items": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"type":        map[string]any{"type": "string", "enum": []string{"contract_splitting", "threshold_gaming", "concentration"}},
										"severity":    map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
										"title":       map[string]any{"type": "string"},
										"description": map[string]any{"type": "string"},
										"data":        map[string]any{"type": "object", "additionalProperties": true},
									},
								},
							},
							"count": map[string]any{"type": "integer"},
						},
					}),
					"500": jsonResponse("Query failed", errorSchema),
				},
			},
		},
	}

	spec := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       "Diavgeia-Watch API",
			"version":     version,
			"description": "Greek government spending intelligence",
		},
		"servers": []map[string]any{
			{"url": baseURL, "description": "Diavgeia-Watch server"},
		},
		"paths": paths,
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spec: %w", err)
	}

	document, err := libopenapi.NewDocument(specJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create libopenapi document: %w", err)
	}
	if _, err := document.BuildV3Model(); err != nil {
		return nil, fmt.Errorf("failed to build v3 model (validation error): %w", err)
	}

	return specJSON, nil
}

// OpenAPIHandler serves the document built once at registration.
func OpenAPIHandler(baseURL, version string) http.HandlerFunc {
	specJSON, specErr := GenerateOpenAPISpec(baseURL, version)
	return func(w http.ResponseWriter, r *http.Request) {
		if specErr != nil {
			http.Error(w, fmt.Sprintf("Failed to generate OpenAPI spec: %v", specErr), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(specJSON)
	}
}
