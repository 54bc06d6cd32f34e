package handlers

import (
	"encoding/json"
	"net/http"
)

var cityParam = map[string]interface{}{
	"name":        "city",
	"in":          "path",
	"description": "City id from /api/cities (case-insensitive, URL-encoded)",
	"required":    true,
	"schema":      map[string]string{"type": "string"},
}

func jsonResponse(description string, schema interface{}) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": schema,
			},
		},
	}
}

func ref(name string) map[string]string {
	return map[string]string{"$ref": "#/components/schemas/" + name}
}

var errorResponses = map[string]interface{}{
	"404": jsonResponse("Unknown city", ref("Error")),
	"422": jsonResponse("Malformed dataset or no trips for the selection", ref("Error")),
	"503": jsonResponse("Dataset not available", ref("Error")),
}

func withErrors(responses map[string]interface{}) map[string]interface{} {
	for code, response := range errorResponses {
		responses[code] = response
	}
	return responses
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the Bikeshare API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	counted := map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"value": map[string]string{"type": "string"},
				"count": map[string]string{"type": "integer"},
			},
		},
	}

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Bikeshare Trip Reports API",
			"description": "Descriptive statistics over bike-share trip datasets, per city, with month and weekday filters",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/cities": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List cities",
					"responses": map[string]interface{}{
						"200": jsonResponse("Catalog entries sorted by id", map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"source": map[string]string{"type": "string"},
								"cities": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"id":   map[string]string{"type": "string"},
											"file": map[string]string{"type": "string"},
										},
									},
								},
							},
						}),
					},
				},
			},
			"/api/cities/{city}/overview": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Unfiltered city overview",
					"description": "Missing values, monthly trip duration and generation breakdowns of the whole dataset",
					"parameters":  []interface{}{cityParam},
					"responses": withErrors(map[string]interface{}{
						"200": jsonResponse("Overview", ref("Overview")),
					}),
				},
			},
			"/api/cities/{city}/report": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Filtered city report",
					"description": "Popular times, duration, stations and user statistics after the month/day filter",
					"parameters": []interface{}{
						cityParam,
						map[string]interface{}{
							"name":        "month",
							"in":          "query",
							"description": "Month number, name or abbreviation; repeatable or comma separated",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
						map[string]interface{}{
							"name":        "day",
							"in":          "query",
							"description": "ISO weekday (1=Monday), name or abbreviation; repeatable or comma separated",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
					},
					"responses": withErrors(map[string]interface{}{
						"200": jsonResponse("Report", ref("Report")),
						"400": jsonResponse("Invalid month or day", ref("Error")),
					}),
				},
			},
			"/api/cities/{city}/trips": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Raw enriched trips",
					"parameters": []interface{}{
						cityParam,
						map[string]interface{}{
							"name":        "limit",
							"in":          "query",
							"description": "Number of rows from the top of the dataset (minimum 5)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 5},
						},
					},
					"responses": withErrors(map[string]interface{}{
						"200": jsonResponse("Trips", map[string]string{"type": "object"}),
						"400": jsonResponse("Invalid limit", ref("Error")),
					}),
				},
			},
			"/api/cities/{city}/cache": map[string]interface{}{
				"delete": map[string]interface{}{
					"summary":    "Drop the cached dataset of a city",
					"parameters": []interface{}{cityParam},
					"responses": map[string]interface{}{
						"200": jsonResponse("Invalidation result", map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"city":        map[string]string{"type": "string"},
								"invalidated": map[string]string{"type": "boolean"},
							},
						}),
						"404": jsonResponse("Unknown city", ref("Error")),
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Health check",
					"responses": map[string]interface{}{
						"200": jsonResponse("Service is healthy", map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"status": map[string]string{"type": "string"},
							},
						}),
						"503": map[string]interface{}{"description": "Trip database unreachable"},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"Error": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"error":      map[string]string{"type": "string"},
						"message":    map[string]string{"type": "string"},
						"code":       map[string]string{"type": "integer"},
						"request_id": map[string]string{"type": "string"},
					},
				},
				"Overview": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"city":                     map[string]string{"type": "string"},
						"rows":                     map[string]string{"type": "integer"},
						"missing_values":           map[string]interface{}{"type": "object", "additionalProperties": map[string]string{"type": "integer"}},
						"monthly_duration":         map[string]string{"type": "array"},
						"duration_by_generation":   map[string]interface{}{"type": "object", "additionalProperties": map[string]string{"type": "number"}},
						"trip_count_by_generation": counted,
						"has_generation":           map[string]string{"type": "boolean"},
					},
				},
				"Report": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"city":               map[string]string{"type": "string"},
						"rows":               map[string]string{"type": "integer"},
						"popular_times":      map[string]string{"type": "object"},
						"duration":           map[string]string{"type": "object"},
						"top_start_stations": counted,
						"top_end_stations":   counted,
						"top_station_pairs":  map[string]string{"type": "array"},
						"user_types":         map[string]interface{}{"type": "object", "additionalProperties": map[string]string{"type": "integer"}},
						"genders":            map[string]interface{}{"type": "object", "additionalProperties": map[string]string{"type": "integer"}},
						"birth_years":        map[string]string{"type": "object"},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
