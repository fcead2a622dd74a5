// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package models

// APIResponse is the standard envelope for every JSON API response.
type APIResponse struct {
	Status   string    `json:"status"` // "success" or "error"
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries response observability fields.
type Metadata struct {
	Timestamp string `json:"timestamp"` // RFC3339
	Count     int    `json:"count,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
