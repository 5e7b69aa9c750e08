package v1

import (
	sp_uuid "github.com/staffplan/backend/internal/uuid"
)

type URIID struct {
	ID sp_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIYearMonth struct {
	Year  int `uri:"year" binding:"required" example:"2024"` // Year of the displayed month
	Month int `uri:"month" binding:"required" example:"3"`   // Month of the year, 1 is January
}

// Pagination contains information about the pagination for collection endpoint responses.
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // Number of records in this response
	Offset uint  `json:"offset" example:"50"` // Offset of the first record returned
	Limit  int   `json:"limit" example:"25"`  // Maximum number of records requested
	Total  int64 `json:"total" example:"342"` // Total number of records matching the query
}
