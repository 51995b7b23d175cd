package client

import (
	"github.com/nvthanh/eduleave/core/request"
)

// DefaultPageSize matches the dashboard table.
const DefaultPageSize = 10

// Filtered derives the visible list for the acting user. Students only ever
// see their own requests, whatever the filter says.
func (s *RequestStore) Filtered(filter request.QueryFilter) []request.LeaveRequest {
	filter.Clean()
	return request.ApplyFilter(s.Items(), filter, s.actor)
}

// Page returns the 1-based page of the filtered list. Concatenating all pages
// reproduces the filtered list in order.
func (s *RequestStore) Page(filter request.QueryFilter, page, size int) []request.LeaveRequest {
	if size < 1 {
		size = DefaultPageSize
	}
	return request.Paginate(s.Filtered(filter), page, size)
}
