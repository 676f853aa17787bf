package listing

import (
	"ec2lister/internal/models"
)

// Paginate slices records into the 1-based page of the given size and wraps
// it in the response envelope. A page beyond the available data yields an
// empty page, not an error; non-positive page or pageSize values are
// rejected before any slicing happens.
func Paginate(records []models.InstanceRecord, page, pageSize int) (*models.PageResult, error) {
	if page < 1 {
		return nil, NewError(ErrInvalidPage, "Invalid page number. Page must be a positive number", "page", nil)
	}
	if pageSize < 1 {
		return nil, NewError(ErrInvalidPageSize, "Invalid page size. Page size must be a positive number", "page_size", nil)
	}

	// (page-1)*pageSize can overflow for huge page numbers; any page whose
	// start falls past the end of the data is an empty page.
	start := len(records)
	end := len(records)
	if page-1 <= len(records)/pageSize {
		start = (page - 1) * pageSize
		if start > len(records) {
			start = len(records)
		}
		end = start + pageSize
		if end > len(records) {
			end = len(records)
		}
	}

	instances := make([]models.InstanceRecord, end-start)
	copy(instances, records[start:end])

	return &models.PageResult{
		Instances:  instances,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: len(records),
	}, nil
}
