package util

const DefaultPageSize = 10

// Calculate clamps the requested page and size and returns them together
// with the row offset, so Meta always sees the values actually used.
func Calculate(page, size int) (clampedPage, from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	return page, (page - 1) * size, size
}

func Meta(page, limit int, total int64) map[string]any {
	offset := (page - 1) * limit
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}
