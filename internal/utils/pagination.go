package utils

import "strconv"

// LimitOffset derives paging values from raw query parameters. A missing,
// non-numeric or non-positive limit becomes def; a limit above max is
// capped. A missing, non-numeric or negative offset becomes 0.
func LimitOffset(rawLimit, rawOffset string, def, max int) (limit, offset int) {
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 1 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	offset, err = strconv.Atoi(rawOffset)
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
