package helpers

import (
	"errors"
	"math"
	"net/url"
	"strconv"
)

type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// PageRequest is the validated page window of a list call.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// ParsePageRequest reads ?page=. Huge page numbers are clamped so the offset
// stays within int32 and such pages come back as out of range.
func ParsePageRequest(q url.Values, size int) PageRequest {
	if size < 1 {
		size = 1
	}
	page, err := strconv.Atoi(q.Get("page"))
	switch {
	case errors.Is(err, strconv.ErrRange) && page > 0:
	case err != nil || page < 1:
		page = 1
	}
	if maxPage := math.MaxInt32 / size; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, Size: size}
}

// OutOfRange reports a page past the last one. The first page is always valid.
func (p PageRequest) OutOfRange(total int64) bool {
	if p.Page <= 1 {
		return false
	}
	pages := (total + int64(p.Size) - 1) / int64(p.Size)
	return int64(p.Page-1) >= pages
}

func NewPage[T any](u *url.URL, req PageRequest, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: total, Results: results}
	if int64(req.Page*req.Size) < total {
		page.Next = pageLink(u, req.Page+1)
	}
	if req.Page > 1 {
		page.Previous = pageLink(u, req.Page-1)
	}
	return page
}

func pageLink(u *url.URL, page int) *string {
	link := *u
	q := link.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}
