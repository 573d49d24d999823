package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Paginator turns a paged list endpoint into one complete collection.
type Paginator struct {
	httpClient *http.Client
	style      vra.PaginationStyle
	pageSize   int
}

// NewPaginator creates a paginator. A non-positive pageSize falls back to
// vra.DefaultPageSize.
func NewPaginator(httpClient *http.Client, style vra.PaginationStyle, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = vra.DefaultPageSize
	}

	return &Paginator{
		httpClient: httpClient,
		style:      style,
		pageSize:   pageSize,
	}
}

// PageSize returns the number of items requested per page.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// FetchRaw requests pages of path in increasing order until the reported
// total page count is reached and returns every item in order. A reported
// total of zero still issues one request. Any two deeply equal items fail
// the whole fetch with vra.ErrDuplicateItemsDetected.
func (p *Paginator) FetchRaw(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	var items []json.RawMessage

	seen := make(map[string]struct{})

	for fetched := 0; ; {
		page, err := p.fetchPage(ctx, path, query, fetched)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Content {
			key, err := canonical(item)
			if err != nil {
				return nil, fmt.Errorf("parsing item of %s: %w", path, err)
			}

			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: %s returned overlapping pages, try a larger page size",
					vra.ErrDuplicateItemsDetected, path)
			}

			seen[key] = struct{}{}
			items = append(items, item)
		}

		fetched++

		if fetched >= p.totalPages(page) {
			break
		}
	}

	if items == nil {
		items = []json.RawMessage{}
	}

	return items, nil
}

func (p *Paginator) fetchPage(ctx context.Context, path string, query url.Values, index int) (*vra.ListEnvelope, error) {
	values := url.Values{}

	for key, vals := range query {
		values[key] = append([]string(nil), vals...)
	}

	switch p.style {
	case vra.PaginationPageLimit:
		values.Set("limit", strconv.Itoa(p.pageSize))
		values.Set("page", strconv.Itoa(index+1))
	case vra.PaginationSkipTop:
		values.Set("$top", strconv.Itoa(p.pageSize))
		values.Set("$skip", strconv.Itoa(index*p.pageSize))
	default:
		return nil, fmt.Errorf("%w: %s", vra.ErrUnknownPagination, p.style)
	}

	var page vra.ListEnvelope

	err := p.httpClient.GetJSON(ctx, path, values, &page)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d of %s: %w", index+1, path, err)
	}

	return &page, nil
}

func (p *Paginator) totalPages(page *vra.ListEnvelope) int {
	if p.style == vra.PaginationPageLimit {
		if page.Metadata == nil {
			return 0
		}

		return page.Metadata.TotalPages
	}

	return page.TotalPages
}

// canonical re-encodes a JSON value so that deeply equal values compare
// equal as strings. Object keys come out sorted and numbers keep their digits.
func canonical(raw json.RawMessage) (string, error) {
	var value interface{}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	err := dec.Decode(&value)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// fetchAll fetches every page of path and decodes the items into T.
func fetchAll[T any](ctx context.Context, p *Paginator, path string, opts *vra.ListOptions) ([]T, error) {
	raw, err := p.FetchRaw(ctx, path, opts.ToValues())
	if err != nil {
		return nil, err
	}

	return decodeAll[T](raw)
}

func decodeAll[T any](raw []json.RawMessage) ([]T, error) {
	items := make([]T, 0, len(raw))

	for _, item := range raw {
		var v T

		err := json.Unmarshal(item, &v)
		if err != nil {
			return nil, fmt.Errorf("parsing list item: %w", err)
		}

		items = append(items, v)
	}

	return items, nil
}
