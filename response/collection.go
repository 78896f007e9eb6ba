package response

type CollectionResponse[T any] struct {
	Items      []T         `json:"items"`
	Total      int         `json:"total"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func NewCollectionResponse[T any](items []T, pagination *Pagination) CollectionResponse[T] {
	if items == nil {
		items = []T{}
	}

	return CollectionResponse[T]{
		Items:      items,
		Total:      len(items),
		Pagination: pagination,
	}
}

// Paginate returns the page of items selected by p. Total counts all items.
func Paginate[T any](items []T, p Pagination) CollectionResponse[T] {
	total := len(items)
	start := min(max(p.Offset, 0), total)
	end := total
	if p.Limit > 0 {
		end = min(start+p.Limit, total)
	}

	page := NewPagination(start, p.Limit, total)
	collection := NewCollectionResponse(items[start:end], &page)
	collection.Total = total
	return collection
}
