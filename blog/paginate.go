package blog

// DefaultPageSize is used by every listing unless a caller overrides it.
const DefaultPageSize = 20

// Page is one window of a listing.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 && p.InRange() }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Page >= 1 && p.Page < p.TotalPages }

// InRange reports whether Page addresses an existing page. Page 1 is always
// in range, even for an empty listing.
func (p Page[T]) InRange() bool { return p.Page >= 1 && p.Page <= p.TotalPages }

// Paginate returns the 1-indexed page of items. TotalPages is never below 1.
// Pages outside the range yield no items; callers decide whether that is a
// not-found condition. A non-positive pageSize means DefaultPageSize.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}
	if page < 1 || page > totalPages {
		return p
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	p.Items = append(p.Items, items[start:end]...)
	return p
}

// PaginateLocale pages through a locale's posts.
func (x *Index) PaginateLocale(locale Locale, page, pageSize int) Page[Post] {
	return Paginate(x.posts[locale], page, pageSize)
}

// PaginateTag pages through a tag's posts.
func (x *Index) PaginateTag(locale Locale, tag string, page, pageSize int) Page[Post] {
	return Paginate(x.tags[locale][tag], page, pageSize)
}

// PaginateType pages through a type's posts.
func (x *Index) PaginateType(locale Locale, t PostType, page, pageSize int) Page[Post] {
	return Paginate(x.types[locale][t], page, pageSize)
}
