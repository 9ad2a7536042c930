package blog

import (
	"math"
	"testing"
)

func TestPaginateLaw(t *testing.T) {
	for n := 0; n <= 45; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for _, size := range []int{1, 2, 3, 7, 20, 50} {
			first := Paginate(items, 1, size)
			wantPages := max(1, (n+size-1)/size)
			if first.TotalPages != wantPages {
				t.Fatalf("n=%d size=%d: TotalPages = %d, want %d", n, size, first.TotalPages, wantPages)
			}
			sum := 0
			next := 0
			for page := 1; page <= first.TotalPages; page++ {
				p := Paginate(items, page, size)
				if p.TotalCount != n {
					t.Fatalf("n=%d size=%d page=%d: TotalCount = %d", n, size, page, p.TotalCount)
				}
				for _, v := range p.Items {
					if v != next {
						t.Fatalf("n=%d size=%d page=%d: item %d, want %d", n, size, page, v, next)
					}
					next++
				}
				sum += len(p.Items)
			}
			if sum != n {
				t.Fatalf("n=%d size=%d: pages hold %d items, want %d", n, size, sum, n)
			}
		}
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	items := []string{"a", "b", "c"}

	p := Paginate(items, 5, 2)
	if len(p.Items) != 0 {
		t.Errorf("page 5 items = %v, want none", p.Items)
	}
	if p.TotalCount != 3 || p.TotalPages != 2 {
		t.Errorf("totals = %d/%d, want 3/2", p.TotalCount, p.TotalPages)
	}
	if p.InRange() {
		t.Error("page 5 of 2 should be out of range")
	}

	zero := Paginate(items, 0, 2)
	if len(zero.Items) != 0 || zero.InRange() {
		t.Errorf("page 0 = %+v, want empty and out of range", zero)
	}

	for _, page := range []int{math.MaxInt, 1<<62 + 1, math.MaxInt / 20} {
		huge := Paginate([]int{1, 2, 3}, page, 20)
		if len(huge.Items) != 0 || huge.InRange() || huge.HasPrev() || huge.HasNext() {
			t.Errorf("page %d = %+v, want empty and out of range", page, huge)
		}
	}
}

func TestPaginateDefaultPageSize(t *testing.T) {
	items := make([]int, 45)
	p := Paginate(items, 1, 0)
	if p.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", p.PageSize, DefaultPageSize)
	}
	if len(p.Items) != 20 || p.TotalPages != 3 {
		t.Errorf("items = %d, pages = %d; want 20, 3", len(p.Items), p.TotalPages)
	}
}

func TestPageNavigation(t *testing.T) {
	items := make([]int, 5)
	tests := []struct {
		page       int
		prev, next bool
	}{
		{1, false, true},
		{2, true, true},
		{3, true, false},
		{4, false, false},
	}
	for _, tt := range tests {
		p := Paginate(items, tt.page, 2)
		if p.HasPrev() != tt.prev || p.HasNext() != tt.next {
			t.Errorf("page %d: HasPrev=%v HasNext=%v, want %v %v", tt.page, p.HasPrev(), p.HasNext(), tt.prev, tt.next)
		}
	}
}

func TestIndexPaginators(t *testing.T) {
	idx := Build(scenarioPosts(), Locales)

	tag := idx.PaginateTag(LocaleEN, "y", 1, 1)
	equalSlugs(t, "PaginateTag(y, 1)", tag.Items, "b")
	if tag.TotalPages != 2 {
		t.Errorf("tag TotalPages = %d, want 2", tag.TotalPages)
	}

	typ := idx.PaginateType(LocaleEN, TypeNote, 2, 1)
	equalSlugs(t, "PaginateType(note, 2)", typ.Items, "b")

	missing := idx.PaginateTag(LocaleEN, "nope", 1, 10)
	if missing.TotalCount != 0 || missing.TotalPages != 1 {
		t.Errorf("unknown tag totals = %d/%d, want 0/1", missing.TotalCount, missing.TotalPages)
	}
}
