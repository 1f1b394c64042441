package actors

import (
	"sort"

	"driftwood/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination is the metadata returned with every listing.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// FilterByCategory returns the posts matching category; an empty category
// matches everything. Unknown categories simply match nothing, listing is
// permissive where creation is strict.
func FilterByCategory(posts []*models.Post, category models.Category) []*models.Post {
	if category == "" {
		return append([]*models.Post(nil), posts...)
	}
	matched := make([]*models.Post, 0)
	for _, p := range posts {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched
}

// SortPostsNewestFirst orders by CreatedAt descending. The sort is stable,
// so posts with equal timestamps keep their insertion order.
func SortPostsNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func SortCommentsNewestFirst(comments []*models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}

// Paginate slices posts to the requested page. A page past the end yields an
// empty slice with the metadata still accurate, never an error.
func Paginate(posts []*models.Post, page, limit int) ([]*models.Post, Pagination) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	total := len(posts)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return posts[start:end], Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}
