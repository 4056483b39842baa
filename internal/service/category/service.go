package category

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

// Crumb is one breadcrumb step.
type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Node is a category with its ancestors, root first.
type Node struct {
	domain.Category
	Ancestors []Crumb `json:"ancestors"`
}

// List returns every category with breadcrumbs. Parents missing from the
// mirror end the breadcrumb chain.
func (s *Service) List(ctx context.Context) ([]Node, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	out := make([]Node, 0, len(cats))
	for _, c := range cats {
		out = append(out, Node{Category: c, Ancestors: ancestors(c, byID)})
	}
	return out, nil
}

// Subtree returns id and the ids of all its descendants. Unknown ids yield ErrNotFound.
func (s *Service) Subtree(ctx context.Context, id string) ([]string, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	children := make(map[string][]string, len(cats))
	found := false
	for _, c := range cats {
		if c.ID == id {
			found = true
		}
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	seen := map[string]bool{id: true}
	out := []string{id}
	for i := 0; i < len(out); i++ {
		for _, child := range children[out[i]] {
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}
	return out, nil
}

func ancestors(c domain.Category, byID map[string]domain.Category) []Crumb {
	chain := []Crumb{}
	seen := map[string]bool{c.ID: true}
	for parentID := c.ParentID; parentID != "" && !seen[parentID]; {
		p, ok := byID[parentID]
		if !ok {
			break
		}
		seen[parentID] = true
		chain = append(chain, Crumb{ID: p.ID, Name: p.Name, Slug: p.Slug})
		parentID = p.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
