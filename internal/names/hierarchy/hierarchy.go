// Package hierarchy walks the parent relation shared by subdomains and paths.
//
// Every record has at most one parent. The edge to the parent carries the
// separator used when displaying it: "/" for subdomains and "::" for paths.
// A path's own id already embeds its parent's id, so the path edge displays
// only the trailing segment.
package hierarchy

import (
	"context"
	"errors"
	"slices"
	"strings"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/sentinel"
)

// Loader reads single records. Implementations return sentinel.ErrNotFound for absent ids.
type Loader interface {
	FindByID(ctx context.Context, id string) (*models.Name, error)
}

// Lister enumerates an owner's records in mint order.
type Lister interface {
	ListByOwner(ctx context.Context, owner domain.Address, filter models.ListFilter) ([]*models.Name, error)
}

// maxDepth bounds every walk so a corrupted relation cannot spin forever.
const maxDepth = 256

// ResolveFullPath renders id with all of its ancestors, root first.
// A record without a parent renders as its own id. When an ancestor no longer
// exists (a burned subdomain parent) the walk stops at the last record found.
func ResolveFullPath(ctx context.Context, loader Loader, id string) (string, error) {
	cur, err := loader.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	var edges []string
	seen := map[string]struct{}{cur.ID: {}}
	for cur.ParentID != "" {
		if len(edges) >= maxDepth {
			return "", dErrors.New(dErrors.CodeCycleDetected, "ancestor chain too deep")
		}
		parent, err := loader.FindByID(ctx, cur.ParentID)
		if errors.Is(err, sentinel.ErrNotFound) {
			break
		}
		if err != nil {
			return "", err
		}
		if _, ok := seen[parent.ID]; ok {
			return "", dErrors.New(dErrors.CodeCycleDetected, "ancestor chain loops back on itself")
		}
		seen[parent.ID] = struct{}{}

		edges = append(edges, cur.Separator+edgeLabel(cur, parent))
		cur = parent
	}

	var b strings.Builder
	b.WriteString(cur.ID)
	for _, edge := range slices.Backward(edges) {
		b.WriteString(edge)
	}
	return b.String(), nil
}

// edgeLabel is the part of child's id shown after the separator.
func edgeLabel(child, parent *models.Name) string {
	if child.Separator == models.PathDelimiter {
		return strings.TrimPrefix(child.ID, parent.ID+models.PathDelimiter)
	}
	return child.ID
}

// CheckAcyclic walks the ancestors of parentID and fails if id is among them.
// It complements the creation-time self-parent and substring checks.
func CheckAcyclic(ctx context.Context, loader Loader, id, parentID string) error {
	seen := make(map[string]struct{})
	for cur := parentID; cur != ""; {
		if cur == id {
			return dErrors.New(dErrors.CodeCycleDetected, "name would become its own ancestor")
		}
		if _, ok := seen[cur]; ok || len(seen) >= maxDepth {
			return dErrors.New(dErrors.CodeCycleDetected, "ancestor chain loops back on itself")
		}
		seen[cur] = struct{}{}

		n, err := loader.FindByID(ctx, cur)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cur = n.ParentID
	}
	return nil
}

// DescendantPaths returns the ids of every path owned by owner that is
// namespaced under rootID, nested paths included.
func DescendantPaths(ctx context.Context, lister Lister, owner domain.Address, rootID string) ([]string, error) {
	kind := models.KindPath
	names, err := lister.ListByOwner(ctx, owner, models.ListFilter{
		Kind:   &kind,
		Prefix: rootID + models.PathDelimiter,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(names))
	for _, n := range names {
		ids = append(ids, n.ID)
	}
	return ids, nil
}
