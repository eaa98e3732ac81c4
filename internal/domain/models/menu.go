// internal/domain/models/menu.go
package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Menu placements
const (
	PlacementHeader = "header"
	PlacementFooter = "footer"
	PlacementBoth   = "both"
)

// IsValidPlacement checks if a menu placement is valid.
func IsValidPlacement(p string) bool {
	switch p {
	case PlacementHeader, PlacementFooter, PlacementBoth:
		return true
	}
	return false
}

// Menu link targets
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// MaxMenuDepth bounds how deep a rendered menu tree may nest.
const MaxMenuDepth = 4

// Menu is one navigation entry. ParentID points at another Menu.
type Menu struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Label     string              `bson:"label" json:"label"`
	URL       string              `bson:"url" json:"url"`
	Target    string              `bson:"target" json:"target"`
	Order     int                 `bson:"order" json:"order"`
	Active    bool                `bson:"active" json:"active"`
	Placement string              `bson:"placement" json:"placement"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parentId,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updatedAt"`
}

// VisibleIn reports whether the entry shows in the given placement.
func (m *Menu) VisibleIn(placement string) bool {
	return m.Placement == placement || m.Placement == PlacementBoth
}

// MenuNode is a menu entry with its children, for nested rendering.
type MenuNode struct {
	Menu     `bson:",inline"`
	Children []MenuNode `json:"children"`
}

// BuildMenuTree arranges flat entries into a forest ordered by Order. Entries
// whose parent is missing from items are treated as roots. Nesting stops at
// maxDepth levels; anything deeper (including entries caught in a parent
// cycle) is dropped.
func BuildMenuTree(items []Menu, maxDepth int) []MenuNode {
	byID := make(map[primitive.ObjectID]bool, len(items))
	for _, m := range items {
		byID[m.ID] = true
	}
	children := make(map[primitive.ObjectID][]Menu)
	var roots []Menu
	for _, m := range items {
		if m.ParentID != nil && byID[*m.ParentID] && *m.ParentID != m.ID {
			children[*m.ParentID] = append(children[*m.ParentID], m)
			continue
		}
		roots = append(roots, m)
	}

	var build func(level []Menu, depth int) []MenuNode
	build = func(level []Menu, depth int) []MenuNode {
		sortMenus(level)
		out := make([]MenuNode, 0, len(level))
		for _, m := range level {
			node := MenuNode{Menu: m, Children: []MenuNode{}}
			if depth < maxDepth {
				node.Children = build(children[m.ID], depth+1)
			}
			out = append(out, node)
		}
		return out
	}
	return build(roots, 1)
}

func sortMenus(ms []Menu) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Order != ms[j].Order {
			return ms[i].Order < ms[j].Order
		}
		return ms[i].ID.Hex() < ms[j].ID.Hex()
	})
}

// CreatesMenuCycle reports whether giving child the parent newParent would
// make child its own ancestor. parentOf returns the current parent of an id
// (nil for a root). The walk is bounded so corrupt data cannot loop forever.
func CreatesMenuCycle(child, newParent primitive.ObjectID, parentOf func(primitive.ObjectID) *primitive.ObjectID) bool {
	cur := &newParent
	for steps := 0; cur != nil && steps < 1000; steps++ {
		if *cur == child {
			return true
		}
		cur = parentOf(*cur)
	}
	return cur != nil
}
