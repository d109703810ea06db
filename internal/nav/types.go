package nav

import (
	"github.com/google/uuid"
)

// NodeKind classifies navigation entries so templates can render each shape.
type NodeKind string

const (
	NodeKindLink    NodeKind = "link"
	NodeKindSection NodeKind = "section"
	NodeKindLesson  NodeKind = "lesson"
	NodeKindSocial  NodeKind = "social"
)

// Node is a single navigation entry. IDs are deterministic so repeated builds
// of the same content produce identical trees.
type Node struct {
	ID       uuid.UUID `json:"id"`
	Kind     NodeKind  `json:"kind"`
	Label    string    `json:"label"`
	URL      string    `json:"url"`
	External bool      `json:"external,omitempty"`
	Network  string    `json:"network,omitempty"`
	Position int       `json:"position"`
	Active   bool      `json:"active,omitempty"`
	Children []*Node   `json:"children,omitempty"`
}

// Tree groups ordered nodes under a stable code ("topnav", "sidebar").
type Tree struct {
	Code   string  `json:"code"`
	Locale string  `json:"locale"`
	Nodes  []*Node `json:"nodes"`
}

// Navigation is the full navigation surface handed to templates: the top bar,
// the lesson sidebar, and the social footer links.
type Navigation struct {
	TopNav  *Tree   `json:"topnav"`
	Sidebar *Tree   `json:"sidebar"`
	Social  []*Node `json:"social,omitempty"`
}
