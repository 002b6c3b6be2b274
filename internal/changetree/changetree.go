// Package changetree models the collapsible file trees shown in the
// staging panes. A Section holds a flat, sorted node list (directories
// followed by their children) plus the indices of rows that are visible
// under the current expansion state.
package changetree

import (
	"sort"
	"strings"

	"github.com/interpretive-systems/stagium/internal/gitx"
)

// Node is one tree row, either a directory or a changed file. Index and
// Worktree carry the two porcelain status letters; directories hold
// spaces.
type Node struct {
	Path     string
	Name     string
	Depth    int
	Dir      bool
	Expanded bool
	Index    byte
	Worktree byte
}

func (n *Node) Untracked() bool {
	return n.Index == '?' && n.Worktree == '?'
}

func (n *Node) Unmerged() bool {
	return n.Index == 'U' || n.Worktree == 'U' ||
		(n.Index == 'A' && n.Worktree == 'A') ||
		(n.Index == 'D' && n.Worktree == 'D')
}

// StatusFor returns the letter shown for this node in one of the two
// panes. The staged pane hides the untracked marker.
func (n *Node) StatusFor(staged bool) byte {
	if staged {
		if n.Index == '?' {
			return ' '
		}
		return n.Index
	}
	return n.Worktree
}

// Section is one tree pane.
type Section struct {
	nodes   []Node
	visible []int
	cursor  int
}

// SetFiles rebuilds the tree from a flat file list. Every ancestor
// directory of every file becomes a node; a directory sorts immediately
// before its children. Expansion state carries over by path, new
// directories start expanded, and the cursor is clamped to the result.
func (s *Section) SetFiles(files []gitx.FileStatus) {
	prevExpanded := make(map[string]bool)
	for i := range s.nodes {
		if s.nodes[i].Dir {
			prevExpanded[s.nodes[i].Path] = s.nodes[i].Expanded
		}
	}

	type entry struct {
		dir      bool
		index    byte
		worktree byte
	}
	byKey := make(map[string]entry)
	for _, f := range files {
		parts := strings.Split(f.Path, "/")
		for i := 1; i < len(parts); i++ {
			// Trailing slash makes the directory key sort right
			// before the keys of everything inside it.
			key := strings.Join(parts[:i], "/") + "/"
			if _, ok := byKey[key]; !ok {
				byKey[key] = entry{dir: true, index: ' ', worktree: ' '}
			}
		}
		byKey[f.Path] = entry{index: f.Index, worktree: f.Worktree}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nodes := make([]Node, 0, len(keys))
	for _, key := range keys {
		e := byKey[key]
		path := key
		if e.dir {
			path = strings.TrimSuffix(key, "/")
		}
		name := path
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			name = path[i+1:]
		}
		expanded := false
		if e.dir {
			exp, ok := prevExpanded[path]
			expanded = !ok || exp
		}
		nodes = append(nodes, Node{
			Path:     path,
			Name:     name,
			Depth:    strings.Count(path, "/"),
			Dir:      e.dir,
			Expanded: expanded,
			Index:    e.index,
			Worktree: e.worktree,
		})
	}

	s.nodes = nodes
	s.RebuildVisible()
	s.ClampCursor()
}

// RebuildVisible recomputes which rows show: a node is visible iff every
// ancestor directory is expanded.
func (s *Section) RebuildVisible() {
	expanded := make(map[string]bool)
	for i := range s.nodes {
		if s.nodes[i].Dir {
			expanded[s.nodes[i].Path] = s.nodes[i].Expanded
		}
	}
	s.visible = s.visible[:0]
	for i := range s.nodes {
		if ancestorsExpanded(s.nodes[i].Path, expanded) {
			s.visible = append(s.visible, i)
		}
	}
}

func ancestorsExpanded(path string, expanded map[string]bool) bool {
	for {
		j := strings.LastIndexByte(path, '/')
		if j < 0 {
			return true
		}
		path = path[:j]
		if exp, ok := expanded[path]; ok && !exp {
			return false
		}
	}
}

func (s *Section) ClampCursor() {
	if len(s.visible) == 0 {
		s.cursor = 0
	} else if s.cursor >= len(s.visible) {
		s.cursor = len(s.visible) - 1
	}
}

// MoveCursor moves by delta within the visible rows, clamped, and
// reports whether the cursor changed.
func (s *Section) MoveCursor(delta int) bool {
	if len(s.visible) == 0 {
		return false
	}
	next := s.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(s.visible) {
		next = len(s.visible) - 1
	}
	if next == s.cursor {
		return false
	}
	s.cursor = next
	return true
}

// CurrentNode returns the node under the cursor, or nil for an empty
// section.
func (s *Section) CurrentNode() *Node {
	if s.cursor >= len(s.visible) {
		return nil
	}
	return &s.nodes[s.visible[s.cursor]]
}

// VisibleNode returns the node at a visible row index.
func (s *Section) VisibleNode(row int) *Node {
	if row < 0 || row >= len(s.visible) {
		return nil
	}
	return &s.nodes[s.visible[row]]
}

// SetExpanded expands or collapses the directory under the cursor.
func (s *Section) SetExpanded(expand bool) {
	n := s.CurrentNode()
	if n == nil || !n.Dir {
		return
	}
	n.Expanded = expand
	s.RebuildVisible()
	s.ClampCursor()
}

// ExpandAndEnter expands the directory under the cursor and steps onto
// its first child.
func (s *Section) ExpandAndEnter() {
	row := s.cursor
	n := s.CurrentNode()
	if n == nil || !n.Dir {
		return
	}
	n.Expanded = true
	s.RebuildVisible()
	s.ClampCursor()
	if row+1 < len(s.visible) {
		s.cursor = row + 1
	}
}

// FoldParent collapses the parent directory of the current node and
// moves the cursor onto it. Top-level nodes have no parent to fold.
func (s *Section) FoldParent() {
	n := s.CurrentNode()
	if n == nil {
		return
	}
	j := strings.LastIndexByte(n.Path, '/')
	if j < 0 {
		return
	}
	parent := n.Path[:j]
	for i := range s.nodes {
		if !s.nodes[i].Dir || s.nodes[i].Path != parent {
			continue
		}
		s.nodes[i].Expanded = false
		s.RebuildVisible()
		for row, idx := range s.visible {
			if idx == i {
				s.cursor = row
				break
			}
		}
		s.ClampCursor()
		return
	}
}

// FilesUnderDir lists the paths of all files below a directory, in tree
// order.
func (s *Section) FilesUnderDir(dir string) []string {
	var files []string
	prefix := dir + "/"
	for i := range s.nodes {
		if !s.nodes[i].Dir && strings.HasPrefix(s.nodes[i].Path, prefix) {
			files = append(files, s.nodes[i].Path)
		}
	}
	return files
}

// SetCursor places the cursor on an absolute visible row, clamped.
func (s *Section) SetCursor(row int) {
	if row < 0 {
		row = 0
	}
	s.cursor = row
	s.ClampCursor()
}

func (s *Section) Cursor() int     { return s.cursor }
func (s *Section) VisibleLen() int { return len(s.visible) }

func (s *Section) IsEmpty() bool { return len(s.visible) == 0 }

// FileCount counts file nodes regardless of visibility.
func (s *Section) FileCount() int {
	count := 0
	for i := range s.nodes {
		if !s.nodes[i].Dir {
			count++
		}
	}
	return count
}
