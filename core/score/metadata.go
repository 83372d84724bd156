package score

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// tagList accumulates key/value metadata in insertion order. LRC header
// emission order is meaningful, so this is a sequence with set-or-replace
// semantics rather than a map.
type tagList struct {
	keys   []string
	values map[string]string
}

func newTagList() *tagList {
	return &tagList{values: make(map[string]string)}
}

func (t *tagList) set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

func (t *tagList) render() []string {
	var out []string
	for _, k := range t.keys {
		if v := t.values[k]; v != "" {
			out = append(out, "["+k+":"+v+"]")
		}
	}
	return out
}

// Metadata extracts LRC header tags from the score's descriptive elements,
// rendered as "[key:value]" lines in a fixed emission order:
//
//	ti  work-title, falling back to movement-title
//	ar  the composer creator, falling back to all creators joined with ", "
//	by  encoding software
//	al  source
func (d *Document) Metadata() []string {
	tags := newTagList()

	if ti := firstText(d.root, "//work/work-title"); ti != "" {
		tags.set("ti", ti)
	} else if ti := firstText(d.root, "//movement-title"); ti != "" {
		tags.set("ti", ti)
	}

	creators := xmlquery.Find(d.root, "//identification/creator")
	var names []string
	composer := ""
	for _, c := range creators {
		name := strings.TrimSpace(c.InnerText())
		if name == "" {
			continue
		}
		names = append(names, name)
		if composer == "" && attr(c, "type") == "composer" {
			composer = name
		}
	}
	if len(names) > 0 {
		tags.set("ar", strings.Join(names, ", "))
	}
	if composer != "" {
		tags.set("ar", composer)
	}

	if by := firstText(d.root, "//identification/encoding/software"); by != "" {
		tags.set("by", by)
	}
	if al := firstText(d.root, "//identification/source"); al != "" {
		tags.set("al", al)
	}

	return tags.render()
}

func firstText(root *xmlquery.Node, expr string) string {
	n := xmlquery.FindOne(root, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}
