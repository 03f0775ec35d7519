package xliff

import (
	"strconv"
	"strings"
)

// Namespace of the custom l: attributes.
const LoctoolNamespace = "http://ilib-js.com/loctool"

// v20 writes XLIFF 2.0: global srcLang/trgLang, units grouped per datatype
// inside each file, the header after the groups.
type v20 struct{}

func (v20) render(w *strings.Builder, doc *document) {
	w.WriteString(`<xliff version="2.0"`)
	attr(w, "srcLang", doc.sourceLocale)
	attr(w, "trgLang", doc.targetLocale)
	attr(w, "xmlns:l", LoctoolNamespace)
	w.WriteString(">\n")

	groupID := 0
	for _, f := range doc.files {
		w.WriteString("  <file")
		attr(w, "original", f.path)
		attr(w, "l:project", f.project)
		attr(w, "l:flavor", f.flavor)
		w.WriteString(">\n")

		for _, g := range groupUnits(f.units) {
			groupID++
			w.WriteString("    <group")
			attr(w, "id", "group_"+strconv.Itoa(groupID))
			attr(w, "name", g.name)
			w.WriteString(">\n")
			for _, u := range g.units {
				v20Unit(w, u)
			}
			w.WriteString("    </group>\n")
		}

		if !doc.tool.isZero() {
			writeTool(w, "    ", doc.tool)
		}
		w.WriteString("  </file>\n")
	}

	w.WriteString("</xliff>")
}

type unitGroup struct {
	name  string
	units []*unitEntry
}

// groupUnits partitions units by group name in first-appearance order.
func groupUnits(units []*unitEntry) []*unitGroup {
	var groups []*unitGroup
	byName := make(map[string]*unitGroup)
	for _, u := range units {
		g, ok := byName[u.group]
		if !ok {
			g = &unitGroup{name: u.group}
			byName[u.group] = g
			groups = append(groups, g)
		}
		g.units = append(g.units, u)
	}
	return groups
}

func v20Unit(w *strings.Builder, u *unitEntry) {
	w.WriteString("      <unit")
	attr(w, "id", u.id)
	attr(w, "name", u.key)
	attr(w, "type", "res:"+string(u.kind))
	attr(w, "l:datatype", u.datatype)
	attr(w, "l:index", u.index)
	attr(w, "l:category", u.category)
	attr(w, "l:context", u.context)
	w.WriteString(">\n")

	if u.note != "" {
		w.WriteString("        <notes>\n")
		element(w, "          ", "note", ` appliesTo="source"`, u.note)
		w.WriteString("        </notes>\n")
	}

	w.WriteString("        <segment>\n")
	element(w, "          ", "source", "", u.source)
	if u.target != "" {
		element(w, "          ", "target", stateAttr(u.state), u.target)
	}
	w.WriteString("        </segment>\n")

	w.WriteString("      </unit>\n")
}
