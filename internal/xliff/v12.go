package xliff

import "strings"

// v12 writes XLIFF 1.2: one <file> per path/locale pair/project/flavor, each
// with an optional header and a flat body of trans-units.
type v12 struct{}

func (v12) render(w *strings.Builder, doc *document) {
	w.WriteString(`<xliff version="1.2">` + "\n")

	for _, f := range doc.files {
		w.WriteString("  <file")
		attr(w, "original", f.path)
		attr(w, "source-language", f.sourceLocale)
		attr(w, "target-language", f.targetLocale)
		attr(w, "product-name", f.project)
		attr(w, "x-flavor", f.flavor)
		w.WriteString(">\n")

		if !doc.tool.isZero() {
			writeTool(w, "    ", doc.tool)
		}

		w.WriteString("    <body>\n")
		for _, u := range f.units {
			v12Unit(w, u)
		}
		w.WriteString("    </body>\n")
		w.WriteString("  </file>\n")
	}

	w.WriteString("</xliff>")
}

func v12Unit(w *strings.Builder, u *unitEntry) {
	w.WriteString("      <trans-unit")
	attr(w, "id", u.id)
	attr(w, "resname", u.key)
	attr(w, "restype", string(u.kind))
	attr(w, "datatype", u.datatype)
	attr(w, "extype", u.index+u.category)
	attr(w, "x-context", u.context)
	w.WriteString(">\n")

	element(w, "        ", "source", "", u.source)
	if u.target != "" {
		element(w, "        ", "target", stateAttr(u.state), u.target)
	}
	if u.note != "" {
		element(w, "        ", "note", "", u.note)
	}

	w.WriteString("      </trans-unit>\n")
}
