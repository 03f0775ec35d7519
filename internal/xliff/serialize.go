package xliff

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"loctool/internal/resource"

	"github.com/rs/zerolog/log"
)

const xmlDecl = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// dialect renders the laid-out document in one XLIFF version.
type dialect interface {
	render(w *strings.Builder, doc *document)
}

// document is the version-independent layout of a serialization.
type document struct {
	sourceLocale string
	targetLocale string
	tool         Tool
	files        []*fileBlock
}

type fileKey struct {
	path         string
	sourceLocale string
	targetLocale string
	project      string
	flavor       string
}

type fileBlock struct {
	fileKey
	units []*unitEntry
}

// unitEntry is one trans-unit/unit ready to be written.
type unitEntry struct {
	id       string
	key      string
	kind     resource.Kind
	datatype string
	// group is the 2.0 group name: the datatype, or plaintext.
	group    string
	index    string
	category string
	context  string
	source   string
	target   string
	state    string
	note     string
}

// idCounter hands out unit ids for one serialization. Explicit numeric ids
// push the counter past themselves, and auto ids skip every explicit id in
// the document, so no id is emitted twice.
type idCounter struct {
	next     int
	reserved map[int]bool
}

func newIDCounter(rs []resource.Resource) *idCounter {
	c := &idCounter{next: 1, reserved: make(map[int]bool)}
	for _, r := range rs {
		for _, rr := range append([]resource.Resource{r}, r.Instances()...) {
			if n, err := strconv.Atoi(rr.Meta().ID); err == nil {
				c.reserved[n] = true
			}
		}
	}
	return c
}

func (c *idCounter) take(explicit string) string {
	if explicit != "" {
		if n, err := strconv.Atoi(explicit); err == nil && n >= c.next {
			c.next = n + 1
		}
		return explicit
	}
	for c.reserved[c.next] {
		c.next++
	}
	id := strconv.Itoa(c.next)
	c.next++
	return id
}

// Serialize renders the resources as XLIFF text in the engine's version.
// Resources without an id keep the id they were given here.
func (x *Xliff) Serialize() string {
	doc := x.layout()

	var d dialect = v12{}
	if x.version >= Version20 {
		d = v20{}
	}

	var w strings.Builder
	w.WriteString(xmlDecl)
	d.render(&w, doc)
	return w.String()
}

func (x *Xliff) layout() *document {
	doc := &document{
		sourceLocale: x.sourceLocale,
		targetLocale: x.targetLocale,
		tool:         x.tool,
	}
	ids := newIDCounter(x.resources)
	byKey := make(map[fileKey]*fileBlock)

	for _, r := range x.resources {
		b := r.Meta()
		if doc.sourceLocale == "" {
			doc.sourceLocale = b.SourceLocale
		}
		if x.version >= Version20 {
			if doc.targetLocale == "" {
				doc.targetLocale = b.TargetLocale
			} else if b.TargetLocale != "" && b.TargetLocale != doc.targetLocale {
				log.Warn().
					Str("key", b.Key).
					Str("locale", b.TargetLocale).
					Str("document_locale", doc.targetLocale).
					Msg("Skipping resource with a different target locale")
				continue
			}
		}

		for _, rr := range append([]resource.Resource{r}, r.Instances()...) {
			fk := fileKeyOf(rr)
			fb, ok := byKey[fk]
			if !ok {
				fb = &fileBlock{fileKey: fk}
				byKey[fk] = fb
				doc.files = append(doc.files, fb)
			}
			fb.units = append(fb.units, entriesOf(rr, ids)...)
		}
	}
	return doc
}

func fileKeyOf(r resource.Resource) fileKey {
	b := r.Meta()
	return fileKey{
		path:         b.Path,
		sourceLocale: b.SourceLocale,
		targetLocale: b.TargetLocale,
		project:      b.Project,
		flavor:       b.Flavor,
	}
}

// entriesOf expands r into unit entries and records the first assigned id
// on resources that had none.
func entriesOf(r resource.Resource, ids *idCounter) []*unitEntry {
	b := r.Meta()
	units := unitsOf(r)
	out := make([]*unitEntry, 0, len(units))

	for i, u := range units {
		e := &unitEntry{
			id:       ids.take(u.ID),
			key:      b.Key,
			kind:     r.Kind(),
			datatype: b.Datatype,
			group:    b.DatatypeGroup(),
			context:  b.Context,
			source:   u.Source,
			target:   u.Target,
			state:    b.State,
			note:     b.Comment,
		}
		switch r.Kind() {
		case resource.KindArray:
			e.index = strconv.Itoa(u.Index)
		case resource.KindPlural:
			e.category = u.Category
			if e.note == "" {
				e.note = pluralNote(u.Category, b.Key)
			}
		}
		if i == 0 && b.ID == "" {
			b.ID = e.id
		}
		out = append(out, e)
	}
	return out
}

type pluralMeta struct {
	PluralForm      string `json:"pluralForm"`
	PluralFormOther string `json:"pluralFormOther"`
}

func pluralNote(category, key string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(pluralMeta{PluralForm: category, PluralFormOther: key}); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// parsePluralNote recognizes a plural metadata note.
func parsePluralNote(note string) (pluralMeta, bool) {
	var m pluralMeta
	trimmed := strings.TrimSpace(note)
	if !strings.HasPrefix(trimmed, "{") {
		return m, false
	}
	if err := json.Unmarshal([]byte(trimmed), &m); err != nil || m.PluralForm == "" {
		return m, false
	}
	return m, true
}

// attr writes ` name="value"` when value is not empty.
func attr(w *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	w.WriteByte(' ')
	w.WriteString(name)
	w.WriteString(`="`)
	w.WriteString(escapeAttr(value))
	w.WriteByte('"')
}

func writeTool(w *strings.Builder, indent string, t Tool) {
	w.WriteString(indent)
	w.WriteString("<header>\n")
	w.WriteString(indent)
	w.WriteString("  <tool")
	attr(w, "tool-id", t.ID)
	attr(w, "tool-name", t.Name)
	attr(w, "tool-version", t.Version)
	attr(w, "tool-company", t.Company)
	attr(w, "copyright", t.Copyright)
	w.WriteString("/>\n")
	w.WriteString(indent)
	w.WriteString("</header>\n")
}

// element writes indent<name attrs>text</name>\n.
func element(w *strings.Builder, indent, name, attrs, text string) {
	w.WriteString(indent)
	w.WriteByte('<')
	w.WriteString(name)
	w.WriteString(attrs)
	w.WriteByte('>')
	w.WriteString(escapeText(text))
	w.WriteString("</")
	w.WriteString(name)
	w.WriteString(">\n")
}

func stateAttr(state string) string {
	var b strings.Builder
	attr(&b, "state", state)
	return b.String()
}
