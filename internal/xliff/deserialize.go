package xliff

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"loctool/internal/locale"
	"loctool/internal/resource"
	"loctool/internal/textutil"

	"github.com/rs/zerolog/log"
)

// DefaultForeignDatatype is assumed for 2.0 units that carry neither an
// l:datatype attribute nor a group name.
const DefaultForeignDatatype = "javascript"

type xmlDoc struct {
	XMLName xml.Name  `xml:"xliff"`
	Version string    `xml:"version,attr"`
	SrcLang string    `xml:"srcLang,attr"`
	TrgLang string    `xml:"trgLang,attr"`
	Files   []xmlFile `xml:"file"`
}

// xmlFile collects trans-units and units wherever they sit below <file>,
// remembering the name of the closest enclosing group.
type xmlFile struct {
	Original       string
	SourceLanguage string
	TargetLanguage string
	ProductName    string
	Project        string
	Flavor         string

	transUnits []xmlTransUnit
	units      []xmlUnit
}

type xmlTransUnit struct {
	ID       string    `xml:"id,attr"`
	Resname  string    `xml:"resname,attr"`
	Restype  string    `xml:"restype,attr"`
	Datatype string    `xml:"datatype,attr"`
	Extype   string    `xml:"extype,attr"`
	Context  string    `xml:"x-context,attr"`
	Source   xmlText   `xml:"source"`
	Target   *xmlText  `xml:"target"`
	Notes    []xmlNote `xml:"note"`
}

type xmlUnit struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name,attr"`
	Type     string       `xml:"type,attr"`
	Datatype string       `xml:"datatype,attr"`
	Index    string       `xml:"index,attr"`
	Category string       `xml:"category,attr"`
	Context  string       `xml:"context,attr"`
	Notes    []xmlNote    `xml:"notes>note"`
	Segments []xmlSegment `xml:"segment"`

	group string
}

type xmlSegment struct {
	Source xmlText  `xml:"source"`
	Target *xmlText `xml:"target"`
}

type xmlText struct {
	State string    `xml:"state,attr"`
	Text  string    `xml:",chardata"`
	Marks []xmlMark `xml:"mrk"`
}

type xmlMark struct {
	MType string `xml:"mtype,attr"`
	Text  string `xml:",chardata"`
}

type xmlNote struct {
	Annotates string `xml:"annotates,attr"`
	AppliesTo string `xml:"appliesTo,attr"`
	Text      string `xml:",chardata"`
}

// content returns the element text. Segmented <mrk mtype="seg"> children
// replace the direct text and are joined for the locale.
func (t *xmlText) content(loc string) string {
	if t == nil {
		return ""
	}
	var pieces []string
	for _, m := range t.Marks {
		if m.MType == "" || m.MType == "seg" {
			pieces = append(pieces, m.Text)
		}
	}
	if len(pieces) > 0 {
		return textutil.JoinSegments(pieces, locale.Joiner(loc))
	}
	return t.Text
}

func (t *xmlText) state() string {
	if t == nil {
		return ""
	}
	return t.State
}

func (f *xmlFile) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "original":
			f.Original = a.Value
		case "source-language":
			f.SourceLanguage = a.Value
		case "target-language":
			f.TargetLanguage = a.Value
		case "product-name":
			f.ProductName = a.Value
		case "project":
			f.Project = a.Value
		case "x-flavor", "flavor":
			f.Flavor = a.Value
		}
	}
	return f.collect(d, "")
}

func (f *xmlFile) collect(d *xml.Decoder, group string) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trans-unit":
				var tu xmlTransUnit
				if err := d.DecodeElement(&tu, &t); err != nil {
					return err
				}
				f.transUnits = append(f.transUnits, tu)
			case "unit":
				var u xmlUnit
				if err := d.DecodeElement(&u, &t); err != nil {
					return err
				}
				u.group = group
				f.units = append(f.units, u)
			case "group":
				name := group
				for _, a := range t.Attr {
					if a.Name.Local == "name" && a.Value != "" {
						name = a.Value
					}
				}
				if err := f.collect(d, name); err != nil {
					return err
				}
			case "body":
				if err := f.collect(d, group); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// Deserialize parses XLIFF 1.2 or 2.0 text and adds its resources to the
// engine. The engine takes on the document's version. Units without source
// text are skipped; only malformed XML is an error.
func (x *Xliff) Deserialize(text string) error {
	var doc xmlDoc
	if err := xml.NewDecoder(strings.NewReader(text)).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode xliff: %w", err)
	}

	if doc.Version != "" {
		x.version = ParseVersion(doc.Version)
	}

	var units []*TranslationUnit
	if x.version >= Version20 {
		if doc.TrgLang != "" {
			if x.targetLocale != "" && x.targetLocale != doc.TrgLang {
				return fmt.Errorf("deserialize %s document into %s engine: %w",
					doc.TrgLang, x.targetLocale, ErrTargetLocaleConflict)
			}
			x.targetLocale = doc.TrgLang
		}
		if x.sourceLocale == "" {
			x.sourceLocale = doc.SrcLang
		}
		units = x.units20(&doc)
	} else {
		units = x.units12(&doc)
	}

	for _, u := range units {
		x.addUnit(u)
	}

	log.Debug().
		Float64("version", x.version).
		Int("units", len(units)).
		Int("resources", len(x.resources)).
		Msg("Deserialized xliff")
	return nil
}

func (x *Xliff) units12(doc *xmlDoc) []*TranslationUnit {
	var out []*TranslationUnit
	for i := range doc.Files {
		f := &doc.Files[i]
		srcLocale := firstNonEmpty(f.SourceLanguage, x.sourceLocale)
		tgtLocale := f.TargetLanguage
		project := firstNonEmpty(f.ProductName, f.Project)

		for _, tu := range f.transUnits {
			source := tu.Source.content(srcLocale)
			if source == "" {
				log.Debug().Str("id", tu.ID).Str("file", f.Original).Msg("Skipping unit with empty source")
				continue
			}
			target := tu.Target.content(tgtLocale)
			kind := resource.ParseKind(tu.Restype)

			u := &TranslationUnit{
				Source:       source,
				SourceLocale: srcLocale,
				Target:       target,
				TargetLocale: tgtLocale,
				Key:          firstNonEmpty(tu.Resname, source),
				File:         f.Original,
				Project:      project,
				ID:           tu.ID,
				Kind:         kind,
				Origin:       originOf(target),
				Context:      tu.Context,
				Flavor:       f.Flavor,
				Datatype:     tu.Datatype,
				State:        tu.Target.state(),
			}
			if !applyExtype(u, tu.Extype) {
				continue
			}
			applyNote(u, noteText(tu.Notes))
			if u.SourceLocale == "" {
				log.Debug().Str("key", u.Key).Msg("Skipping unit without source locale")
				continue
			}
			out = append(out, u)
		}
	}
	return out
}

func (x *Xliff) units20(doc *xmlDoc) []*TranslationUnit {
	srcLocale := firstNonEmpty(doc.SrcLang, x.sourceLocale)
	tgtLocale := doc.TrgLang
	srcJoiner := locale.Joiner(srcLocale)
	tgtJoiner := locale.Joiner(tgtLocale)

	var out []*TranslationUnit
	for i := range doc.Files {
		f := &doc.Files[i]
		project := firstNonEmpty(f.Project, f.Original)

		for _, xu := range f.units {
			var sources, targets []string
			state := ""
			for _, seg := range xu.Segments {
				sources = append(sources, seg.Source.content(srcLocale))
				if seg.Target != nil {
					targets = append(targets, seg.Target.content(tgtLocale))
					state = firstNonEmpty(state, seg.Target.State)
				}
			}
			source := textutil.JoinSegments(sources, srcJoiner)
			if source == "" {
				log.Debug().Str("id", xu.ID).Str("file", f.Original).Msg("Skipping unit with empty source")
				continue
			}
			target := textutil.JoinSegments(targets, tgtJoiner)

			u := &TranslationUnit{
				Source:       source,
				SourceLocale: srcLocale,
				Target:       target,
				TargetLocale: tgtLocale,
				Key:          firstNonEmpty(xu.Name, source),
				File:         f.Original,
				Project:      project,
				ID:           xu.ID,
				Kind:         resource.ParseKind(xu.Type),
				Origin:       originOf(target),
				Context:      xu.Context,
				Flavor:       f.Flavor,
				Datatype:     firstNonEmpty(xu.Datatype, xu.group, DefaultForeignDatatype),
				State:        state,
				Category:     xu.Category,
			}
			if xu.Index != "" {
				idx, ok := parseIndex(u.Key, xu.Index)
				if !ok {
					continue
				}
				u.Index = idx
			}
			applyNote(u, noteText(xu.Notes))
			if u.SourceLocale == "" {
				log.Debug().Str("key", u.Key).Msg("Skipping unit without source locale")
				continue
			}
			out = append(out, u)
		}
	}
	return out
}

// applyExtype interprets the 1.2 extype attribute as an array index or a
// plural category. It reports false when the unit should be skipped.
func applyExtype(u *TranslationUnit, extype string) bool {
	switch u.Kind {
	case resource.KindArray:
		if extype == "" {
			return true
		}
		idx, ok := parseIndex(u.Key, extype)
		u.Index = idx
		return ok
	case resource.KindPlural:
		u.Category = extype
	}
	return true
}

// parseIndex reads an array slot number, rejecting values outside
// [0, MaxArrayIndex].
func parseIndex(key, s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > MaxArrayIndex {
		log.Warn().Str("key", key).Str("index", s).Msg("Skipping array unit with invalid index")
		return 0, false
	}
	return n, true
}

// applyNote stores a translator note as the comment. Plural metadata notes
// only supply a missing category.
func applyNote(u *TranslationUnit, note string) {
	if note == "" {
		return
	}
	if meta, ok := parsePluralNote(note); ok && u.Kind == resource.KindPlural {
		if u.Category == "" {
			u.Category = meta.PluralForm
		}
		return
	}
	u.Comment = note
}

func noteText(notes []xmlNote) string {
	for _, n := range notes {
		if n.Text != "" {
			return n.Text
		}
	}
	return ""
}

func originOf(target string) resource.Origin {
	if target == "" {
		return resource.OriginSource
	}
	return resource.OriginTarget
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
