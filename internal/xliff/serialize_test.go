package xliff

import (
	"strings"
	"testing"

	"loctool/internal/diff"
	"loctool/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertXML(t *testing.T, want, got string) {
	t.Helper()
	if want != got {
		t.Errorf("serialized output mismatch (-want +got):\n%s", diff.Text(want, got))
	}
}

var testTool = Tool{
	ID:        "loctool",
	Name:      "Localization Tool",
	Version:   "1.2.34",
	Company:   "My Company, Inc.",
	Copyright: "Copyright 2016, My Company, Inc. All rights reserved.",
}

func TestSerialize12SourceOnly(t *testing.T) {
	x := New(Options{})
	x.AddResource(resource.NewString(webappBase("foobar", "foo/bar/asdf.java"), "Asdf asdf", ""))
	x.AddResource(resource.NewString(webappBase("huzzah", "foo/bar/j.java"), "baby baby", ""))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="foo/bar/asdf.java" source-language="en-US" product-name="webapp">
    <body>
      <trans-unit id="1" resname="foobar" restype="string" datatype="plaintext">
        <source>Asdf asdf</source>
      </trans-unit>
    </body>
  </file>
  <file original="foo/bar/j.java" source-language="en-US" product-name="webapp">
    <body>
      <trans-unit id="2" resname="huzzah" restype="string" datatype="plaintext">
        <source>baby baby</source>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize12WithTargetsAndHeader(t *testing.T) {
	x := New(Options{Tool: testTool})
	x.AddResource(resource.NewString(translatedBase("foobar", "foo/bar/asdf.java", "de-DE"), "Asdf asdf", "foobarfoo"))
	fr := resource.NewString(translatedBase("huzzah", "foo/bar/j.java", "fr-FR"), "baby baby", "bebe bebe")
	fr.State = "translated"
	fr.Flavor = "chocolate"
	x.AddResource(fr)

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="foo/bar/asdf.java" source-language="en-US" target-language="de-DE" product-name="webapp">
    <header>
      <tool tool-id="loctool" tool-name="Localization Tool" tool-version="1.2.34" tool-company="My Company, Inc." copyright="Copyright 2016, My Company, Inc. All rights reserved."/>
    </header>
    <body>
      <trans-unit id="1" resname="foobar" restype="string" datatype="plaintext">
        <source>Asdf asdf</source>
        <target>foobarfoo</target>
      </trans-unit>
    </body>
  </file>
  <file original="foo/bar/j.java" source-language="en-US" target-language="fr-FR" product-name="webapp" x-flavor="chocolate">
    <header>
      <tool tool-id="loctool" tool-name="Localization Tool" tool-version="1.2.34" tool-company="My Company, Inc." copyright="Copyright 2016, My Company, Inc. All rights reserved."/>
    </header>
    <body>
      <trans-unit id="2" resname="huzzah" restype="string" datatype="plaintext">
        <source>baby baby</source>
        <target state="translated">bebe bebe</target>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize12CommentsAndContext(t *testing.T) {
	x := New(Options{})
	b := webappBase("foobar", "foo/bar/asdf.java")
	b.Comment = "A very nice string"
	b.Context = "asdf"
	x.AddResource(resource.NewString(b, "Asdf asdf", ""))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="foo/bar/asdf.java" source-language="en-US" product-name="webapp">
    <body>
      <trans-unit id="1" resname="foobar" restype="string" datatype="plaintext" x-context="asdf">
        <source>Asdf asdf</source>
        <note>A very nice string</note>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize12Array(t *testing.T) {
	x := New(Options{})
	x.AddResource(resource.NewArray(translatedBase("foobar", "res/values/arrays.xml", "de-DE"),
		resource.ArrayOf("Asdf asdf", "foobar foo", "bar"),
		resource.ArrayOf("foobarfoo", "barfoobar", "fooasdf")))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="res/values/arrays.xml" source-language="en-US" target-language="de-DE" product-name="webapp">
    <body>
      <trans-unit id="1" resname="foobar" restype="array" datatype="x-android-resource" extype="0">
        <source>Asdf asdf</source>
        <target>foobarfoo</target>
      </trans-unit>
      <trans-unit id="2" resname="foobar" restype="array" datatype="x-android-resource" extype="1">
        <source>foobar foo</source>
        <target>barfoobar</target>
      </trans-unit>
      <trans-unit id="3" resname="foobar" restype="array" datatype="x-android-resource" extype="2">
        <source>bar</source>
        <target>fooasdf</target>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize12SparseArraySkipsGaps(t *testing.T) {
	x := New(Options{})
	x.AddResource(resource.NewArray(webappBase("foobar", "res/values/arrays.xml"),
		[]*string{resource.Ptr("zero"), nil, resource.Ptr("two"), resource.Ptr("")}, nil))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="res/values/arrays.xml" source-language="en-US" product-name="webapp">
    <body>
      <trans-unit id="1" resname="foobar" restype="array" datatype="x-android-resource" extype="0">
        <source>zero</source>
      </trans-unit>
      <trans-unit id="2" resname="foobar" restype="array" datatype="x-android-resource" extype="2">
        <source>two</source>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize12Plural(t *testing.T) {
	x := New(Options{})
	x.AddResource(resource.NewPlural(translatedBase("foobar", "res/values/plurals.xml", "de-DE"),
		map[string]string{"other": "There are {n} objects.", "one": "There is 1 object."},
		map[string]string{"other": "Da gibts {n} Objekten.", "one": "Da gibts 1 Objekt."}))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="res/values/plurals.xml" source-language="en-US" target-language="de-DE" product-name="webapp">
    <body>
      <trans-unit id="1" resname="foobar" restype="plural" datatype="x-android-resource" extype="one">
        <source>There is 1 object.</source>
        <target>Da gibts 1 Objekt.</target>
        <note>{"pluralForm":"one","pluralFormOther":"foobar"}</note>
      </trans-unit>
      <trans-unit id="2" resname="foobar" restype="plural" datatype="x-android-resource" extype="other">
        <source>There are {n} objects.</source>
        <target>Da gibts {n} Objekten.</target>
        <note>{"pluralForm":"other","pluralFormOther":"foobar"}</note>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize12PluralTargetOnlyCategoryFallsBackToOther(t *testing.T) {
	x := New(Options{})
	b := translatedBase("items", "res/values/plurals.xml", "ru-RU")
	b.Comment = "item count"
	x.AddResource(resource.NewPlural(b,
		map[string]string{"one": "1 item", "other": "{n} items"},
		map[string]string{"one": "1 штука", "few": "{n} штуки", "other": "{n} штук"}))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="res/values/plurals.xml" source-language="en-US" target-language="ru-RU" product-name="webapp">
    <body>
      <trans-unit id="1" resname="items" restype="plural" datatype="x-android-resource" extype="one">
        <source>1 item</source>
        <target>1 штука</target>
        <note>item count</note>
      </trans-unit>
      <trans-unit id="2" resname="items" restype="plural" datatype="x-android-resource" extype="few">
        <source>{n} items</source>
        <target>{n} штуки</target>
        <note>item count</note>
      </trans-unit>
      <trans-unit id="3" resname="items" restype="plural" datatype="x-android-resource" extype="other">
        <source>{n} items</source>
        <target>{n} штук</target>
        <note>item count</note>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerializeEscaping(t *testing.T) {
	x := New(Options{})
	b := webappBase(`foo"bar'<x>&`, `foo/bar's.java`)
	b.Context = `a "quoted" context`
	x.AddResource(resource.NewString(b, `Asdf <b>asdf</b> & "quotes" 'single' \n é`, ""))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="foo/bar&apos;s.java" source-language="en-US" product-name="webapp">
    <body>
      <trans-unit id="1" resname="foo&quot;bar&apos;&lt;x>&amp;" restype="string" datatype="plaintext" x-context="a &quot;quoted&quot; context">
        <source>Asdf &lt;b&gt;asdf&lt;/b&gt; &amp; "quotes" 'single' \n é</source>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerializeExplicitIDsAdvanceCounter(t *testing.T) {
	x := New(Options{})
	b := webappBase("foobar", "foo/bar/asdf.java")
	b.ID = "4444444"
	x.AddResource(resource.NewString(b, "Asdf asdf", ""))
	x.AddResource(resource.NewString(webappBase("huzzah", "foo/bar/asdf.java"), "baby baby", ""))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="foo/bar/asdf.java" source-language="en-US" product-name="webapp">
    <body>
      <trans-unit id="4444444" resname="foobar" restype="string" datatype="plaintext">
        <source>Asdf asdf</source>
      </trans-unit>
      <trans-unit id="4444445" resname="huzzah" restype="string" datatype="plaintext">
        <source>baby baby</source>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerializeNonNumericIDLeavesCounter(t *testing.T) {
	x := New(Options{})
	b := webappBase("foobar", "foo/bar/asdf.java")
	b.ID = "sample1_g1_1"
	x.AddResource(resource.NewString(b, "Asdf asdf", ""))
	x.AddResource(resource.NewString(webappBase("huzzah", "foo/bar/asdf.java"), "baby baby", ""))

	out := x.Serialize()
	assert.Contains(t, out, `<trans-unit id="sample1_g1_1" resname="foobar"`)
	assert.Contains(t, out, `<trans-unit id="1" resname="huzzah"`)
}

func TestSerializeAutoIDsSkipLaterExplicitIDs(t *testing.T) {
	x := New(Options{})
	x.AddResource(resource.NewString(webappBase("a", "foo/bar/asdf.java"), "Asdf asdf", ""))
	b := webappBase("b", "foo/bar/asdf.java")
	b.ID = "1"
	x.AddResource(resource.NewString(b, "baby baby", ""))
	x.AddResource(resource.NewString(webappBase("c", "foo/bar/asdf.java"), "nope", ""))

	out := x.Serialize()
	assert.Equal(t, 1, strings.Count(out, `id="1"`))
	assert.Contains(t, out, `<trans-unit id="2" resname="a"`)
	assert.Contains(t, out, `<trans-unit id="1" resname="b"`)
	assert.Contains(t, out, `<trans-unit id="3" resname="c"`)
}

func TestSerializeAutoIDsSkipInstanceIDs(t *testing.T) {
	x := New(Options{AllowDups: true})
	x.AddResource(resource.NewString(translatedBase("foobar", "foo/bar/asdf.java", "de-DE"), "Asdf asdf", "foobarfoo"))
	b := translatedBase("foobar", "foo/bar/asdf.java", "de-DE")
	b.ID = "1"
	dup := resource.NewString(b, "Asdf asdf", "foobarfoo")
	dup.Comment = "used twice"
	x.AddResource(dup)

	out := x.Serialize()
	assert.Equal(t, 1, strings.Count(out, `id="1"`))
	assert.Equal(t, 1, strings.Count(out, `id="2"`))
}

func TestSerializeRecordsAssignedIDs(t *testing.T) {
	x := New(Options{})
	s := resource.NewString(webappBase("foobar", "foo/bar/asdf.java"), "Asdf asdf", "")
	arr := resource.NewArray(webappBase("arr", "res/values/arrays.xml"), resource.ArrayOf("a", "b"), nil)
	x.AddResource(s)
	x.AddResource(arr)

	first := x.Serialize()
	assert.Equal(t, "1", s.ID)
	assert.Equal(t, "2", arr.ID)
	assert.Equal(t, first, x.Serialize())
}

func TestSerialize12Instances(t *testing.T) {
	x := New(Options{AllowDups: true})
	x.AddResource(resource.NewString(translatedBase("foobar", "foo/bar/asdf.java", "de-DE"), "Asdf asdf", "foobarfoo"))
	dup := resource.NewString(translatedBase("foobar", "foo/bar/asdf.java", "de-DE"), "Asdf asdf", "foobarfoo")
	dup.Comment = "used twice"
	x.AddResource(dup)

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="foo/bar/asdf.java" source-language="en-US" target-language="de-DE" product-name="webapp">
    <body>
      <trans-unit id="1" resname="foobar" restype="string" datatype="plaintext">
        <source>Asdf asdf</source>
        <target>foobarfoo</target>
      </trans-unit>
      <trans-unit id="2" resname="foobar" restype="string" datatype="plaintext">
        <source>Asdf asdf</source>
        <target>foobarfoo</target>
        <note>used twice</note>
      </trans-unit>
    </body>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize20(t *testing.T) {
	x := New(Options{Version: "2.0"})
	x.AddResource(resource.NewString(translatedBase("foobar", "foo/bar/asdf.java", "de-DE"), "Asdf asdf", "foobarfoo"))
	x.AddResource(resource.NewString(translatedBase("huzzah", "foo/bar/j.java", "de-DE"), "baby baby", "bebe bebe"))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="2.0" srcLang="en-US" trgLang="de-DE" xmlns:l="http://ilib-js.com/loctool">
  <file original="foo/bar/asdf.java" l:project="webapp">
    <group id="group_1" name="plaintext">
      <unit id="1" name="foobar" type="res:string" l:datatype="plaintext">
        <segment>
          <source>Asdf asdf</source>
          <target>foobarfoo</target>
        </segment>
      </unit>
    </group>
  </file>
  <file original="foo/bar/j.java" l:project="webapp">
    <group id="group_2" name="plaintext">
      <unit id="2" name="huzzah" type="res:string" l:datatype="plaintext">
        <segment>
          <source>baby baby</source>
          <target>bebe bebe</target>
        </segment>
      </unit>
    </group>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize20HeaderNotesAndGroups(t *testing.T) {
	x := New(Options{Version: "2", Tool: testTool})
	js := translatedBase("foobar", "foo/bar/asdf.js", "de-DE")
	js.Datatype = "javascript"
	js.Comment = "This is a comment"
	js.Context = "button"
	x.AddResource(resource.NewString(js, "Asdf asdf", "foobarfoo"))

	plain := translatedBase("huzzah", "foo/bar/asdf.js", "de-DE")
	plain.Datatype = ""
	x.AddResource(&resource.String{Base: plain, Source: "baby baby", Target: "bebe bebe"})

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="2.0" srcLang="en-US" trgLang="de-DE" xmlns:l="http://ilib-js.com/loctool">
  <file original="foo/bar/asdf.js" l:project="webapp">
    <group id="group_1" name="javascript">
      <unit id="1" name="foobar" type="res:string" l:datatype="javascript" l:context="button">
        <notes>
          <note appliesTo="source">This is a comment</note>
        </notes>
        <segment>
          <source>Asdf asdf</source>
          <target>foobarfoo</target>
        </segment>
      </unit>
    </group>
    <group id="group_2" name="plaintext">
      <unit id="2" name="huzzah" type="res:string">
        <segment>
          <source>baby baby</source>
          <target>bebe bebe</target>
        </segment>
      </unit>
    </group>
    <header>
      <tool tool-id="loctool" tool-name="Localization Tool" tool-version="1.2.34" tool-company="My Company, Inc." copyright="Copyright 2016, My Company, Inc. All rights reserved."/>
    </header>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize20ArrayAndPlural(t *testing.T) {
	x := New(Options{Version: "2.0"})
	x.AddResource(resource.NewArray(translatedBase("arr", "res/values/strings.xml", "de-DE"),
		resource.ArrayOf("a", "b"), resource.ArrayOf("A", "B")))
	x.AddResource(resource.NewPlural(translatedBase("items", "res/values/strings.xml", "de-DE"),
		map[string]string{"one": "1 item", "other": "{n} items"},
		map[string]string{"one": "1 Ding", "other": "{n} Dinge"}))

	want := `<?xml version="1.0" encoding="utf-8"?>
<xliff version="2.0" srcLang="en-US" trgLang="de-DE" xmlns:l="http://ilib-js.com/loctool">
  <file original="res/values/strings.xml" l:project="webapp">
    <group id="group_1" name="x-android-resource">
      <unit id="1" name="arr" type="res:array" l:datatype="x-android-resource" l:index="0">
        <segment>
          <source>a</source>
          <target>A</target>
        </segment>
      </unit>
      <unit id="2" name="arr" type="res:array" l:datatype="x-android-resource" l:index="1">
        <segment>
          <source>b</source>
          <target>B</target>
        </segment>
      </unit>
      <unit id="3" name="items" type="res:plural" l:datatype="x-android-resource" l:category="one">
        <notes>
          <note appliesTo="source">{"pluralForm":"one","pluralFormOther":"items"}</note>
        </notes>
        <segment>
          <source>1 item</source>
          <target>1 Ding</target>
        </segment>
      </unit>
      <unit id="4" name="items" type="res:plural" l:datatype="x-android-resource" l:category="other">
        <notes>
          <note appliesTo="source">{"pluralForm":"other","pluralFormOther":"items"}</note>
        </notes>
        <segment>
          <source>{n} items</source>
          <target>{n} Dinge</target>
        </segment>
      </unit>
    </group>
  </file>
</xliff>`
	assertXML(t, want, x.Serialize())
}

func TestSerialize20SkipsOtherTargetLocales(t *testing.T) {
	x := New(Options{Version: "2.0"})
	x.AddResource(resource.NewString(translatedBase("foobar", "foo/bar/asdf.java", "de-DE"), "Asdf asdf", "foobarfoo"))
	x.AddResource(resource.NewString(translatedBase("huzzah", "foo/bar/asdf.java", "fr-FR"), "baby baby", "bebe bebe"))

	require.Equal(t, 2, x.Size())
	out := x.Serialize()
	assert.Contains(t, out, `trgLang="de-DE"`)
	assert.Contains(t, out, "foobarfoo")
	assert.NotContains(t, out, "bebe bebe")
}

func TestSerializeEmpty(t *testing.T) {
	assertXML(t, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<xliff version=\"1.2\">\n</xliff>", New(Options{}).Serialize())
}
