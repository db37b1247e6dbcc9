// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/potool/potool/catalog"
	"codeberg.org/potool/potool/extract"
)

type want struct {
	text  string
	line  int
	flags []string
}

func assertLiterals(t *testing.T, src string, got []extract.Literal, expected []want) {
	t.Helper()

	require.Len(t, got, len(expected))

	for i, w := range expected {
		assert.Equal(t, w.text, got[i].Text, "literal %d", i)
		assert.Equal(t, w.line, got[i].Line, "literal %d (%q)", i, w.text)
		assert.Equal(t, w.flags, got[i].Flags, "literal %d (%q)", i, w.text)
		assert.LessOrEqual(t, got[i].Span.End, len(src))
		assert.Less(t, got[i].Span.Start, got[i].Span.End)
	}
}

func warningLines(ws []extract.Warning) []int {
	lines := make([]int, 0, len(ws))
	for _, w := range ws {
		lines = append(lines, w.Line)
	}

	return lines
}

func TestScriptExtractor(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"from x import _",
		"",
		"class A:",
		"    def save(self):",
		`        raise UserError(_("Save Changes"))`,
		`        msg = self.env._('Hello %s') % name`,
		`        bad = _(f"Hi {name}")`,
		`        cat = _("a" "b")`,
		`        fmt = _("x {}".format(1))`,
		`        # _("comment")`,
		`        doc = _("""multi`,
		`line""")`,
		`        e = _("   ")`,
		`        r = _lt(r"C:\path")`,
		`        u = _(u"caf\xe9\n")`,
		`def _(s): return s`,
		"",
	}, "\n")

	lits, warns := extract.NewScript(nil).Extract("models/a.py", []byte(src))

	assertLiterals(t, src, lits, []want{
		{"Save Changes", 5, nil},
		{"Hello %s", 6, []string{catalog.FlagPythonFormat}},
		{"ab", 8, nil},
		{"multi\nline", 11, nil},
		{`C:\path`, 14, nil},
		{"café\n", 15, nil},
	})

	assert.Equal(t, `"Save Changes"`, src[lits[0].Span.Start:lits[0].Span.End])
	assert.Equal(t, extract.Script, lits[0].Dialect)
	assert.Equal(t, "models/a.py:5", lits[0].Location())

	assert.Equal(t, []int{7, 9}, warningLines(warns))
	assert.Contains(t, warns[0].Message, "interpolated")
	assert.Equal(t, "models/a.py", warns[0].File)
}

func TestScriptExtractorPercentProse(t *testing.T) {
	t.Parallel()

	src := "a = _(\"Save 50% off today\")\nb = _(\"100% complete\")\nc = _(\"%(count)s left\")\n"

	lits, warns := extract.NewScript(nil).Extract("a.py", []byte(src))
	assert.Empty(t, warns)

	assertLiterals(t, src, lits, []want{
		{"Save 50% off today", 1, nil},
		{"100% complete", 2, nil},
		{"%(count)s left", 3, []string{catalog.FlagPythonFormat}},
	})
}

func TestScriptExtractorCustomMarkers(t *testing.T) {
	t.Parallel()

	src := `gettext("yes"); _("no")`

	lits, _ := extract.NewScript([]string{"gettext"}).Extract("a.py", []byte(src))
	require.Len(t, lits, 1)
	assert.Equal(t, "yes", lits[0].Text)
}

func TestVariantExtractor(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		`// _t("no")`,
		`const a = _t('Save');`,
		"const b = _t(`Hello ${name}`);",
		`const c = _t("x" + y);`,
		`const re = /_t\("z"\)/g;`,
		`/* _t("block") */`,
		"const d = _t(`plain`);",
		`const e = x / 2 / _t("div");`,
		`function _t(s) { return s; }`,
		`const f = _lt("Count: %d");`,
		`const g = _("python marker");`,
		"",
	}, "\n")

	lits, warns := extract.NewVariant(nil).Extract("static/app.js", []byte(src))

	assertLiterals(t, src, lits, []want{
		{"Save", 2, nil},
		{"plain", 7, nil},
		{"div", 8, nil},
		{"Count: %d", 10, []string{catalog.FlagJSFormat}},
	})

	assert.Equal(t, extract.Variant, lits[0].Dialect)
	assert.Equal(t, []int{3, 4}, warningLines(warns))
}

const template = `<?xml version="1.0"?>
<templates>
  <t t-name="x">
    <field name="a" string="Status"/>
    <input placeholder="Search..."/>
    <div t-translation="off" title="Hidden">
      <span title="Also hidden">Nope</span>
    </div>
    <p>Welcome back</p>
    <span>x</span>
    <field name="b"
           help="Line two"/>
    <button string="  "/>
    <p title="After &amp; before">Fish &amp; chips</p>
  </t>
</templates>
`

func TestMarkupExtractor(t *testing.T) {
	t.Parallel()

	lits, warns := extract.NewMarkup(extract.MarkupOptions{Text: true}).Extract("views/a.xml", []byte(template))
	assert.Empty(t, warns)

	assertLiterals(t, template, lits, []want{
		{"Status", 4, nil},
		{"Search...", 5, nil},
		{"Welcome back", 9, nil},
		{"Line two", 12, nil},
		{"After & before", 14, nil},
		{"Fish & chips", 14, nil},
	})

	assert.Equal(t, "attr:string", lits[0].Note)
	assert.Equal(t, "Status", template[lits[0].Span.Start:lits[0].Span.End])
	assert.Equal(t, "text:p", lits[2].Note)
	assert.Equal(t, "Welcome back", template[lits[2].Span.Start:lits[2].Span.End])
	assert.Equal(t, extract.Markup, lits[0].Dialect)
}

func TestMarkupExtractorAttributesOnly(t *testing.T) {
	t.Parallel()

	lits, _ := extract.NewMarkup(extract.MarkupOptions{}).Extract("views/a.xml", []byte(template))

	texts := make([]string, 0, len(lits))
	for _, l := range lits {
		texts = append(texts, l.Text)
	}

	assert.Equal(t, []string{"Status", "Search...", "Line two", "After & before"}, texts)
}

func TestMarkupExtractorSelfClosingRawTags(t *testing.T) {
	t.Parallel()

	src := `<odoo>
  <template id="assets">
    <script type="text/javascript" src="/web/static/src/app.js"/>
    <style/>
  </template>
  <form string="Customer Form">
    <textarea placeholder="Notes"/>
    <field name="note" placeholder="Write a note"/>
    <title string="After Title"/>
  </form>
</odoo>
`

	lits, warns := extract.NewMarkup(extract.MarkupOptions{}).Extract("views/a.xml", []byte(src))
	assert.Empty(t, warns)

	assertLiterals(t, src, lits, []want{
		{"Customer Form", 6, nil},
		{"Notes", 7, nil},
		{"Write a note", 8, nil},
		{"After Title", 9, nil},
	})
}

func TestMarkupExtractorCustomDirective(t *testing.T) {
	t.Parallel()

	src := `<root><div data-i18n="no" string="Skip"><b string="Inner"/></div><div string="Keep"/></root>`

	lits, _ := extract.NewMarkup(extract.MarkupOptions{
		DisableAttr:  "data-i18n",
		DisableValue: "NO",
	}).Extract("a.xml", []byte(src))

	require.Len(t, lits, 1)
	assert.Equal(t, "Keep", lits[0].Text)
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	d, ok := extract.ParseDialect("Markup")
	assert.True(t, ok)
	assert.Equal(t, extract.Markup, d)

	_, ok = extract.ParseDialect("go")
	assert.False(t, ok)
}
