package encode

import (
	"strings"

	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/patch"

	"github.com/fatih/color"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
	Ops     map[patch.Kind]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
		Ops:     map[patch.Kind]func(string, ...any) string{},
	}
	for _, t := range ir.Types() {
		colors.Map[Colorable{Type: t, Attr: SepColor}] = color.RGB(128, 128, 128).SprintfFunc()
	}
	colors.Map[Colorable{Type: ir.ObjectType, Attr: FieldColor}] = color.RGB(128, 216, 236).SprintfFunc()
	colors.Map[Colorable{Type: ir.StringType, Attr: ValueColor}] = color.RGB(196, 96, 16).SprintfFunc()
	colors.Map[Colorable{Type: ir.NumberType, Attr: ValueColor}] = color.RGB(168, 0, 196).SprintfFunc()
	colors.Map[Colorable{Type: ir.BoolType, Attr: ValueColor}] = color.CyanString
	colors.Map[Colorable{Type: ir.NullType, Attr: ValueColor}] = color.RGB(96, 96, 96).SprintfFunc()

	colors.Ops[patch.KindAdd] = color.RGB(8, 196, 16).SprintfFunc()
	colors.Ops[patch.KindRemove] = color.RGB(196, 32, 32).SprintfFunc()
	colors.Ops[patch.KindReplace] = color.RGB(198, 198, 46).SprintfFunc()
	colors.Ops[patch.KindMove] = color.CyanString
	colors.Ops[patch.KindCopy] = color.CyanString
	colors.Ops[patch.KindTest] = color.BlueString

	for k, f := range colors.Map {
		colors.Map[k] = escaped(f)
	}
	for k, f := range colors.Ops {
		colors.Ops[k] = escaped(f)
	}
	return colors
}

// escaped protects '%' in already formatted text from the color
// functions, which format their first argument.
func escaped(f func(string, ...any) string) func(string, ...any) string {
	return func(v string, _ ...any) string {
		return f(strings.Replace(v, "%", "%%", -1))
	}
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	if c == nil {
		return s
	}
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}

func (c *Colors) Op(k patch.Kind, s string) string {
	if c == nil {
		return s
	}
	f := c.Ops[k]
	if f == nil {
		return c.Default(s)
	}
	return f(s)
}
