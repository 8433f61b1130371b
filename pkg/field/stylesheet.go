package field

import "github.com/goliatone/go-textfield/pkg/style"

// StyleSheet is the default TextField sheet: a flex root with an expanding
// underline that scales in on focus and turns the error colour on error.
var StyleSheet = &style.Sheet{
	Name: "TextField",
	Rules: []style.Rule{
		{
			Slot: style.SlotRoot,
			Declarations: []style.Declaration{
				{Property: "display", Value: "flex"},
				{Property: "position", Value: "relative"},
				{Property: "margin-top", Value: "16px"},
			},
			Nested: []style.Block{
				{
					Selector: "&:after",
					Declarations: []style.Declaration{
						{Property: "background-color", Value: "var(--accent)"},
						{Property: "left", Value: "0"},
						{Property: "bottom", Value: "9px"},
						{Property: "content", Value: `""`},
						{Property: "height", Value: "2px"},
						{Property: "position", Value: "absolute"},
						{Property: "width", Value: "100%"},
						{Property: "transform", Value: "scaleX(0)"},
						{Property: "transition", Value: "transform 200ms cubic-bezier(0.0, 0, 0.2, 1) 0ms"},
					},
				},
			},
		},
		{Slot: style.SlotLabel},
		{
			Slot: style.SlotInput,
			Declarations: []style.Declaration{
				{Property: "display", Value: "block"},
				{Property: "margin-top", Value: "10px"},
				{Property: "margin-bottom", Value: "10px"},
				{Property: "width", Value: "100%"},
				{Property: "z-index", Value: "1"},
			},
		},
		{
			Slot: style.SlotFocused,
			Nested: []style.Block{
				{
					Selector:     "&:after",
					Declarations: []style.Declaration{{Property: "transform", Value: "scaleX(1)"}},
				},
			},
		},
		{
			Slot: style.SlotError,
			Nested: []style.Block{
				{
					// error is always underlined
					Selector: "&:after",
					Declarations: []style.Declaration{
						{Property: "background-color", Value: "var(--error)"},
						{Property: "transform", Value: "scaleX(1)"},
					},
				},
			},
		},
	},
}

// ResolveRootClass combines the root slot with the focused and error slots
// when they apply, followed by the caller's extra classes.
func ResolveRootClass(classes style.ClassMap, focused, errored bool, extra string) string {
	lists := []string{classes.Class(style.SlotRoot)}
	if focused {
		lists = append(lists, classes.Class(style.SlotFocused))
	}
	if errored {
		lists = append(lists, classes.Class(style.SlotError))
	}
	lists = append(lists, extra)
	return MergeClasses(lists...)
}
