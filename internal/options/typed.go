package options

import (
	"time"

	"github.com/dshills/mirror/internal/engine"
)

// ReadOnlyMode is the value of the readOnly option.
type ReadOnlyMode uint8

const (
	// ReadOnlyOff allows editing.
	ReadOnlyOff ReadOnlyMode = iota
	// ReadOnlyOn refuses edits but keeps the cursor.
	ReadOnlyOn
	// ReadOnlyNoCursor also hides the cursor and refuses focus.
	ReadOnlyNoCursor
)

// String returns the mode name.
func (m ReadOnlyMode) String() string {
	switch m {
	case ReadOnlyOn:
		return "true"
	case ReadOnlyNoCursor:
		return engine.ReadOnlyNoCursor
	default:
		return "false"
	}
}

func (m ReadOnlyMode) value() any {
	switch m {
	case ReadOnlyOn:
		return true
	case ReadOnlyNoCursor:
		return engine.ReadOnlyNoCursor
	default:
		return false
	}
}

// Text directions.
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Input styles.
const (
	InputTextarea        = "textarea"
	InputContentEditable = "contenteditable"
)

// Value returns the document text.
func (o *EditorOptions) Value() string { return o.stringValue("value") }

// SetValue sets the document text.
func (o *EditorOptions) SetValue(v string) { o.set("value", v) }

// Language returns the mode spec. A live editor reports the spec of its
// current document; a cached spec is returned only while its name still
// matches the mode the store reports.
func (o *EditorOptions) Language() engine.ModeSpec {
	name := engine.ModeName(o.value("mode"))
	if e, ok := o.store.Entity("mode"); ok {
		if spec, ok := languageOf(e); ok && spec.Name == name {
			return spec
		}
	}
	return engine.ModeSpec{Name: name}
}

func languageOf(v any) (engine.ModeSpec, bool) {
	switch m := v.(type) {
	case engine.ModeSpec:
		return m, true
	case map[string]any:
		return modeSpecFromMap(m), true
	case string:
		return engine.ModeSpec{Name: m}, true
	}
	return engine.ModeSpec{}, false
}

// SetLanguage sets the mode.
func (o *EditorOptions) SetLanguage(spec engine.ModeSpec) {
	if len(spec.Options) == 0 {
		o.set("mode", spec.Name)
		return
	}
	o.set("mode", spec)
}

// KeyMap returns the name of the key map.
func (o *EditorOptions) KeyMap() string { return o.stringValue("keyMap") }

// SetKeyMap sets the key map by name.
func (o *EditorOptions) SetKeyMap(name string) { o.set("keyMap", name) }

// ExtraKeys returns the extra key bindings, or nil.
func (o *EditorOptions) ExtraKeys() any {
	v, _ := o.Get("extraKeys")
	return v
}

// SetExtraKeys sets the extra key bindings: an *engine.KeyMap, a map of
// key descriptions to command names, or nil.
func (o *EditorOptions) SetExtraKeys(keys any) { o.set("extraKeys", keys) }

// TabSize returns the width of a tab character in columns.
func (o *EditorOptions) TabSize() int { return o.intValue("tabSize") }

// SetTabSize sets the width of a tab character in columns.
func (o *EditorOptions) SetTabSize(n int) { o.set("tabSize", n) }

// IndentUnit returns the number of columns one indent level spans.
func (o *EditorOptions) IndentUnit() int { return o.intValue("indentUnit") }

// SetIndentUnit sets the number of columns one indent level spans.
func (o *EditorOptions) SetIndentUnit(n int) { o.set("indentUnit", n) }

// IndentWithTabs reports whether indentation uses tabs where it can.
func (o *EditorOptions) IndentWithTabs() bool { return o.boolValue("indentWithTabs") }

// SetIndentWithTabs sets whether indentation uses tabs where it can.
func (o *EditorOptions) SetIndentWithTabs(v bool) { o.set("indentWithTabs", v) }

// SmartIndent reports whether new lines are indented from context.
func (o *EditorOptions) SmartIndent() bool { return o.boolValue("smartIndent") }

// SetSmartIndent sets whether new lines are indented from context.
func (o *EditorOptions) SetSmartIndent(v bool) { o.set("smartIndent", v) }

// ElectricChars reports whether typing certain characters re-indents the line.
func (o *EditorOptions) ElectricChars() bool { return o.boolValue("electricChars") }

// SetElectricChars sets whether typing certain characters re-indents the line.
func (o *EditorOptions) SetElectricChars(v bool) { o.set("electricChars", v) }

// LineWrapping reports whether long lines wrap.
func (o *EditorOptions) LineWrapping() bool { return o.boolValue("lineWrapping") }

// SetLineWrapping sets whether long lines wrap.
func (o *EditorOptions) SetLineWrapping(v bool) { o.set("lineWrapping", v) }

// LineNumbers reports whether the line number gutter is shown.
func (o *EditorOptions) LineNumbers() bool { return o.boolValue("lineNumbers") }

// SetLineNumbers sets whether the line number gutter is shown.
func (o *EditorOptions) SetLineNumbers(v bool) { o.set("lineNumbers", v) }

// FirstLineNumber returns the number shown for the first line.
func (o *EditorOptions) FirstLineNumber() int { return o.intValue("firstLineNumber") }

// SetFirstLineNumber sets the number shown for the first line.
func (o *EditorOptions) SetFirstLineNumber(n int) { o.set("firstLineNumber", n) }

// ReadOnly returns the read-only mode.
func (o *EditorOptions) ReadOnly() ReadOnlyMode {
	switch o.value("readOnly") {
	case true:
		return ReadOnlyOn
	case engine.ReadOnlyNoCursor:
		return ReadOnlyNoCursor
	}
	return ReadOnlyOff
}

// SetReadOnly sets the read-only mode.
func (o *EditorOptions) SetReadOnly(m ReadOnlyMode) { o.set("readOnly", m.value()) }

// UndoDepth returns the maximum number of undo events kept.
func (o *EditorOptions) UndoDepth() int { return o.intValue("undoDepth") }

// SetUndoDepth sets the maximum number of undo events kept.
func (o *EditorOptions) SetUndoDepth(n int) { o.set("undoDepth", n) }

// HistoryEventDelay returns the window in which typed changes merge into
// one undo event.
func (o *EditorOptions) HistoryEventDelay() time.Duration {
	return time.Duration(o.intValue("historyEventDelay")) * time.Millisecond
}

// SetHistoryEventDelay sets the history merge window, rounded down to
// milliseconds.
func (o *EditorOptions) SetHistoryEventDelay(d time.Duration) {
	o.set("historyEventDelay", int(d/time.Millisecond))
}

// Theme returns the theme name.
func (o *EditorOptions) Theme() string { return o.stringValue("theme") }

// SetTheme sets the theme name.
func (o *EditorOptions) SetTheme(s string) { o.set("theme", s) }

// Placeholder returns the text shown while the document is empty.
func (o *EditorOptions) Placeholder() string { return o.stringValue("placeholder") }

// SetPlaceholder sets the text shown while the document is empty.
func (o *EditorOptions) SetPlaceholder(s string) { o.set("placeholder", s) }

// Direction returns the text direction, DirectionLTR or DirectionRTL.
func (o *EditorOptions) Direction() string { return o.stringValue("direction") }

// SetDirection sets the text direction, DirectionLTR or DirectionRTL.
func (o *EditorOptions) SetDirection(s string) { o.set("direction", s) }

// InputStyle returns the input method, InputTextarea or InputContentEditable.
func (o *EditorOptions) InputStyle() string { return o.stringValue("inputStyle") }

// SetInputStyle sets the input method, InputTextarea or InputContentEditable.
func (o *EditorOptions) SetInputStyle(s string) { o.set("inputStyle", s) }

// LineSeparator returns the line separator, or "" to split on any newline.
func (o *EditorOptions) LineSeparator() string { return o.stringValue("lineSeparator") }

// SetLineSeparator sets the line separator, or "" to split on any newline.
func (o *EditorOptions) SetLineSeparator(s string) { o.set("lineSeparator", s) }

// ScrollbarStyle returns the scrollbar style name.
func (o *EditorOptions) ScrollbarStyle() string { return o.stringValue("scrollbarStyle") }

// SetScrollbarStyle sets the scrollbar style name.
func (o *EditorOptions) SetScrollbarStyle(s string) { o.set("scrollbarStyle", s) }

// ScreenReaderLabel returns the label read out for the editor.
func (o *EditorOptions) ScreenReaderLabel() string { return o.stringValue("screenReaderLabel") }

// SetScreenReaderLabel sets the label read out for the editor.
func (o *EditorOptions) SetScreenReaderLabel(s string) {
	o.set("screenReaderLabel", s)
}

// CursorBlinkRate returns the blink interval; zero or less disables blinking.
func (o *EditorOptions) CursorBlinkRate() time.Duration {
	return time.Duration(o.intValue("cursorBlinkRate")) * time.Millisecond
}

// SetCursorBlinkRate sets the blink interval.
func (o *EditorOptions) SetCursorBlinkRate(d time.Duration) {
	o.set("cursorBlinkRate", int(d/time.Millisecond))
}

// CursorHeight returns the cursor height relative to the line height.
func (o *EditorOptions) CursorHeight() float64 { return o.floatValue("cursorHeight") }

// SetCursorHeight sets the cursor height relative to the line height.
func (o *EditorOptions) SetCursorHeight(f float64) { o.set("cursorHeight", f) }

// CursorScrollMargin returns the space kept around the cursor when scrolling.
func (o *EditorOptions) CursorScrollMargin() int { return o.intValue("cursorScrollMargin") }

// SetCursorScrollMargin sets the space kept around the cursor when scrolling.
func (o *EditorOptions) SetCursorScrollMargin(n int) { o.set("cursorScrollMargin", n) }

// ViewportMargin returns the number of lines rendered outside the viewport.
func (o *EditorOptions) ViewportMargin() int { return o.intValue("viewportMargin") }

// SetViewportMargin sets the number of lines rendered outside the viewport.
func (o *EditorOptions) SetViewportMargin(n int) { o.set("viewportMargin", n) }

// Gutters returns the gutter class names.
func (o *EditorOptions) Gutters() []string { return o.stringsValue("gutters") }

// SetGutters sets the gutter class names.
func (o *EditorOptions) SetGutters(g []string) { o.set("gutters", g) }

// FixedGutter reports whether the gutter stays put on horizontal scroll.
func (o *EditorOptions) FixedGutter() bool { return o.boolValue("fixedGutter") }

// SetFixedGutter sets whether the gutter stays put on horizontal scroll.
func (o *EditorOptions) SetFixedGutter(v bool) { o.set("fixedGutter", v) }

// Autofocus reports whether the editor takes focus when created.
func (o *EditorOptions) Autofocus() bool { return o.boolValue("autofocus") }

// SetAutofocus sets whether the editor takes focus when created.
func (o *EditorOptions) SetAutofocus(v bool) { o.set("autofocus", v) }

// Spellcheck reports whether spellchecking is requested.
func (o *EditorOptions) Spellcheck() bool { return o.boolValue("spellcheck") }

// SetSpellcheck sets whether spellchecking is requested.
func (o *EditorOptions) SetSpellcheck(v bool) { o.set("spellcheck", v) }

// Autocorrect reports whether autocorrection is requested.
func (o *EditorOptions) Autocorrect() bool { return o.boolValue("autocorrect") }

// SetAutocorrect sets whether autocorrection is requested.
func (o *EditorOptions) SetAutocorrect(v bool) { o.set("autocorrect", v) }

// Autocapitalize reports whether autocapitalization is requested.
func (o *EditorOptions) Autocapitalize() bool { return o.boolValue("autocapitalize") }

// SetAutocapitalize sets whether autocapitalization is requested.
func (o *EditorOptions) SetAutocapitalize(v bool) { o.set("autocapitalize", v) }

// DragDrop reports whether text can be dragged.
func (o *EditorOptions) DragDrop() bool { return o.boolValue("dragDrop") }

// SetDragDrop sets whether text can be dragged.
func (o *EditorOptions) SetDragDrop(v bool) { o.set("dragDrop", v) }

// RTLMoveVisually reports whether cursor motion in right-to-left text follows the screen.
func (o *EditorOptions) RTLMoveVisually() bool { return o.boolValue("rtlMoveVisually") }

// SetRTLMoveVisually sets whether cursor motion in right-to-left text follows the screen.
func (o *EditorOptions) SetRTLMoveVisually(v bool) { o.set("rtlMoveVisually", v) }

// ShowCursorWhenSelecting reports whether the cursor shows while a selection is active.
func (o *EditorOptions) ShowCursorWhenSelecting() bool { return o.boolValue("showCursorWhenSelecting") }

// SetShowCursorWhenSelecting sets whether the cursor shows while a selection is active.
func (o *EditorOptions) SetShowCursorWhenSelecting(v bool) {
	o.set("showCursorWhenSelecting", v)
}

// LineWiseCopyCut reports whether copy and cut without a selection take whole lines.
func (o *EditorOptions) LineWiseCopyCut() bool { return o.boolValue("lineWiseCopyCut") }

// SetLineWiseCopyCut sets whether copy and cut without a selection take whole lines.
func (o *EditorOptions) SetLineWiseCopyCut(v bool) { o.set("lineWiseCopyCut", v) }

// SelectionsMayTouch reports whether adjacent selections stay separate.
func (o *EditorOptions) SelectionsMayTouch() bool { return o.boolValue("selectionsMayTouch") }

// SetSelectionsMayTouch sets whether adjacent selections stay separate.
func (o *EditorOptions) SetSelectionsMayTouch(v bool) { o.set("selectionsMayTouch", v) }

// MaxHighlightLength returns the line length past which highlighting stops.
func (o *EditorOptions) MaxHighlightLength() int { return o.intValue("maxHighlightLength") }

// SetMaxHighlightLength sets the line length past which highlighting stops.
func (o *EditorOptions) SetMaxHighlightLength(n int) { o.set("maxHighlightLength", n) }

// TabIndex returns the tab index of the editor.
func (o *EditorOptions) TabIndex() int { return o.intValue("tabindex") }

// SetTabIndex sets the tab index of the editor.
func (o *EditorOptions) SetTabIndex(n int) { o.set("tabindex", n) }

// SpecialChars returns the pattern of characters drawn as placeholders.
func (o *EditorOptions) SpecialChars() string { return o.stringValue("specialChars") }

// SetSpecialChars sets the pattern of characters drawn as placeholders.
func (o *EditorOptions) SetSpecialChars(pattern string) { o.set("specialChars", pattern) }
