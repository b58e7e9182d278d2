package engine

import "github.com/dshills/mirror/internal/event"

// Doc events.
const (
	// EventChange fires after each change. Doc: (*Doc, *Change).
	// Editor: (*Editor, *Change).
	EventChange event.Type = "change"

	// EventBeforeChange fires before a change is applied and may cancel or
	// rewrite it. Doc: (*Doc, *BeforeChange). Editor: (*Editor, *BeforeChange).
	EventBeforeChange event.Type = "beforeChange"

	// EventCursorActivity fires at the end of an operation that moved the
	// selection or changed the text. Doc: (*Doc). Editor: (*Editor).
	EventCursorActivity event.Type = "cursorActivity"

	// EventBeforeSelectionChange fires before the selection is replaced and
	// may rewrite the new ranges. Doc: (*Doc, *SelectionUpdate).
	// Editor: (*Editor, *SelectionUpdate).
	EventBeforeSelectionChange event.Type = "beforeSelectionChange"
)

// Editor events.
const (
	// EventChanges fires once per operation with every change made in it.
	// (*Editor, []*Change).
	EventChanges event.Type = "changes"

	// EventFocus fires when the editor gains focus. (*Editor).
	EventFocus event.Type = "focus"

	// EventBlur fires when the editor loses focus. (*Editor).
	EventBlur event.Type = "blur"

	// EventKeyHandled fires after a key sequence ran a binding.
	// (*Editor, keys string).
	EventKeyHandled event.Type = "keyHandled"

	// EventInputRead fires after typed text was inserted. (*Editor, *Change).
	EventInputRead event.Type = "inputRead"

	// EventOptionChange fires after an option was set. (*Editor, name string).
	EventOptionChange event.Type = "optionChange"

	// EventSwapDoc fires after the editor switched documents.
	// (*Editor, old *Doc).
	EventSwapDoc event.Type = "swapDoc"
)

// Line, mark and widget events.
const (
	// EventDelete fires when a line is removed from its document. ().
	EventDelete event.Type = "delete"

	// EventLineChange fires when a line's text changes. (*Line, *Change).
	EventLineChange event.Type = "change"

	// EventClear fires when a mark is cleared through Clear.
	// (from, to pos.Position).
	EventClear event.Type = "clear"

	// EventHide fires when edits removed the last of a mark's range. ().
	EventHide event.Type = "hide"

	// EventUnhide fires when undo brought a hidden mark back. ().
	EventUnhide event.Type = "unhide"

	// EventRedraw fires when a widget was told its content changed. ().
	EventRedraw event.Type = "redraw"
)
