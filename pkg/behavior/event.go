package behavior

import (
	"time"
)

// Event type vocabulary. Custom events use their caller-supplied name as the
// type, so consumers should treat unknown strings as custom events.
const (
	EventFocus               = "focus"
	EventBlur                = "blur"
	EventChange              = "change"
	EventInput               = "input"
	EventDelete              = "delete"
	EventAutocomplete        = "autocomplete"
	EventClick               = "click"
	EventInvalid             = "invalid"
	EventReset               = "reset"
	EventSubmit              = "submit"
	EventMouseMove           = "mousemove"
	EventMouseOver           = "mouseover"
	EventMouseOut            = "mouseout"
	EventSelectChange        = "select-change"
	EventCheckboxRadioChange = "checkbox-radio-change"
	EventFormSubmit          = "form-submit"
	EventCopy                = "copy"
	EventPaste               = "paste"
	EventCut                 = "cut"
)

// ClipboardData carries the clipboard payload attached to copy/paste/cut
// events when the host platform exposes it.
type ClipboardData struct {
	Types []string `json:"types"`
	Data  string   `json:"data"`
}

// ElementState is an optional validity/checked/selection snapshot taken at
// capture time.
type ElementState struct {
	Valid          bool `json:"valid"`
	Checked        bool `json:"checked"`
	SelectionStart int  `json:"selectionStart,omitempty"`
	SelectionEnd   int  `json:"selectionEnd,omitempty"`
}

// Event is one normalized, classified interaction record. Events are
// immutable once appended to a session log.
type Event struct {
	Type              string            `json:"type"`
	ElementID         string            `json:"elementId"`
	ElementType       string            `json:"elementType"`
	Timestamp         int64             `json:"timestamp"` // ms since epoch
	Value             *Value            `json:"value,omitempty"`
	PageURL           string            `json:"pageUrl"`
	ElementAttributes map[string]string `json:"elementAttributes,omitempty"`
	ElementState      *ElementState     `json:"elementState,omitempty"`
	ClipboardData     *ClipboardData    `json:"clipboardData,omitempty"`
	CustomEventName   string            `json:"customEventName,omitempty"`
	CustomData        map[string]any    `json:"customData,omitempty"`
}

// IsCustom reports whether the event was produced by TrackCustomEvent rather
// than by host interaction capture.
func (e *Event) IsCustom() bool {
	return e.CustomEventName != ""
}

// IsClipboard reports whether the event is a copy, paste or cut.
func (e *Event) IsClipboard() bool {
	switch e.Type {
	case EventCopy, EventPaste, EventCut:
		return true
	}
	return false
}

// ElementKind tags how an element's value is extracted. It is resolved once
// at classification time from element metadata instead of repeated type
// probing against the host.
type ElementKind uint8

const (
	ElementTextLike ElementKind = iota
	ElementCheckbox
	ElementRadio
	ElementSelect
	ElementCustom
)

// Element describes the originating UI element of a raw interaction, as
// resolved by the host adapter.
type Element struct {
	ID         string
	Handle     string // synthetic identity assigned by the adapter when ID is empty
	TagName    string // lowercase tag name
	Type       string // input type attribute, lowercase
	Role       string // ARIA role, lowercase
	Name       string
	Attributes map[string]string
	Value      *Value
	State      *ElementState
}

// Key returns the stable identity used for per-element interaction history.
func (el *Element) Key() string {
	if el.ID != "" {
		return el.ID
	}
	if el.Handle != "" {
		return el.Handle
	}
	return el.TagName + "#" + el.Name
}

// Kind resolves the capability tag for value extraction.
func (el *Element) Kind() ElementKind {
	switch el.TagName {
	case "select":
		return ElementSelect
	case "input":
		switch el.Type {
		case "checkbox":
			return ElementCheckbox
		case "radio":
			return ElementRadio
		}
		return ElementTextLike
	case "textarea":
		return ElementTextLike
	}
	return ElementCustom
}

// RawEvent is an unclassified interaction notification delivered by the host
// environment. Target is nil when the host could not resolve one.
type RawEvent struct {
	Type      string // native event name: focus, input, click, copy, ...
	Target    *Element
	Timestamp time.Time
	PagePath  string
	Clipboard *ClipboardData
}

// DeviceInfo is the static descriptive snapshot supplied by the host's
// metadata provider. It is merged verbatim into insights and has no bearing
// on scoring.
type DeviceInfo struct {
	UserAgent      string `json:"userAgent,omitempty"`
	Platform       string `json:"platform,omitempty"`
	Language       string `json:"language,omitempty"`
	ScreenWidth    int    `json:"screenWidth,omitempty"`
	ScreenHeight   int    `json:"screenHeight,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	TouchSupport   bool   `json:"touchSupport,omitempty"`
	CookiesEnabled bool   `json:"cookiesEnabled,omitempty"`
}
