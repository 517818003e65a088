package classify

import (
	"time"

	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// Attributes copied onto events. Everything else on the element is dropped.
var snapshotAttributes = []string{
	"type", "name", "required", "disabled", "readonly", "placeholder",
	"maxlength", "minlength", "pattern", "autocomplete", "role", "aria-label",
}

var formTags = map[string]bool{
	"input":    true,
	"select":   true,
	"textarea": true,
	"button":   true,
	"fieldset": true,
	"form":     true,
	"label":    true,
	"optgroup": true,
	"option":   true,
}

var formRoles = map[string]bool{
	"textbox":    true,
	"checkbox":   true,
	"radio":      true,
	"combobox":   true,
	"listbox":    true,
	"button":     true,
	"slider":     true,
	"spinbutton": true,
}

var keyboardEvents = map[string]bool{
	"keydown":  true,
	"keyup":    true,
	"keypress": true,
}

type elementHistory struct {
	lastValue string
	lastTime  time.Time
}

// Classifier maps raw host interactions plus per-element interaction history
// into normalized behavior events. It owns the history map exclusively; the
// map is keyed by the element's stable identity (id or synthetic handle).
type Classifier struct {
	histories map[string]*elementHistory
}

func New() *Classifier {
	return &Classifier{histories: make(map[string]*elementHistory)}
}

// Reset drops all per-element history, e.g. when a session is cleared.
func (c *Classifier) Reset() {
	c.histories = make(map[string]*elementHistory)
}

// FormCapable reports whether the element participates in form interaction:
// a native form tag or one of the accepted ARIA roles.
func FormCapable(el *behavior.Element) bool {
	if el == nil {
		return false
	}
	if formTags[el.TagName] {
		return true
	}
	return formRoles[el.Role]
}

// Classify turns a raw interaction into exactly one behavior event, or
// reports false when the interaction is filtered out: keyboard-origin
// events, events without a resolvable target, and events on elements that
// are not form-capable.
func (c *Classifier) Classify(raw behavior.RawEvent) (behavior.Event, bool) {
	if keyboardEvents[raw.Type] {
		return behavior.Event{}, false
	}
	target := raw.Target
	if target == nil || !FormCapable(target) {
		return behavior.Event{}, false
	}

	ev := behavior.Event{
		Type:              raw.Type,
		ElementID:         target.ID,
		ElementType:       elementType(target),
		Timestamp:         raw.Timestamp.UnixMilli(),
		Value:             target.Value,
		PageURL:           raw.PagePath,
		ElementAttributes: snapshotAttrs(target),
		ElementState:      target.State,
	}

	switch raw.Type {
	case behavior.EventInput:
		ev.Type = c.classifyInput(target, raw.Timestamp)
	case behavior.EventChange:
		ev.Type = classifyChange(target)
		c.record(target, raw.Timestamp)
	case behavior.EventCopy, behavior.EventPaste, behavior.EventCut:
		ev.ClipboardData = raw.Clipboard
	case behavior.EventSubmit:
		if target.TagName == "form" {
			ev.Type = behavior.EventFormSubmit
		}
	case behavior.EventFocus, behavior.EventBlur, behavior.EventClick,
		behavior.EventMouseMove, behavior.EventMouseOver, behavior.EventMouseOut,
		behavior.EventInvalid, behavior.EventReset:
		// one-to-one, no extra inference
	default:
		return behavior.Event{}, false
	}

	return ev, true
}

// classifyInput decides between input, delete and autocomplete from the
// element's previous observed value. First observations are always input.
func (c *Classifier) classifyInput(el *behavior.Element, now time.Time) string {
	current := el.Value.String()
	key := el.Key()
	prev, seen := c.histories[key]
	c.histories[key] = &elementHistory{lastValue: current, lastTime: now}

	if !seen {
		return behavior.EventInput
	}
	if len(current) < len(prev.lastValue) {
		return behavior.EventDelete
	}
	if looksAutocompleted(el, prev.lastValue, current, now.Sub(prev.lastTime)) {
		return behavior.EventAutocomplete
	}
	return behavior.EventInput
}

func classifyChange(el *behavior.Element) string {
	switch el.Kind() {
	case behavior.ElementSelect:
		return behavior.EventSelectChange
	case behavior.ElementCheckbox, behavior.ElementRadio:
		return behavior.EventCheckboxRadioChange
	}
	return behavior.EventChange
}

// record keeps the history current for change events so a later input on the
// same element compares against the value the user actually saw.
func (c *Classifier) record(el *behavior.Element, now time.Time) {
	if el.Kind() != behavior.ElementTextLike {
		return
	}
	c.histories[el.Key()] = &elementHistory{lastValue: el.Value.String(), lastTime: now}
}

func elementType(el *behavior.Element) string {
	if el.Type != "" {
		return el.Type
	}
	return el.TagName
}

func snapshotAttrs(el *behavior.Element) map[string]string {
	if len(el.Attributes) == 0 {
		return nil
	}
	out := make(map[string]string)
	for _, name := range snapshotAttributes {
		if v, ok := el.Attributes[name]; ok {
			out[name] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
