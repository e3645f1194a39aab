package telegram

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roby45alfa/OfficinaOnline/internal/domain"
)

// formField identifies one input of the add-maintenance form.
type formField int

const (
	fieldNone formField = iota
	fieldType
	fieldDate
	fieldNote
)

// parseFormField maps an ADD_MANU_FIELD callback tag to a field.
func parseFormField(tag string) (formField, bool) {
	switch tag {
	case "TYPE":
		return fieldType, true
	case "DATE":
		return fieldDate, true
	case "NOTE":
		return fieldNote, true
	default:
		return fieldNone, false
	}
}

func (f formField) prompt() string {
	switch f {
	case fieldType:
		return "Enter the maintenance type:"
	case fieldDate:
		return "Enter the date (YYYY-MM-DD):"
	case fieldNote:
		return "Enter a note (optional):"
	}
	return ""
}

// pendingForm is one chat's in-progress maintenance record. At most one
// exists per chat; starting a new form replaces it.
type pendingForm struct {
	vehicleID int64
	mtype     string
	date      string
	note      string
	awaiting  formField
}

// form returns the chat's pending form, or nil.
func (r *Router) form(chatID int64) *pendingForm {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forms[chatID]
}

// startForm discards any previous pending form for the chat and opens a
// fresh one for the chosen vehicle.
func (r *Router) startForm(ctx context.Context, chatID, vehicleID int64) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return
	}
	if !r.canAccessVehicle(ctx, sess, vehicleID) {
		r.sendText(chatID, accessDeniedText)
		return
	}
	r.mu.Lock()
	r.forms[chatID] = &pendingForm{vehicleID: vehicleID}
	r.mu.Unlock()
	r.renderForm(chatID)
}

// renderForm sends the live summary view for the chat's pending form.
func (r *Router) renderForm(chatID int64) {
	form := r.form(chatID)
	if form == nil {
		return
	}
	body := fmt.Sprintf("🆕 New maintenance for vehicle %d\n\n"+
		"✏️ Type: %s\n📅 Date: %s\n📝 Note: %s",
		form.vehicleID,
		orPlaceholder(form.mtype),
		orPlaceholder(form.date),
		orPlaceholder(form.note),
	)
	r.sendWithKeyboard(chatID, body, formKeyboard())
}

func orPlaceholder(s string) string {
	if s == "" {
		return "..."
	}
	return s
}

// askFormField marks the field as awaited and prompts for its value.
func (r *Router) askFormField(chatID int64, tag string) {
	if _, ok := r.requireSession(chatID); !ok {
		return
	}
	field, ok := parseFormField(tag)
	if !ok {
		return
	}
	r.mu.Lock()
	form := r.forms[chatID]
	if form == nil {
		r.mu.Unlock()
		r.sendText(chatID, noFormText)
		return
	}
	form.awaiting = field
	r.mu.Unlock()
	r.sendText(chatID, field.prompt())
}

// consumeFieldInput feeds free text into the awaited form field. It reports
// whether the text was consumed; menu-label interpretation only happens when
// it was not. An invalid date re-prompts without touching stored state.
func (r *Router) consumeFieldInput(chatID int64, text string) bool {
	r.mu.Lock()
	form := r.forms[chatID]
	if form == nil || form.awaiting == fieldNone {
		r.mu.Unlock()
		return false
	}
	field := form.awaiting
	if field == fieldDate {
		if _, err := domain.ParseDate(text); err != nil {
			r.mu.Unlock()
			r.sendText(chatID, badDateText)
			return true
		}
	}
	switch field {
	case fieldType:
		form.mtype = text
	case fieldDate:
		form.date = text
	case fieldNote:
		form.note = text
	}
	form.awaiting = fieldNone
	r.mu.Unlock()

	r.renderForm(chatID)
	return true
}

// saveForm validates the required fields and persists the record.
func (r *Router) saveForm(ctx context.Context, chatID int64) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return
	}
	form := r.form(chatID)
	if form == nil {
		r.sendText(chatID, noFormText)
		return
	}
	if form.mtype == "" || form.date == "" {
		r.sendText(chatID, saveIncompleteText)
		r.renderForm(chatID)
		return
	}
	if !r.canAccessVehicle(ctx, sess, form.vehicleID) {
		r.sendText(chatID, accessDeniedText)
		return
	}
	if err := r.repo.InsertMaintenance(ctx, form.vehicleID, form.mtype, form.date, form.note); err != nil {
		r.log.Error("insert maintenance failed", zap.Int64("vehicleID", form.vehicleID), zap.Error(err))
		r.sendText(chatID, "Could not save the record.")
		return
	}

	r.mu.Lock()
	delete(r.forms, chatID)
	r.mu.Unlock()

	r.sendText(chatID, savedText)
	r.handleStart(chatID)
}

// stopAwaiting leaves the field-input sub-state without discarding the form.
func (r *Router) stopAwaiting(chatID int64) {
	r.mu.Lock()
	if form := r.forms[chatID]; form != nil {
		form.awaiting = fieldNone
	}
	r.mu.Unlock()
}
