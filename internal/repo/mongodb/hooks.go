package mongodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/mujq1695/dev-events/internal/domain/event"
	"github.com/mujq1695/dev-events/internal/domain/validation"
)

// eventHook is one step of the pre-save pipeline. prev is nil on create and
// the stored document on update. Hooks mutate the draft in place; the first
// error aborts the save and nothing is written.
type eventHook func(ctx context.Context, draft *event.Event, prev *event.Event) error

// saveHooks returns the pipeline in its fixed order: slug first, then the
// date and time canonical forms, then the required-field re-check over the
// normalized result.
func (r *EventsRepo) saveHooks() []eventHook {
	return []eventHook{
		r.deriveSlug,
		normalizeDate,
		normalizeTime,
		checkRequired,
	}
}

func (r *EventsRepo) runSaveHooks(ctx context.Context, draft, prev *event.Event) error {
	for _, hook := range r.saveHooks() {
		if err := hook(ctx, draft, prev); err != nil {
			return err
		}
	}
	return nil
}

// deriveSlug assigns the unique slug. On update the slug is only re-derived
// when the title changed; otherwise the stored one is kept, so edits to other
// fields never move a published URL.
func (r *EventsRepo) deriveSlug(ctx context.Context, draft *event.Event, prev *event.Event) error {
	if prev != nil && prev.Title == draft.Title {
		draft.Slug = prev.Slug
		return nil
	}

	base := event.Slugify(draft.Title)
	if base == "" {
		// leave it empty; checkRequired reports it with the right field name
		draft.Slug = ""
		return nil
	}

	slug, err := uniqueSlug(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return r.slugTaken(ctx, candidate, draft.ID)
	})
	if err != nil {
		return err
	}

	draft.Slug = slug
	return nil
}

func normalizeDate(ctx context.Context, draft *event.Event, prev *event.Event) error {
	d, err := event.NormalizeDate(draft.Date)
	if err != nil {
		return err
	}

	draft.Date = d
	return nil
}

func normalizeTime(ctx context.Context, draft *event.Event, prev *event.Event) error {
	t, err := event.NormalizeTime(draft.Time)
	if err != nil {
		return err
	}

	draft.Time = t
	return nil
}

// checkRequired re-validates the normalized document right before the write.
// The binding layer already checked the raw payload; this guards writes that
// bypass it and anything normalization emptied out.
func checkRequired(ctx context.Context, draft *event.Event, prev *event.Event) error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", draft.Title},
		{"slug", draft.Slug},
		{"description", draft.Description},
		{"overview", draft.Overview},
		{"image", draft.Image},
		{"venue", draft.Venue},
		{"location", draft.Location},
		{"date", draft.Date},
		{"time", draft.Time},
		{"mode", draft.Mode},
		{"audience", draft.Audience},
		{"organizer", draft.Organizer},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return validation.Error{Field: f.name, Reason: "must not be empty"}
		}
	}

	if len(draft.Agenda) == 0 {
		return validation.Error{Field: "agenda", Reason: "must have at least one item"}
	}
	for i, item := range draft.Agenda {
		if strings.TrimSpace(item) == "" {
			return validation.Error{Field: fmt.Sprintf("agenda[%d]", i), Reason: "must not be empty"}
		}
	}

	if len(draft.Tags) == 0 {
		return validation.Error{Field: "tags", Reason: "must have at least one item"}
	}
	for i, tag := range draft.Tags {
		if strings.TrimSpace(tag) == "" {
			return validation.Error{Field: fmt.Sprintf("tags[%d]", i), Reason: "must not be empty"}
		}
	}

	return nil
}
