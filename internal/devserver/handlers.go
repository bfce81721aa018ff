package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
)

type handler struct {
	backend repository.Backend
	logger  logging.Logger
}

// fail writes the error response for err. Internal errors are logged and
// their text is not exposed.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("backend error", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	writeError(w, status, code, message)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err)
	}
	return nil
}

func pathInt(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.backend.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeList(w, users, len(users))
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in domain.UserInput
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.backend.CreateUser(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in domain.UserInput
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.backend.UpdateUser(r.Context(), domain.IntID(id), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.backend.DeleteUser(r.Context(), domain.IntID(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *handler) restoreUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.backend.RestoreUser(r.Context(), domain.IntID(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		raw = string(domain.CategoryInbox)
	}
	cat, err := domain.ParseCategory(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.backend.ListNotifications(r.Context(), cat)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeList(w, page.Items, page.Total)
}

func (h *handler) sendNotification(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if err := decodeBody(r, &draft); err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := h.backend.SendNotification(r.Context(), draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, n)
}

func (h *handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body struct {
		Read *bool `json:"read"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	if body.Read == nil {
		h.fail(w, r, fmt.Errorf("%w: read is required", domain.ErrValidation))
		return
	}
	if err := h.backend.MarkNotificationRead(r.Context(), id, *body.Read); err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (h *handler) toggleStar(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := h.backend.ToggleNotificationStar(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

func (h *handler) trash(w http.ResponseWriter, r *http.Request) {
	h.notificationAction(w, r, h.backend.TrashNotification)
}

func (h *handler) restoreNotification(w http.ResponseWriter, r *http.Request) {
	h.notificationAction(w, r, h.backend.RestoreNotification)
}

func (h *handler) purge(w http.ResponseWriter, r *http.Request) {
	h.notificationAction(w, r, h.backend.PurgeNotification)
}

func (h *handler) notificationAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id int64) error) {
	id, err := pathInt(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := action(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// listRosters answers with a bare array.
func (h *handler) listRosters(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.backend.ListRosters(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rosters == nil {
		rosters = []domain.RosterPeriod{}
	}
	writeRaw(w, http.StatusOK, rosters)
}

func (h *handler) recentActivities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.fail(w, r, fmt.Errorf("%w: invalid limit %q", domain.ErrValidation, raw))
			return
		}
		limit = n
	}
	logs, err := h.backend.ListRecentActivities(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeList(w, logs, len(logs))
}

func (h *handler) activityStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.ActivityStatistics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
