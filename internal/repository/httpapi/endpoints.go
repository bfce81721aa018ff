package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
)

var _ repository.Backend = (*Client)(nil)

// ListUsers fetches every user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	return repository.DecodeList[domain.User](body)
}

// CreateUser posts a new user.
func (c *Client) CreateUser(ctx context.Context, in domain.UserInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	body, err := c.do(ctx, http.MethodPost, "/users", in)
	if err != nil {
		return domain.User{}, err
	}
	return repository.DecodeObject[domain.User](body)
}

// UpdateUser replaces the editable fields of a user.
func (c *Client) UpdateUser(ctx context.Context, id domain.ID, in domain.UserInput) (domain.User, error) {
	path, err := userPath(id, "")
	if err != nil {
		return domain.User{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	return c.userCall(ctx, http.MethodPut, path, in)
}

// DeleteUser soft-deletes a user.
func (c *Client) DeleteUser(ctx context.Context, id domain.ID) (domain.User, error) {
	path, err := userPath(id, "")
	if err != nil {
		return domain.User{}, err
	}
	return c.userCall(ctx, http.MethodDelete, path, nil)
}

// RestoreUser reactivates a soft-deleted user.
func (c *Client) RestoreUser(ctx context.Context, id domain.ID) (domain.User, error) {
	path, err := userPath(id, "/restore")
	if err != nil {
		return domain.User{}, err
	}
	return c.userCall(ctx, http.MethodPost, path, nil)
}

func (c *Client) userCall(ctx context.Context, method, path string, payload any) (domain.User, error) {
	body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return domain.User{}, err
	}
	return repository.DecodeObject[domain.User](body)
}

// ListNotifications fetches one category for the signed-in user.
func (c *Client) ListNotifications(ctx context.Context, cat domain.Category) (repository.Page, error) {
	if !cat.IsValid() {
		return repository.Page{}, domain.ErrInvalidCategory
	}
	q := url.Values{"category": []string{string(cat)}}
	body, err := c.do(ctx, http.MethodGet, "/notifications?"+q.Encode(), nil)
	if err != nil {
		return repository.Page{}, err
	}
	return repository.DecodePage(body)
}

// MarkNotificationRead sets or clears the read flag.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64, read bool) error {
	_, err := c.do(ctx, http.MethodPut, notificationPath(id, "/read"), readBody{Read: read})
	return err
}

type readBody struct {
	Read bool `json:"read"`
}

// ToggleNotificationStar flips the starred flag.
func (c *Client) ToggleNotificationStar(ctx context.Context, id int64) (domain.Notification, error) {
	body, err := c.do(ctx, http.MethodPost, notificationPath(id, "/star"), nil)
	if err != nil {
		return domain.Notification{}, err
	}
	return repository.DecodeObject[domain.Notification](body)
}

// TrashNotification moves a notification to the trash.
func (c *Client) TrashNotification(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, notificationPath(id, ""), nil)
	return err
}

// RestoreNotification takes a notification out of the trash.
func (c *Client) RestoreNotification(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPost, notificationPath(id, "/restore"), nil)
	return err
}

// PurgeNotification deletes a trashed notification for good.
func (c *Client) PurgeNotification(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, notificationPath(id, "/permanent"), nil)
	return err
}

// SendNotification posts a draft.
func (c *Client) SendNotification(ctx context.Context, draft domain.Draft) (domain.Notification, error) {
	if err := draft.Validate(); err != nil {
		return domain.Notification{}, err
	}
	body, err := c.do(ctx, http.MethodPost, "/notifications", draft)
	if err != nil {
		return domain.Notification{}, err
	}
	return repository.DecodeObject[domain.Notification](body)
}

// ListRosters fetches the roster periods.
func (c *Client) ListRosters(ctx context.Context) ([]domain.RosterPeriod, error) {
	body, err := c.do(ctx, http.MethodGet, "/rosters", nil)
	if err != nil {
		return nil, err
	}
	return repository.DecodeList[domain.RosterPeriod](body)
}

// ListRecentActivities fetches the newest activity entries.
func (c *Client) ListRecentActivities(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	path := "/activities/recent"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return repository.DecodeList[domain.ActivityLog](body)
}

// ActivityStatistics fetches the activity aggregates.
func (c *Client) ActivityStatistics(ctx context.Context) (domain.ActivityStatistics, error) {
	body, err := c.do(ctx, http.MethodGet, "/activities/statistics", nil)
	if err != nil {
		return domain.ActivityStatistics{}, err
	}
	return repository.DecodeObject[domain.ActivityStatistics](body)
}
