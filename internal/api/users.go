package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mkortel/panelauth/internal/domain/models"
)

// UsersClient covers the user-management endpoints. Mutations purge the
// page cache so list views never show pre-update rows.
type UsersClient struct {
	c *Client
	p *pager
}

func NewUsersClient(c *Client, pageCacheSize int) *UsersClient {
	return &UsersClient{c: c, p: newPager(pageCacheSize)}
}

func (u *UsersClient) List(ctx context.Context, q ListQuery) (PagedResult[models.UserListItem], error) {
	return listPaged[models.UserListItem](ctx, u.c, u.p, "/api/users", q)
}

func (u *UsersClient) Get(ctx context.Context, id string) (*models.UserDetails, error) {
	const op = "api.UsersClient.Get"

	details, err := getOne[models.UserDetails](ctx, u.c, "/api/users/"+id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	details.ProfileImagePath = u.c.AbsoluteURL(details.ProfileImagePath)
	return details, nil
}

func (u *UsersClient) Create(ctx context.Context, dto models.CreateUser) error {
	const op = "api.UsersClient.Create"

	if err := u.c.post(ctx, "/api/users", dto, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	u.p.purge()
	return nil
}

func (u *UsersClient) Update(ctx context.Context, id string, dto models.UpdateUser) error {
	const op = "api.UsersClient.Update"

	if err := u.c.put(ctx, "/api/users/"+id, dto); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	u.p.purge()
	return nil
}

func (u *UsersClient) Delete(ctx context.Context, id string) error {
	const op = "api.UsersClient.Delete"

	if err := u.c.delete(ctx, "/api/users/"+id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	u.p.purge()
	return nil
}

// ToggleStatus flips the active flag of a user.
func (u *UsersClient) ToggleStatus(ctx context.Context, id string) error {
	const op = "api.UsersClient.ToggleStatus"

	if err := u.c.patch(ctx, "/api/users/"+id+"/toggle"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	u.p.purge()
	return nil
}

// SimpleRoles returns the short role list the user forms offer.
func (u *UsersClient) SimpleRoles(ctx context.Context) ([]models.RoleOption, error) {
	const op = "api.UsersClient.SimpleRoles"

	var roles []models.RoleOption
	if err := u.c.get(ctx, "/api/roles/simple", nil, &roles); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roles, nil
}

func (u *UsersClient) Count(ctx context.Context) (int, error) {
	const op = "api.UsersClient.Count"

	var raw string
	if err := u.c.get(ctx, "/api/users/count", nil, &raw); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
