package api

import (
	"context"
	"fmt"

	"github.com/mkortel/panelauth/internal/domain/models"
)

type RolesClient struct {
	c *Client
	p *pager
}

func NewRolesClient(c *Client, pageCacheSize int) *RolesClient {
	return &RolesClient{c: c, p: newPager(pageCacheSize)}
}

func (r *RolesClient) List(ctx context.Context, q ListQuery) (PagedResult[models.Role], error) {
	return listPaged[models.Role](ctx, r.c, r.p, "/api/roles", q)
}

func (r *RolesClient) Get(ctx context.Context, id string) (*models.Role, error) {
	const op = "api.RolesClient.Get"

	role, err := getOne[models.Role](ctx, r.c, "/api/roles/"+id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return role, nil
}

func (r *RolesClient) Create(ctx context.Context, role models.Role) error {
	const op = "api.RolesClient.Create"

	if err := r.c.post(ctx, "/api/roles", role, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.p.purge()
	return nil
}

func (r *RolesClient) Update(ctx context.Context, id string, role models.Role) error {
	const op = "api.RolesClient.Update"

	if err := r.c.put(ctx, "/api/roles/"+id, role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.p.purge()
	return nil
}

func (r *RolesClient) Delete(ctx context.Context, id string) error {
	const op = "api.RolesClient.Delete"

	if err := r.c.delete(ctx, "/api/roles/"+id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.p.purge()
	return nil
}

// AllPermissions returns the full permission catalog the role form assigns
// from.
func (r *RolesClient) AllPermissions(ctx context.Context) ([]models.Permission, error) {
	const op = "api.RolesClient.AllPermissions"

	var perms []models.Permission
	if err := r.c.get(ctx, "/api/permissions", nil, &perms); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return perms, nil
}
