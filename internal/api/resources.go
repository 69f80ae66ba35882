package api

import (
	"context"
	"fmt"

	"github.com/mkortel/panelauth/internal/domain/models"
)

// crudClient is the shared implementation behind the flat CRUD resources
// (CMS pages, email templates). Mutations purge the page cache.
type crudClient[T any] struct {
	c    *Client
	base string
	p    *pager
}

func (r *crudClient[T]) List(ctx context.Context, q ListQuery) (PagedResult[T], error) {
	return listPaged[T](ctx, r.c, r.p, r.base, q)
}

func (r *crudClient[T]) Get(ctx context.Context, id string) (*T, error) {
	const op = "api.crudClient.Get"

	item, err := getOne[T](ctx, r.c, r.base+"/"+id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func (r *crudClient[T]) Create(ctx context.Context, item T) error {
	const op = "api.crudClient.Create"

	if err := r.c.post(ctx, r.base, item, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.p.purge()
	return nil
}

func (r *crudClient[T]) Update(ctx context.Context, id string, item T) error {
	const op = "api.crudClient.Update"

	if err := r.c.put(ctx, r.base+"/"+id, item); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.p.purge()
	return nil
}

func (r *crudClient[T]) Delete(ctx context.Context, id string) error {
	const op = "api.crudClient.Delete"

	if err := r.c.delete(ctx, r.base+"/"+id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.p.purge()
	return nil
}

type CMSClient struct {
	crudClient[models.CMSPage]
}

func NewCMSClient(c *Client, pageCacheSize int) *CMSClient {
	return &CMSClient{crudClient[models.CMSPage]{c: c, base: "/api/cms", p: newPager(pageCacheSize)}}
}

type EmailTemplatesClient struct {
	crudClient[models.EmailTemplate]
}

func NewEmailTemplatesClient(c *Client, pageCacheSize int) *EmailTemplatesClient {
	return &EmailTemplatesClient{crudClient[models.EmailTemplate]{c: c, base: "/api/email-templates", p: newPager(pageCacheSize)}}
}

// AuditLogsClient is read-only: the log is append-only on the server side.
type AuditLogsClient struct {
	c *Client
	p *pager
}

func NewAuditLogsClient(c *Client, pageCacheSize int) *AuditLogsClient {
	return &AuditLogsClient{c: c, p: newPager(pageCacheSize)}
}

func (a *AuditLogsClient) List(ctx context.Context, q ListQuery) (PagedResult[models.AuditLogEntry], error) {
	return listPaged[models.AuditLogEntry](ctx, a.c, a.p, "/api/audit-logs", q)
}
