package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkortel/panelauth/internal/domain/models"
)

func pageBody(names ...string) PagedResult[models.CMSPage] {
	items := make([]models.CMSPage, 0, len(names))
	for _, n := range names {
		items = append(items, models.CMSPage{ID: n, Title: n})
	}
	return PagedResult[models.CMSPage]{Items: items, TotalCount: len(items), PageNumber: 1, PageSize: 10}
}

func TestListPaged_CachesPages(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(pageBody("about"))
	}), staticTokens{})

	cms := NewCMSClient(client, 8)
	ctx := context.Background()

	first, err := cms.List(ctx, ListQuery{})
	require.NoError(t, err)
	second, err := cms.List(ctx, ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load(), "identical query must be served from cache")

	_, err = cms.List(ctx, ListQuery{PageNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestListPaged_MutationPurgesCache(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(pageBody("about"))
	}), staticTokens{})

	cms := NewCMSClient(client, 8)
	ctx := context.Background()

	_, err := cms.List(ctx, ListQuery{})
	require.NoError(t, err)

	require.NoError(t, cms.Delete(ctx, "about"))

	_, err = cms.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "mutations must invalidate cached pages")
}

func TestListPaged_NewerRequestSupersedesInFlight(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "slow" {
			close(firstArrived)
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		_ = json.NewEncoder(w).Encode(pageBody("fast"))
	}), staticTokens{})
	defer close(release)

	cms := NewCMSClient(client, 8)
	ctx := context.Background()

	errCh := make(chan error, 1)
	go func() {
		_, err := cms.List(ctx, ListQuery{Search: "slow"})
		errCh <- err
	}()

	<-firstArrived

	res, err := cms.List(ctx, ListQuery{Search: "fast"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded request never returned")
	}
}

func TestListQuery_Values(t *testing.T) {
	v := ListQuery{Search: "bob", SortBy: "email", SortDesc: true}.withDefaults().values()

	assert.Equal(t, "1", v.Get("pageNumber"))
	assert.Equal(t, "10", v.Get("pageSize"))
	assert.Equal(t, "bob", v.Get("search"))
	assert.Equal(t, "email", v.Get("sortBy"))
	assert.Equal(t, "true", v.Get("sortDesc"))
}

func TestGetOne_DecodesResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/api/cms/p1"))
		_ = json.NewEncoder(w).Encode(models.CMSPage{ID: "p1", Title: "About", Slug: "about"})
	}))
	t.Cleanup(srv.Close)

	client, err := New(testLogger(), srv.URL, 5*time.Second, staticTokens{})
	require.NoError(t, err)

	cms := NewCMSClient(client, 8)
	page, err := cms.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "About", page.Title)
}
