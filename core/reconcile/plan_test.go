package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"route-publisher/core/pages"
	pagemocks "route-publisher/core/pages/mocks"
	"route-publisher/core/routestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// seedDivergence publishes three pages and leaves the cache in a mixed state:
// alpha matches, beta is stale on its custom domain only, gamma was never cached.
func seedDivergence(t *testing.T) (pages.Repository, *routestore.Memory) {
	repo := setupRepository(t)
	store := routestore.NewMemory()
	ctx := context.Background()

	alpha := seedPage(t, repo, "alpha", nil, "a1")
	beta := seedPage(t, repo, "beta", []string{"beta.io"}, "b1", "b2")
	seedPage(t, repo, "gamma", nil, "g1")
	seedPage(t, repo, "draft", nil)

	require.NoError(t, store.SetMany(ctx, map[string]routestore.RouteConfig{
		routestore.RootKey("alpha." + testBaseDomain): {PageID: alpha.ID, Version: "a1", BlobURL: "https://cdn/a1"},
		routestore.RootKey("beta." + testBaseDomain):  {PageID: beta.ID, Version: "b2", BlobURL: "https://cdn/b2"},
		routestore.RootKey("beta.io"):                 {PageID: beta.ID, Version: "b1", BlobURL: "https://cdn/b1"},
	}, time.Hour))

	return repo, store
}

func TestReconcileAll_Plan(t *testing.T) {
	repo, store := seedDivergence(t)
	insp := newInspector(t, repo, store, WithConcurrency(2))

	plan, err := insp.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Summary.Pages)
	assert.Equal(t, 4, plan.Summary.Routes)
	assert.Equal(t, 2, plan.Summary.Matched)
	assert.Equal(t, 2, plan.Summary.Diagnoses[DiagnosisMatch])
	assert.Equal(t, 1, plan.Summary.Diagnoses[DiagnosisStaleVersion])
	assert.Equal(t, 1, plan.Summary.Diagnoses[DiagnosisKVMissing])
	assert.Equal(t, 2, plan.Summary.RepairActions)

	require.Len(t, plan.Results, 4)
	assert.Equal(t, "alpha", plan.Results[0].Slug)
	assert.Equal(t, routestore.RootKey("beta."+testBaseDomain), plan.Results[1].RouteKey)
	assert.Equal(t, routestore.RootKey("beta.io"), plan.Results[2].RouteKey)
	assert.Equal(t, "gamma", plan.Results[3].Slug)

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, "beta", plan.Actions[0].Slug)
	assert.Equal(t, map[string]DiagnosisCode{routestore.RootKey("beta.io"): DiagnosisStaleVersion}, plan.Actions[0].Reasons)
	assert.Equal(t, "gamma", plan.Actions[1].Slug)
}

func TestReconcileAll_Deterministic(t *testing.T) {
	repo, store := seedDivergence(t)
	insp := newInspector(t, repo, store, WithConcurrency(4))

	first, err := insp.ReconcileAll(context.Background())
	require.NoError(t, err)
	second, err := insp.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApplyPlan_RequiresConfirmation(t *testing.T) {
	repo, store := seedDivergence(t)
	insp := newInspector(t, repo, store)
	ctx := context.Background()

	plan, err := insp.ReconcileAll(ctx)
	require.NoError(t, err)

	for _, opts := range []Options{{}, {DryRun: true}, {DryRun: true, Confirmed: true}} {
		applied, err := insp.ApplyPlan(ctx, plan, opts)
		require.NoError(t, err)
		assert.Equal(t, 0, applied.Executed)
	}
	assert.Nil(t, store.Get(ctx, routestore.RootKey("gamma."+testBaseDomain)))
}

func TestReconcileAndApply_Converges(t *testing.T) {
	repo, store := seedDivergence(t)
	insp := newInspector(t, repo, store)
	ctx := context.Background()

	_, applied, err := insp.ReconcileAndApply(ctx, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 2, applied.Executed)
	assert.Empty(t, applied.Failed)

	plan, err := insp.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, plan.Summary.Matched)
	assert.Empty(t, plan.Actions)
}

func TestApplyPlan_ContinuesAfterFailure(t *testing.T) {
	repo := new(pagemocks.Repository)
	store := routestore.NewMemory()
	page := publishedPage("P2", "v1", "https://cdn/v1")
	page.Slug = "ok"

	repo.On("FindBySlug", mock.Anything, "broken").Return(nil, errors.New("deadlock"))
	repo.On("FindBySlug", mock.Anything, "ok").Return(page, nil)
	repo.On("CustomDomains", mock.Anything, "P2").Return([]string{}, nil)

	insp := newInspector(t, repo, store)
	plan := &Plan{Actions: []Action{{Slug: "broken"}, {Slug: "ok"}}}

	applied, err := insp.ApplyPlan(context.Background(), plan, Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 1, applied.Executed)
	assert.Contains(t, applied.Failed, "broken")
	assert.NotNil(t, store.Get(context.Background(), routestore.RootKey("ok."+testBaseDomain)))
}

func TestReconcileAll_RepositoryError(t *testing.T) {
	repo := new(pagemocks.Repository)
	repo.On("ListPublished", mock.Anything).Return(nil, errors.New("timeout"))

	insp := newInspector(t, repo, routestore.NewMemory())
	_, err := insp.ReconcileAll(context.Background())
	assert.Error(t, err)
}
