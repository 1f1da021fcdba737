package services_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/internal/testdb"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/feed"
	"github.com/sudeviagro/backoffice/pkg/schedule"
	"github.com/sudeviagro/backoffice/pkg/storage"
)

func merchantFixture(t *testing.T, sched *schedule.Scheduler) (*services.MerchantService, string) {
	t.Helper()
	testdb.Setup(t)
	ctx := context.Background()
	products := services.NewProductService(event.NewDispatcher())

	active, err := products.Create(ctx, mangoPickle())
	require.NoError(t, err)
	hidden := mangoPickle()
	hidden.Name = "Discontinued Lime Pickle"
	hidden.IsActive = ptr(false)
	_, err = products.Create(ctx, hidden)
	require.NoError(t, err)

	svc := services.NewMerchantService(products, sched)
	svc.UseDisk(storage.NewLocal(t.TempDir(), "http://cdn.test/storage"))
	return svc, active.ID
}

func TestMerchantDefaultsWithoutRow(t *testing.T) {
	svc, _ := merchantFixture(t, nil)

	m, err := svc.Settings(context.Background())
	require.NoError(t, err)
	assert.Zero(t, m.ID)
	assert.Equal(t, "INR", m.Currency)
	assert.Equal(t, "daily", m.SyncFrequency)
}

func TestMerchantSaveSealsToken(t *testing.T) {
	svc, _ := merchantFixture(t, nil)
	ctx := context.Background()

	view, err := svc.Save(ctx, services.MerchantInput{
		MerchantID: "5550001",
		Currency:   "inr",
		APIToken:   ptr("ya29.secret-token-9876"),
	})
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
	assert.Equal(t, "INR", view.Currency)
	assert.True(t, view.HasAPIToken)
	assert.Equal(t, "****9876", view.APITokenHint)

	stored, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.NotContains(t, stored.APITokenEnc, "secret-token")

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), stored.APITokenEnc)

	// A nil token keeps the stored one.
	view, err = svc.Save(ctx, services.MerchantInput{MerchantID: "5550001", Brand: "Sudevi"})
	require.NoError(t, err)
	assert.True(t, view.HasAPIToken)
	assert.Equal(t, stored.ID, view.ID)

	view, err = svc.Save(ctx, services.MerchantInput{MerchantID: "5550001", APIToken: ptr("")})
	require.NoError(t, err)
	assert.False(t, view.HasAPIToken)
}

func TestMerchantFeedXMLListsActiveProducts(t *testing.T) {
	svc, id := merchantFixture(t, nil)

	data, err := svc.FeedXML(context.Background())
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, `xmlns:g="http://base.google.com/ns/1.0"`)
	assert.Contains(t, doc, "<g:id>"+id+"</g:id>")
	assert.Contains(t, doc, "149.00 INR")
	assert.NotContains(t, doc, "Discontinued")
}

func TestMerchantPublish(t *testing.T) {
	svc, id := merchantFixture(t, nil)
	ctx := context.Background()

	url, err := svc.Publish(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/storage/"+services.FeedPath, url)

	m, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, url, m.FeedURL)

	served, err := svc.PublishedFeed(ctx)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(served), id))
}

func TestMerchantPublishedFeedFallsBackToRender(t *testing.T) {
	svc, id := merchantFixture(t, nil)

	served, err := svc.PublishedFeed(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(served), id)
}

func TestMerchantSyncSimulated(t *testing.T) {
	svc, id := merchantFixture(t, nil)
	ctx := context.Background()

	_, err := svc.Sync(ctx)
	assert.ErrorIs(t, err, feed.ErrNoMerchantID)

	_, err = svc.Save(ctx, services.MerchantInput{MerchantID: "5550001"})
	require.NoError(t, err)

	sum, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Success)
	assert.Equal(t, 1, sum.SyncedCount)
	require.Len(t, sum.Results, 1)
	assert.Equal(t, feed.StatusSimulatedSuccess, sum.Results[0].Status)
	assert.Equal(t, "gmc_"+id, sum.Results[0].GMCID)

	m, err := svc.Settings(ctx)
	require.NoError(t, err)
	require.NotNil(t, m.LastSync)
	assert.WithinDuration(t, time.Now(), *m.LastSync, time.Minute)
}

func TestMerchantPushCallerProducts(t *testing.T) {
	svc, _ := merchantFixture(t, nil)

	sum, err := svc.Push(context.Background(), feed.Settings{MerchantID: "42"}, []feed.Product{
		{ID: "p-1", Name: "Soya Chunks", Price: ptr(65.0)},
		{ID: "p-2", Name: "Vermicelli"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.SyncedCount)
	assert.Equal(t, 0, sum.ErrorCount)
}

func TestMerchantAutoSyncSchedule(t *testing.T) {
	sched := schedule.New(time.UTC)
	svc, _ := merchantFixture(t, sched)
	ctx := context.Background()

	_, err := svc.Save(ctx, services.MerchantInput{MerchantID: "5550001", AutoSync: ptr(true), SyncFrequency: "hourly"})
	require.NoError(t, err)
	entries := sched.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, services.AutoSyncTask, entries[0].Name)
	assert.Equal(t, "@hourly", entries[0].Spec)

	_, err = svc.Save(ctx, services.MerchantInput{MerchantID: "5550001", SyncFrequency: "weekly"})
	require.NoError(t, err)
	require.Len(t, sched.Entries(), 1)
	assert.Equal(t, "@weekly", sched.Entries()[0].Spec)

	_, err = svc.Save(ctx, services.MerchantInput{MerchantID: "5550001", AutoSync: ptr(false)})
	require.NoError(t, err)
	assert.Empty(t, sched.Entries())
}
