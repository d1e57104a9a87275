package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestStore_LLMModelCatalogUpsertAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	price := 3.0
	tier := models.TierStandard
	row := &models.LLMModelCatalog{
		ID: "cat-1", Provider: models.ProviderAnthropic, ProviderModelID: "claude-sonnet",
		DisplayName: "Claude Sonnet", InputPricePer1M: &price, OutputPricePer1M: &price,
		Tier: &tier, Enabled: true, SortOrder: 1,
	}
	require.NoError(t, s.UpsertLLMModelCatalogRow(ctx, row))

	row.DisplayName = "Claude Sonnet (updated)"
	require.NoError(t, s.UpsertLLMModelCatalogRow(ctx, row))

	rows, err := s.ListLLMModelCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Claude Sonnet (updated)", rows[0].DisplayName)
}

func TestStore_LLMUserPreferenceUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetLLMUserPreference(ctx, "owner-1", models.FeatureBriefingNarrative)
	assert.ErrorIs(t, err, ErrNotFound)

	catalogID := "cat-1"
	require.NoError(t, s.SetLLMUserPreference(ctx, &models.LLMUserPreference{
		ID: "pref-1", OwnerID: "owner-1", Feature: models.FeatureBriefingNarrative, CatalogID: &catalogID,
	}))

	got, err := s.GetLLMUserPreference(ctx, "owner-1", models.FeatureBriefingNarrative)
	require.NoError(t, err)
	require.NotNil(t, got.CatalogID)
	assert.Equal(t, catalogID, *got.CatalogID)

	otherCatalog := "cat-2"
	require.NoError(t, s.SetLLMUserPreference(ctx, &models.LLMUserPreference{
		ID: "pref-1", OwnerID: "owner-1", Feature: models.FeatureBriefingNarrative, CatalogID: &otherCatalog,
	}))
	got, err = s.GetLLMUserPreference(ctx, "owner-1", models.FeatureBriefingNarrative)
	require.NoError(t, err)
	assert.Equal(t, otherCatalog, *got.CatalogID)
}

func TestStore_RecordAndPruneLLMUsageEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordLLMUsageEvent(ctx, &models.LLMUsageEvent{
		ID: "usage-1", OwnerID: "owner-1", Feature: string(models.FeatureGlobalDefault),
		Status: models.UsageStatusSkippedUnconfigured,
	}))

	n, err := s.PruneLLMUsageEvents(ctx, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "the event just recorded is newer than the cutoff")

	n, err = s.PruneLLMUsageEvents(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
