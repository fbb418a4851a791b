package seed

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sufragio/internal/candidates"
	"sufragio/internal/reference"
)

const ballotFile = `{
  "parties": [
    {
      "name": "Union Civica",
      "code": "UC",
      "logo_url": "https://example.com/uc.png",
      "candidates": [
        {
          "given_name": "ROSA",
          "paternal_surname": "TORRES",
          "maternal_surname": "VEGA",
          "office": "president",
          "background": [
            {
              "kind": "proposal",
              "title": "Plan nacional de agua",
              "description": "Agua potable para zonas rurales",
              "date": "2025-11-02"
            }
          ]
        },
        {
          "given_name": "LUCIA",
          "paternal_surname": "MENDOZA",
          "maternal_surname": "RIOS",
          "office": "representative",
          "region": "Lima"
        }
      ]
    }
  ]
}`

func newLoader(t *testing.T) (*Loader, *reference.MemoryRegionStore, *candidates.MemoryStore) {
	t.Helper()
	regions := reference.NewMemoryRegionStore()
	candidateStore := candidates.NewMemoryStore()
	return NewLoader(regions, candidateStore, slog.New(slog.DiscardHandler)), regions, candidateStore
}

func TestEnsureRegions(t *testing.T) {
	loader, regions, _ := newLoader(t)
	ctx := context.Background()

	require.NoError(t, loader.EnsureRegions(ctx))
	listed, err := regions.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(RegionNames))

	// Running again must not create duplicates.
	require.NoError(t, loader.EnsureRegions(ctx))
	listed, err = regions.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(RegionNames))
}

func TestLoad(t *testing.T) {
	loader, _, candidateStore := newLoader(t)
	ctx := context.Background()

	require.NoError(t, loader.Load(ctx, strings.NewReader(ballotFile)))

	parties, err := candidateStore.ListParties(ctx)
	require.NoError(t, err)
	require.Len(t, parties, 1)
	require.Equal(t, "UC", parties[0].Code)

	summaries, err := candidateStore.List(ctx, candidates.Filters{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	var president candidates.Summary
	for _, s := range summaries {
		if s.Candidate.Office == reference.OfficePresident {
			president = s
		}
	}
	records, err := candidateStore.ListBackground(ctx, president.Candidate.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, candidates.BackgroundProposal, records[0].Kind)
}

func TestLoadIsIdempotent(t *testing.T) {
	loader, _, candidateStore := newLoader(t)
	ctx := context.Background()

	require.NoError(t, loader.Load(ctx, strings.NewReader(ballotFile)))
	require.NoError(t, loader.Load(ctx, strings.NewReader(ballotFile)))

	summaries, err := candidateStore.List(ctx, candidates.Filters{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Background records must not duplicate on rerun either.
	for _, s := range summaries {
		records, err := candidateStore.ListBackground(ctx, s.Candidate.ID)
		require.NoError(t, err)
		require.LessOrEqual(t, len(records), 1)
	}
}

// Malformed records are skipped with a log line; the rest of the file still
// lands.
func TestLoadSkipsMalformedRecords(t *testing.T) {
	loader, _, candidateStore := newLoader(t)
	ctx := context.Background()

	require.NoError(t, loader.Load(ctx, strings.NewReader(`{
	  "parties": [{"name": "Union Civica", "code": "UC", "candidates": [
	    {"given_name": "A", "paternal_surname": "B", "maternal_surname": "C", "office": "mayor"},
	    {"given_name": "D", "paternal_surname": "E", "maternal_surname": "F", "office": "representative"},
	    {"given_name": "ROSA", "paternal_surname": "TORRES", "maternal_surname": "VEGA", "office": "president",
	     "background": [{"kind": "proposal", "title": "Agua", "description": "x", "date": "not-a-date"}]}
	  ]}]
	}`)))

	// The unknown office and the region-less representative are dropped; the
	// president still loads, minus the record with the unparseable date.
	summaries, err := candidateStore.List(ctx, candidates.Filters{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, reference.OfficePresident, summaries[0].Candidate.Office)

	records, err := candidateStore.ListBackground(ctx, summaries[0].Candidate.ID)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	loader, _, _ := newLoader(t)
	err := loader.Load(context.Background(), strings.NewReader(`{"parties": [`))
	require.Error(t, err)
}
