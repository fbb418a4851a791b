// Package seed bootstraps reference data: the canonical region list and an
// optional JSON file of parties and candidates. Loading is idempotent;
// rerunning against a populated database changes nothing.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"sufragio/internal/candidates"
	"sufragio/internal/reference"
	"sufragio/pkg/platform/sentinel"
)

// RegionNames is the canonical electoral subdivision list.
var RegionNames = []string{
	"Amazonas", "Ancash", "Apurimac", "Arequipa", "Ayacucho",
	"Cajamarca", "Callao", "Cusco", "Huancavelica", "Huanuco",
	"Ica", "Junin", "La Libertad", "Lambayeque", "Lima",
	"Loreto", "Madre de Dios", "Moquegua", "Pasco", "Piura",
	"Puno", "San Martin", "Tacna", "Tumbes", "Ucayali",
}

// File is the ballot definition document.
type File struct {
	Parties []PartyEntry `json:"parties"`
}

// PartyEntry declares one party and its candidates.
type PartyEntry struct {
	Name       string           `json:"name"`
	Code       string           `json:"code"`
	LogoURL    string           `json:"logo_url"`
	Candidates []CandidateEntry `json:"candidates"`
}

// CandidateEntry declares one candidacy. Region is referenced by name and
// must be present for representatives.
type CandidateEntry struct {
	GivenName       string            `json:"given_name"`
	PaternalSurname string            `json:"paternal_surname"`
	MaternalSurname string            `json:"maternal_surname"`
	Office          string            `json:"office"`
	Region          string            `json:"region"`
	PhotoURL        string            `json:"photo_url"`
	Background      []BackgroundEntry `json:"background"`
}

// BackgroundEntry declares one public disclosure item.
type BackgroundEntry struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	SourceURL   string `json:"source_url"`
}

// Loader writes seed data through the same stores the services use.
type Loader struct {
	regions    reference.RegionStore
	candidates candidates.Store
	logger     *slog.Logger
}

func NewLoader(regions reference.RegionStore, candidateStore candidates.Store, logger *slog.Logger) *Loader {
	return &Loader{regions: regions, candidates: candidateStore, logger: logger}
}

// EnsureRegions upserts the canonical region list.
func (l *Loader) EnsureRegions(ctx context.Context) error {
	for _, name := range RegionNames {
		if _, err := l.regions.Ensure(ctx, name); err != nil {
			return fmt.Errorf("ensure region %q: %w", name, err)
		}
	}
	return nil
}

// Load reads a ballot definition and applies it. Candidates that already
// exist are skipped, so a partially applied file can simply be rerun. A
// malformed record is logged and skipped; only file-level problems (bad JSON,
// an unreachable store) abort the load.
func (l *Loader) Load(ctx context.Context, r io.Reader) error {
	var file File
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}

	if err := l.EnsureRegions(ctx); err != nil {
		return err
	}

	for _, entry := range file.Parties {
		if err := l.loadParty(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadParty(ctx context.Context, entry PartyEntry) error {
	party := &candidates.Party{Name: entry.Name, Code: entry.Code, LogoURL: entry.LogoURL}
	if err := l.candidates.EnsureParty(ctx, party); err != nil {
		return fmt.Errorf("ensure party %q: %w", entry.Code, err)
	}

	for _, c := range entry.Candidates {
		if err := l.loadCandidate(ctx, party.ID, c); err != nil {
			l.logger.WarnContext(ctx, "skipping candidate",
				"party", entry.Code,
				"name", c.GivenName+" "+c.PaternalSurname,
				"error", err,
			)
		}
	}
	return nil
}

func (l *Loader) loadCandidate(ctx context.Context, partyID int64, entry CandidateEntry) error {
	office, err := reference.ParseOffice(entry.Office)
	if err != nil {
		return err
	}

	var regionID *int64
	if entry.Region != "" {
		region, err := l.regions.Ensure(ctx, entry.Region)
		if err != nil {
			return fmt.Errorf("ensure region %q: %w", entry.Region, err)
		}
		regionID = &region.ID
	}
	if office.RegionScoped() && regionID == nil {
		return errors.New("representative requires a region")
	}

	candidate := &candidates.Candidate{
		GivenName:       entry.GivenName,
		PaternalSurname: entry.PaternalSurname,
		MaternalSurname: entry.MaternalSurname,
		PartyID:         partyID,
		Office:          office,
		RegionID:        regionID,
		PhotoURL:        entry.PhotoURL,
	}
	err = l.candidates.Create(ctx, candidate)
	if errors.Is(err, sentinel.ErrConflict) {
		l.logger.InfoContext(ctx, "candidate already present, skipping",
			"name", candidate.FullName(), "office", office)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create candidate %s: %w", candidate.FullName(), err)
	}

	// Background records only land with a fresh candidate; reruns must not
	// duplicate them.
	for _, b := range entry.Background {
		if err := l.loadBackground(ctx, candidate.ID, b); err != nil {
			l.logger.WarnContext(ctx, "skipping background record",
				"candidate", candidate.FullName(),
				"title", b.Title,
				"error", err,
			)
		}
	}
	return nil
}

func (l *Loader) loadBackground(ctx context.Context, candidateID int64, entry BackgroundEntry) error {
	kind, err := candidates.ParseBackgroundKind(entry.Kind)
	if err != nil {
		return err
	}
	occurredOn, err := time.Parse("2006-01-02", entry.Date)
	if err != nil {
		return fmt.Errorf("background %q: invalid date %q", entry.Title, entry.Date)
	}
	record := &candidates.BackgroundRecord{
		CandidateID: candidateID,
		Kind:        kind,
		Title:       entry.Title,
		Description: entry.Description,
		OccurredOn:  occurredOn,
		SourceURL:   entry.SourceURL,
	}
	if err := l.candidates.AddBackground(ctx, record); err != nil {
		return fmt.Errorf("add background %q: %w", entry.Title, err)
	}
	return nil
}
