package populate_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"thibou/internal/catalog"
	"thibou/internal/enrich"
	"thibou/internal/logging"
	"thibou/internal/nookipedia"
	"thibou/internal/populate"
	"thibou/internal/services"
	"thibou/internal/wiki"
)

type fakeSource struct {
	villagers []nookipedia.RawVillager
	fish      []nookipedia.RawFish
	bugs      []nookipedia.RawBug
	fossils   []nookipedia.RawFossil
	err       error
	calls     int
}

func (s *fakeSource) Villagers(context.Context) ([]nookipedia.RawVillager, error) {
	s.calls++
	return s.villagers, s.err
}

func (s *fakeSource) Fish(context.Context) ([]nookipedia.RawFish, error) {
	s.calls++
	return s.fish, s.err
}

func (s *fakeSource) Bugs(context.Context) ([]nookipedia.RawBug, error) {
	s.calls++
	return s.bugs, s.err
}

func (s *fakeSource) Fossils(context.Context) ([]nookipedia.RawFossil, error) {
	s.calls++
	return s.fossils, s.err
}

// fakeAPI stores created records so enrichment sees live state.
type fakeAPI struct {
	mu       sync.Mutex
	authErr  error
	readOnly bool
	records  []catalog.StoredRecord
	created  []any
	images   []string
	names    map[string]catalog.Names
	houses   map[string]catalog.House
	ranks    map[string]string
	calls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		names:  map[string]catalog.Names{},
		houses: map[string]catalog.House{},
		ranks:  map[string]string{},
	}
}

func (a *fakeAPI) record(call string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
}

func (a *fakeAPI) Authenticate(context.Context) error {
	a.record("auth")
	return a.authErr
}

func (a *fakeAPI) CanWrite(catalog.Kind) bool { return !a.readOnly }

func (a *fakeAPI) List(_ context.Context, kind catalog.Kind) ([]catalog.StoredRecord, error) {
	a.record("list " + string(kind))
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.StoredRecord(nil), a.records...), nil
}

func (a *fakeAPI) Create(_ context.Context, kind catalog.Kind, record any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	var stored catalog.StoredRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	stored.ID = fmt.Sprintf("%s-%d", kind, len(a.records)+1)
	a.records = append(a.records, stored)
	a.created = append(a.created, record)
	return stored.ID, nil
}

func (a *fakeAPI) UploadImage(_ context.Context, _ catalog.Kind, id, slot, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.images = append(a.images, id+"/"+slot)
	return nil
}

func (a *fakeAPI) UpdateNames(_ context.Context, _ catalog.Kind, id string, names catalog.Names) error {
	a.record("names " + id)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names[id] = names
	return nil
}

func (a *fakeAPI) UpdateHouse(_ context.Context, id string, house catalog.House) error {
	a.record("house " + id)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.houses[id] = house
	return nil
}

func (a *fakeAPI) UpdatePopularityRank(_ context.Context, id, rank string) error {
	a.record("rank " + id)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ranks[id] = rank
	return nil
}

type fakeWiki struct {
	listings []string
	names    map[string]catalog.Names
	houses   map[string]wiki.HouseInfo
}

func (w *fakeWiki) TranslatedNames(_ context.Context, listingPath string, wanted func(string) bool) (map[string]catalog.Names, error) {
	w.listings = append(w.listings, listingPath)
	return filter(w.names, wanted), nil
}

func (w *fakeWiki) VillagerNames(_ context.Context, wanted func(string) bool) (map[string]catalog.Names, error) {
	return filter(w.names, wanted), nil
}

func (w *fakeWiki) Houses(_ context.Context, wanted func(string) bool) (map[string]wiki.HouseInfo, error) {
	return filter(w.houses, wanted), nil
}

func filter[T any](data map[string]T, wanted func(string) bool) map[string]T {
	out := map[string]T{}
	for name, value := range data {
		if wanted(name) {
			out[name] = value
		}
	}
	return out
}

type fakeImages struct{}

func (fakeImages) Fetch(_ context.Context, url string) (string, error) {
	return "data:image/png;base64," + url, nil
}

func writeRanks(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "villagerRanks.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write ranks: %v", err)
	}
	return path
}

func TestRunVillagersUploadsAndEnrichesInOrder(t *testing.T) {
	source := &fakeSource{villagers: []nookipedia.RawVillager{
		{ID: "ank", Name: "Ankha", ImageURL: "https://img/ankha.png", BirthdayMonth: "September", BirthdayDay: 22},
		{ID: "bob", Name: "Bob", ImageURL: ""},
	}}
	api := newFakeAPI()
	scraper := &fakeWiki{
		names: map[string]catalog.Names{"Ankha": {catalog.LangJP: "アンクー"}},
		houses: map[string]wiki.HouseInfo{"Bob": {
			Name:  "Bob",
			Parts: map[string]wiki.HousePart{"roof": {Name: "Blue roof"}},
		}},
	}
	opts := populate.Options{RanksPath: writeRanks(t, `{"Ankha": 1, "Bob": "250"}`)}
	populator := populate.NewWithDependencies(populate.Dependencies{
		Source: source, API: api, Wiki: scraper, Images: fakeImages{},
	}, opts, logging.NewNop())

	report, err := populator.Run(context.Background(), catalog.KindVillager)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.RunID == "" {
		t.Fatal("expected run id")
	}
	if report.Upload.Succeeded != 2 || !reflect.DeepEqual(report.Upload.IDs, []string{"villager-1", "villager-2"}) {
		t.Fatalf("unexpected upload result: %+v", report.Upload)
	}
	if !reflect.DeepEqual(api.images, []string{"villager-1/full"}) {
		t.Fatalf("unexpected images: %v", api.images)
	}

	var steps []string
	for _, step := range report.Steps {
		if step.Err != nil {
			t.Fatalf("step %s failed: %v", step.Name, step.Err)
		}
		steps = append(steps, step.Name)
	}
	if want := []string{enrich.StepHouses, enrich.StepTranslations, enrich.StepRanks}; !reflect.DeepEqual(steps, want) {
		t.Fatalf("unexpected step order: got %v want %v", steps, want)
	}

	wantCalls := []string{
		"auth",
		"list villager", "house villager-2",
		"list villager", "names villager-1",
		"list villager", "rank villager-1", "rank villager-2",
	}
	if !reflect.DeepEqual(api.calls, wantCalls) {
		t.Fatalf("unexpected calls: got %v want %v", api.calls, wantCalls)
	}
	if api.houses["villager-2"] != (catalog.House{Roof: "Blue roof"}) {
		t.Fatalf("unexpected house: %+v", api.houses["villager-2"])
	}
	if api.names["villager-1"][catalog.LangJP] != "アンクー" || api.names["villager-1"][catalog.LangEN] != "Ankha" {
		t.Fatalf("unexpected names: %v", api.names["villager-1"])
	}
	if api.ranks["villager-1"] != "1" || api.ranks["villager-2"] != "250" {
		t.Fatalf("unexpected ranks: %v", api.ranks)
	}
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	api := newFakeAPI()
	populator := populate.NewWithDependencies(populate.Dependencies{
		Source: &fakeSource{villagers: []nookipedia.RawVillager{{ID: "ank", Name: "Ankha"}}},
		API:    api,
		Wiki:   &fakeWiki{},
	}, populate.Options{SkipHouses: true, SkipTranslations: true, SkipRanks: true}, logging.NewNop())

	report, err := populator.Run(context.Background(), catalog.KindVillager)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, step := range report.Steps {
		if !step.Skipped {
			t.Fatalf("expected step %s to be skipped", step.Name)
		}
	}
	if !reflect.DeepEqual(api.calls, []string{"auth"}) {
		t.Fatalf("expected no enrichment calls, got %v", api.calls)
	}
}

func TestRunKeepsGoingWhenRankFileMissing(t *testing.T) {
	populator := populate.NewWithDependencies(populate.Dependencies{
		Source: &fakeSource{villagers: []nookipedia.RawVillager{{ID: "ank", Name: "Ankha"}}},
		API:    newFakeAPI(),
		Wiki:   &fakeWiki{},
	}, populate.Options{SkipHouses: true, SkipTranslations: true, RanksPath: filepath.Join(t.TempDir(), "missing.json")}, logging.NewNop())

	report, err := populator.Run(context.Background(), catalog.KindVillager)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.StepFailures() != 1 {
		t.Fatalf("unexpected step failures: %d", report.StepFailures())
	}
	last := report.Steps[len(report.Steps)-1]
	if last.Name != enrich.StepRanks || !errors.Is(last.Err, services.ErrNotFound) {
		t.Fatalf("unexpected rank step: %+v", last)
	}
}

func TestRunFishUsesFishListingAndImages(t *testing.T) {
	api := newFakeAPI()
	scraper := &fakeWiki{names: map[string]catalog.Names{"Koi": {catalog.LangJP: "ニシキゴイ"}}}
	source := &fakeSource{fish: []nookipedia.RawFish{{
		Name: "Koi", Number: 17, ImageURL: "https://img/koi.png", RenderURL: "https://img/koi-render.png",
	}}}
	populator := populate.NewWithDependencies(populate.Dependencies{
		Source: source, API: api, Wiki: scraper, Images: fakeImages{},
	}, populate.Options{}, logging.NewNop())

	report, err := populator.Run(context.Background(), catalog.KindFish)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !reflect.DeepEqual(scraper.listings, []string{wiki.FishListingPath}) {
		t.Fatalf("unexpected listings: %v", scraper.listings)
	}
	if !reflect.DeepEqual(api.images, []string{"fish-1/full", "fish-1/small"}) {
		t.Fatalf("unexpected images: %v", api.images)
	}
	if len(report.Steps) != 1 || report.Steps[0].Summary.Updated != 1 {
		t.Fatalf("unexpected steps: %+v", report.Steps)
	}
	if _, ok := api.created[0].(catalog.Fish); !ok {
		t.Fatalf("expected a canonical fish record, got %T", api.created[0])
	}
}

func TestRunFossilsUploadsPartImagesWithoutEnrichment(t *testing.T) {
	api := newFakeAPI()
	room := 2
	source := &fakeSource{fossils: []nookipedia.RawFossil{{
		Name: "Tyrannosaurus",
		Room: &room,
		Fossils: []nookipedia.RawFossilPart{
			{Name: "T. Rex Skull", ImageURL: "https://img/skull.png", Sell: 5500},
			{Name: "T. Rex Torso", Sell: 5500},
		},
	}}}
	populator := populate.NewWithDependencies(populate.Dependencies{
		Source: source, API: api, Wiki: &fakeWiki{}, Images: fakeImages{},
	}, populate.Options{}, logging.NewNop())

	report, err := populator.Run(context.Background(), catalog.KindFossil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Steps) != 0 {
		t.Fatalf("expected no enrichment for fossils, got %+v", report.Steps)
	}
	if !reflect.DeepEqual(api.images, []string{"fossil-1/t._rex_skull"}) {
		t.Fatalf("unexpected images: %v", api.images)
	}
	fossil := api.created[0].(catalog.Fossil)
	if fossil.TotalPrice != 11000 || fossil.PartsCount != 2 || fossil.Room != 2 {
		t.Fatalf("unexpected fossil: %+v", fossil)
	}
}

func TestRunAuthFailureIsFatal(t *testing.T) {
	api := newFakeAPI()
	api.authErr = services.Wrap(services.ErrAuth, "contentapi", "authenticate", "rejected", nil)
	source := &fakeSource{}
	populator := populate.NewWithDependencies(populate.Dependencies{Source: source, API: api}, populate.Options{}, logging.NewNop())

	_, err := populator.Run(context.Background(), catalog.KindBug)
	if !services.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if source.calls != 0 {
		t.Fatalf("expected no source fetch after auth failure, got %d", source.calls)
	}
}

func TestRunSourceFailureIsReturned(t *testing.T) {
	api := newFakeAPI()
	source := &fakeSource{err: errors.New("connection reset")}
	populator := populate.NewWithDependencies(populate.Dependencies{Source: source, API: api}, populate.Options{}, logging.NewNop())

	report, err := populator.Run(context.Background(), catalog.KindBug)
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if report.Upload.Attempted != 0 {
		t.Fatalf("expected no upload attempts, got %+v", report.Upload)
	}
}

func TestRunRejectsUnknownKind(t *testing.T) {
	populator := populate.NewWithDependencies(populate.Dependencies{API: newFakeAPI()}, populate.Options{}, logging.NewNop())
	if _, err := populator.Run(context.Background(), catalog.Kind("turnip")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunReturnsCancellation(t *testing.T) {
	api := newFakeAPI()
	source := &fakeSource{bugs: []nookipedia.RawBug{{Name: "common butterfly", Number: 1}}}
	populator := populate.NewWithDependencies(populate.Dependencies{
		Source: source, API: api, Wiki: &fakeWiki{},
	}, populate.Options{}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := populator.Run(ctx, catalog.KindBug)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(api.created) != 0 || len(report.Steps) != 0 {
		t.Fatalf("expected no work after cancellation, got created=%d steps=%+v", len(api.created), report.Steps)
	}
}
