package roulette

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studyroulette/internal/lookup"
	"studyroulette/internal/models"
	"studyroulette/internal/testutil"
)

// fakeStore lets tests control the health check result.
type fakeStore struct {
	healthErr error
}

var _ lookup.Store = (*fakeStore)(nil)

func (s *fakeStore) Get(string) (string, bool, error)         { return "", false, nil }
func (s *fakeStore) PutIfAbsent(string, string) (bool, error) { return true, nil }
func (s *fakeStore) WithLock(_ context.Context, _ string, fn func() error) error {
	return fn()
}
func (s *fakeStore) HealthCheck() error { return s.healthErr }

func TestCheckHealthy(t *testing.T) {
	path := testutil.WriteStudies(t, "studies.toml", `
[[studies]]
url = "https://a.example/one"
weight = 1

[[studies]]
url = "https://b.example/two"
weight = 2
note = "main arm"

[[studies]]
url = "https://c.example/three"
weight = 1
`)

	report := Check(&fakeStore{}, path)

	if report.Status != models.StatusOK {
		t.Fatalf("Check() status = %q, want %q (errors: %v)", report.Status, models.StatusOK, report.Errors)
	}
	if report.HTTPStatus() != 200 {
		t.Errorf("HTTPStatus() = %d, want 200", report.HTTPStatus())
	}
	if len(report.Errors) != 0 {
		t.Errorf("Check() errors = %v, want none", report.Errors)
	}

	wantPercents := []float64{25, 50, 25}
	if len(report.Studies) != len(wantPercents) {
		t.Fatalf("Check() studies = %v, want 3 entries", report.Studies)
	}
	for i, want := range wantPercents {
		if report.Studies[i].Percent != want {
			t.Errorf("Check() studies[%d].percent = %v, want %v", i, report.Studies[i].Percent, want)
		}
	}
	if report.Studies[1].Note != "main arm" {
		t.Errorf("Check() studies[1].note = %q, want %q", report.Studies[1].Note, "main arm")
	}
}

func TestCheckPercentsFollowRatios(t *testing.T) {
	// Weights only matter relative to each other, so 1:0.5 and 100:50
	// must report the same percentages.
	for _, weights := range []string{"1.0, 0.5", "100, 50"} {
		parts := strings.Split(weights, ", ")
		path := testutil.WriteStudies(t, "studies.toml", `
[[studies]]
url = "https://a.example/one"
weight = `+parts[0]+`

[[studies]]
url = "https://b.example/two"
weight = `+parts[1]+`
`)

		report := Check(&fakeStore{}, path)
		if report.Status != models.StatusOK {
			t.Fatalf("Check() status = %q, errors = %v", report.Status, report.Errors)
		}
		if report.Studies[0].Percent != 66.67 || report.Studies[1].Percent != 33.33 {
			t.Errorf("Check() percents = %v, %v for weights %s, want 66.67, 33.33",
				report.Studies[0].Percent, report.Studies[1].Percent, weights)
		}
	}
}

func TestCheckPartialStudiesErrors(t *testing.T) {
	path := testutil.WriteStudies(t, "studies.toml", `
[[studies]]
url = "https://a.example/one"
weight = 1

[[studies]]
weight = 2

[[studies]]
url = "https://c.example/three"
weight = 1
`)

	report := Check(&fakeStore{}, path)

	if report.Status != models.StatusError {
		t.Fatalf("Check() status = %q, want %q", report.Status, models.StatusError)
	}
	if report.HTTPStatus() != 500 {
		t.Errorf("HTTPStatus() = %d, want 500", report.HTTPStatus())
	}
	if len(report.Errors) != 1 || report.Errors[0] != "studies[1]: missing required key 'url'" {
		t.Errorf("Check() errors = %v, want the entry error", report.Errors)
	}

	// Both valid studies are still reported, splitting the pool evenly.
	if len(report.Studies) != 2 {
		t.Fatalf("Check() studies = %v, want the two surviving studies", report.Studies)
	}
	for i, info := range report.Studies {
		if info.Percent != 50 {
			t.Errorf("Check() studies[%d].percent = %v, want 50", i, info.Percent)
		}
	}
}

func TestCheckMissingFile(t *testing.T) {
	report := Check(&fakeStore{}, filepath.Join(t.TempDir(), "absent.toml"))

	if report.Status != models.StatusError {
		t.Fatalf("Check() status = %q, want %q", report.Status, models.StatusError)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "cannot read studies file") {
		t.Errorf("Check() errors = %v, want a read error", report.Errors)
	}
	if len(report.Studies) != 0 {
		t.Errorf("Check() studies = %v, want none", report.Studies)
	}
}

func TestCheckStoreFailure(t *testing.T) {
	path := testutil.WriteStudies(t, "studies.toml", `
[[studies]]
url = "https://a.example/one"
weight = 1
`)

	report := Check(&fakeStore{healthErr: errors.New("lookup directory not writable")}, path)

	if report.Status != models.StatusError {
		t.Fatalf("Check() status = %q, want %q", report.Status, models.StatusError)
	}
	if len(report.Errors) != 1 || report.Errors[0] != "lookup directory not writable" {
		t.Errorf("Check() errors = %v, want the store error", report.Errors)
	}
	// Studies remain visible even when the store is down.
	if len(report.Studies) != 1 {
		t.Errorf("Check() studies = %v, want the loaded study", report.Studies)
	}
}

func TestCheckReportJSONShape(t *testing.T) {
	path := testutil.WriteStudies(t, "studies.toml", `
[[studies]]
url = "https://a.example/one"
weight = 1
`)

	report := Check(&fakeStore{}, path)
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshaling report: %v", err)
	}

	// Empty collections serialize as [], never null, and absent notes are
	// omitted entirely.
	s := string(data)
	if !strings.Contains(s, `"errors":[]`) {
		t.Errorf("report JSON = %s, want empty errors array", s)
	}
	if strings.Contains(s, "null") {
		t.Errorf("report JSON = %s, want no null fields", s)
	}
	if strings.Contains(s, `"note"`) {
		t.Errorf("report JSON = %s, want note omitted when absent", s)
	}
}

func TestPool(t *testing.T) {
	path := testutil.WriteStudies(t, "studies.toml", `
[[studies]]
url = "https://a.example/one"
weight = 1

[[studies]]
weight = 2
`)

	pool, err := Pool(path)()
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	// Entry errors drop the bad entry but keep the pool serving.
	if len(pool) != 1 || pool[0].URL != "https://a.example/one" {
		t.Errorf("Pool() = %v, want the single valid study", pool)
	}
}

func TestPoolFileError(t *testing.T) {
	_, err := Pool(filepath.Join(t.TempDir(), "absent.toml"))()
	if err == nil {
		t.Fatal("Pool() error = nil, want error for missing file")
	}
}

func TestPoolReloadsEachCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studies.toml")
	write := func(url string) {
		t.Helper()
		content := "[[studies]]\nurl = \"" + url + "\"\nweight = 1\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing studies file: %v", err)
		}
	}

	write("https://first.example/survey")
	poolFn := Pool(path)

	pool, err := poolFn()
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	if pool[0].URL != "https://first.example/survey" {
		t.Fatalf("Pool() = %v, want the first study", pool)
	}

	write("https://second.example/survey")
	pool, err = poolFn()
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	if pool[0].URL != "https://second.example/survey" {
		t.Errorf("Pool() = %v, want the rewritten study", pool)
	}
}
