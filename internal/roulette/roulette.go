package roulette

import (
	"studyroulette/internal/lookup"
	"studyroulette/internal/models"
	"studyroulette/internal/redirect"
	"studyroulette/internal/studies"
)

// Pool returns a PoolFunc that reloads the studies file on every call, so
// edits to the file take effect without a restart. Entries that fail
// validation are dropped from the pool; only file-level problems surface
// as errors.
func Pool(studiesFile string) redirect.PoolFunc {
	return func() ([]models.Study, error) {
		res, err := studies.Load(studiesFile)
		if err != nil {
			return nil, err
		}
		return res.Studies, nil
	}
}

// Check runs the full health validation: the studies file must load and
// validate, and the lookup store must round-trip a probe write. The
// returned report always carries the parsed studies with their effective
// selection percentages, even when some entries failed validation.
func Check(store lookup.Store, studiesFile string) models.Report {
	report := models.Report{
		Status:  models.StatusOK,
		Errors:  []string{},
		Studies: []models.StudyInfo{},
	}

	res, err := studies.Load(studiesFile)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
	} else {
		report.Errors = append(report.Errors, res.Errors...)
		total := models.TotalWeight(res.Studies)
		for _, s := range res.Studies {
			report.Studies = append(report.Studies, models.StudyInfoFor(s, total))
		}
	}

	if err := store.HealthCheck(); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}

	if len(report.Errors) > 0 {
		report.Status = models.StatusError
	}
	return report
}
