package studies

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"studyroulette/internal/models"
	"studyroulette/internal/validation"
)

// Result holds the studies that parsed cleanly plus the validation errors
// for the entries that did not. A file with some bad entries still yields
// a usable pool.
type Result struct {
	Studies []models.Study
	Errors  []string
}

// Load reads the studies file at path and validates every entry.
// TOML is the default format; .yaml and .yml files are parsed as YAML.
// Entry-level problems are collected in Result.Errors so the remaining
// entries stay usable; file-level problems are returned as an error.
func Load(path string) (Result, error) {
	res := Result{Studies: []models.Study{}, Errors: []string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("cannot read studies file: %w", err)
	}

	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return res, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return res, fmt.Errorf("invalid TOML: %w", err)
		}
	}

	raw, ok := doc["studies"]
	if !ok {
		return res, errors.New("missing required key 'studies'")
	}
	entries, ok := raw.([]any)
	if !ok {
		return res, errors.New("'studies' must be an array")
	}

	for i, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("studies[%d]: entry must be a table", i))
			continue
		}
		study, errs := parseEntry(i, entry)
		if len(errs) > 0 {
			res.Errors = append(res.Errors, errs...)
			continue
		}
		res.Studies = append(res.Studies, study)
	}

	if len(res.Studies) == 0 {
		res.Errors = append(res.Errors, "no valid studies found")
		return res, nil
	}
	if models.TotalWeight(res.Studies) <= 0 {
		res.Errors = append(res.Errors, "at least one study must have a positive weight")
	}

	return res, nil
}

// parseEntry validates a single studies entry. Unknown keys are ignored.
func parseEntry(i int, entry map[string]any) (models.Study, []string) {
	var study models.Study
	var errs []string

	rawURL, ok := entry["url"]
	if !ok {
		errs = append(errs, fmt.Sprintf("studies[%d]: missing required key 'url'", i))
	} else if s, isStr := rawURL.(string); !isStr {
		errs = append(errs, fmt.Sprintf("studies[%d]: 'url' must be a string", i))
	} else if valid, msg := validation.ValidateStudyURL(s); !valid {
		errs = append(errs, fmt.Sprintf("studies[%d]: invalid URL %q: %s", i, s, msg))
	} else {
		study.URL = s
	}

	rawWeight, ok := entry["weight"]
	if !ok {
		errs = append(errs, fmt.Sprintf("studies[%d]: missing required key 'weight'", i))
	} else if w, isNum := numberValue(rawWeight); !isNum {
		errs = append(errs, fmt.Sprintf("studies[%d]: 'weight' must be a number", i))
	} else if math.IsNaN(w) || math.IsInf(w, 0) {
		errs = append(errs, fmt.Sprintf("studies[%d]: weight must be finite, got %v", i, w))
	} else if w < 0 {
		errs = append(errs, fmt.Sprintf("studies[%d]: weight must be non-negative, got %v", i, w))
	} else {
		study.Weight = w
	}

	// Note is optional and coerced to a string when the file carries
	// another scalar type.
	if rawNote, ok := entry["note"]; ok && rawNote != nil {
		if s, isStr := rawNote.(string); isStr {
			study.Note = s
		} else {
			study.Note = fmt.Sprint(rawNote)
		}
	}

	return study, errs
}

// numberValue converts the numeric types the TOML and YAML decoders produce.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
