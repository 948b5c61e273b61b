package redirect

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"studyroulette/internal/lookup"
	"studyroulette/internal/models"
	"studyroulette/internal/studies"
)

var (
	// ErrNoParams is returned for requests without query parameters.
	// There is nothing to fingerprint, so there is nothing to resolve.
	ErrNoParams = errors.New("no parameters specified")

	// ErrMalformedDestination is returned when a destination cannot be
	// served: a lookup entry with no content, or a study URL that does
	// not survive the parameter merge.
	ErrMalformedDestination = errors.New("malformed destination")
)

// Resolution outcomes, used as metric labels.
const (
	OutcomeHit       = "hit"       // existing entry served without locking
	OutcomeCreated   = "created"   // this request selected the study and wrote the entry
	OutcomeConverged = "converged" // a concurrent writer won; their entry was served
)

// Resolution is the result of resolving one request. Study is the base
// URL of the drawn study and is only set when this request performed the
// draw, which is exactly the created outcome.
type Resolution struct {
	URL         string
	Fingerprint string
	Outcome     string
	Study       string
}

// PoolFunc supplies the current study pool. It is called at most once per
// resolution, and only when no lookup entry exists yet.
type PoolFunc func() ([]models.Study, error)

// Resolver assigns every distinct request fingerprint a destination URL,
// exactly once, and serves that same destination forever after.
type Resolver struct {
	store  lookup.Store
	poolFn PoolFunc
}

// NewResolver creates a Resolver backed by the given store and pool.
func NewResolver(store lookup.Store, poolFn PoolFunc) *Resolver {
	return &Resolver{store: store, poolFn: poolFn}
}

// Resolve maps request parameters to a destination URL. The first request
// for a fingerprint draws a study and records the merged URL; every later
// request with the same fingerprint gets the recorded URL back, regardless
// of how the study pool has changed since.
func (r *Resolver) Resolve(ctx context.Context, params url.Values) (Resolution, error) {
	if len(params) == 0 {
		return Resolution{}, ErrNoParams
	}

	fp, err := Fingerprint(params)
	if err != nil {
		return Resolution{}, err
	}

	// Fast path. Entries are immutable once written, so reads need no lock.
	dest, found, err := r.store.Get(fp)
	if err != nil {
		return Resolution{}, err
	}
	if found {
		if dest == "" {
			return Resolution{}, fmt.Errorf("%w: %s", ErrMalformedDestination, fp)
		}
		return Resolution{URL: dest, Fingerprint: fp, Outcome: OutcomeHit}, nil
	}

	res := Resolution{Fingerprint: fp}
	err = r.store.WithLock(ctx, fp, func() error {
		// A concurrent writer may have resolved this fingerprint while
		// we waited for the lock.
		dest, found, err := r.store.Get(fp)
		if err != nil {
			return err
		}
		if found {
			if dest == "" {
				return fmt.Errorf("%w: %s", ErrMalformedDestination, fp)
			}
			res.URL = dest
			res.Outcome = OutcomeConverged
			return nil
		}

		pool, err := r.poolFn()
		if err != nil {
			return err
		}
		study, err := studies.Select(pool)
		if err != nil {
			return err
		}
		merged, err := MergeURL(study.URL, params)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedDestination, err)
		}

		created, err := r.store.PutIfAbsent(fp, merged)
		if err != nil {
			return err
		}
		if created {
			res.URL = merged
			res.Outcome = OutcomeCreated
			res.Study = study.URL
			return nil
		}

		// Lost a create race to a writer outside this lock. Their entry
		// is authoritative now.
		dest, found, err = r.store.Get(fp)
		if err != nil {
			return err
		}
		if !found || dest == "" {
			return fmt.Errorf("%w: %s", ErrMalformedDestination, fp)
		}
		res.URL = dest
		res.Outcome = OutcomeConverged
		return nil
	})
	if err != nil {
		return Resolution{}, err
	}
	return res, nil
}
