package models

// Health status values reported by the configuration check.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Report is the result of validating the studies file and the lookup
// directory. Studies always reflects whatever valid entries were parsed,
// even when the overall status is error, so operators can diagnose a
// partially-broken configuration.
type Report struct {
	Status  string      `json:"status"`
	Errors  []string    `json:"errors"`
	Studies []StudyInfo `json:"studies"`
}

// HTTPStatus maps the report status to the health endpoint's status code.
func (r *Report) HTTPStatus() int {
	if r.Status == StatusOK {
		return 200
	}
	return 500
}
