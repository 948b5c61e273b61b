package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// queryParams parses the raw query string into multi-valued parameters.
// Repeated keys must survive, so fiber's single-valued query helpers are
// not enough here. Decoded keys and values are coerced to valid UTF-8
// with U+FFFD replacement; every later stage sees the replaced form.
func queryParams(c fiber.Ctx) (url.Values, error) {
	parsed, err := url.ParseQuery(string(c.RequestCtx().URI().QueryString()))
	if err != nil {
		return nil, err
	}

	params := make(url.Values, len(parsed))
	for key, values := range parsed {
		key = strings.ToValidUTF8(key, "\uFFFD")
		for _, value := range values {
			params[key] = append(params[key], strings.ToValidUTF8(value, "\uFFFD"))
		}
	}
	return params, nil
}
