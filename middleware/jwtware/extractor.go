package jwtware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Extractor pulls a raw token out of a request, returning empty when the
// source has nothing.
type Extractor func(c *fiber.Ctx) string

// ExtractRawToken runs the extractors in order and returns the first hit.
func ExtractRawToken(c *fiber.Ctx, extractors []Extractor) string {
	for _, extractor := range extractors {
		if raw := extractor(c); raw != "" {
			return raw
		}
	}
	return ""
}

// GetExtractors parses a TokenLookup string into extractor functions.
// Unrecognized sources are ignored.
func GetExtractors(tokenLookup, authScheme string) []Extractor {
	var extractors []Extractor

	for _, entry := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			continue
		}

		name := parts[1]
		switch parts[0] {
		case "header":
			extractors = append(extractors, headerExtractor(name, authScheme))
		case "query":
			extractors = append(extractors, func(c *fiber.Ctx) string {
				return c.Query(name)
			})
		case "cookie":
			extractors = append(extractors, func(c *fiber.Ctx) string {
				return c.Cookies(name)
			})
		}
	}

	return extractors
}

func headerExtractor(header, authScheme string) Extractor {
	return func(c *fiber.Ctx) string {
		raw := c.Get(header)
		if raw == "" {
			return ""
		}

		if authScheme != "" {
			prefix := authScheme + " "
			if len(raw) > len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
				return strings.TrimSpace(raw[len(prefix):])
			}
			return ""
		}

		return strings.TrimSpace(raw)
	}
}
