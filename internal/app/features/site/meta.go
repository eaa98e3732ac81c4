package site

import (
	"github.com/dalemusser/stratarent/internal/domain/models"
)

// metaInput describes one page for metadata derivation. Fields left empty
// fall back to the site-wide settings.
type metaInput struct {
	Path        string
	Title       string
	Description string
	SEO         models.SEOMeta

	// TitleTemplate, when set, picks the settings template used for the
	// title; Vars fill its placeholders.
	TitleTemplate func(*models.SEOSettings) string
	Vars          map[string]string
}

func deriveMeta(s *models.SEOSettings, in metaInput, baseURL string) models.PageMeta {
	m := models.PageMeta{
		Title:       s.DefaultMetaTitle,
		Description: s.DefaultMetaDescription,
		Keywords:    s.Keywords,
		OGImage:     s.OGImage,
		Canonical:   baseURL + in.Path,
	}
	if m.Title == "" {
		m.Title = s.SiteName
	}

	switch {
	case in.SEO.MetaTitle != "":
		m.Title = in.SEO.MetaTitle
	case in.TitleTemplate != nil && in.TitleTemplate(s) != "":
		m.Title = models.FillTemplate(in.TitleTemplate(s), in.Vars)
	case in.Title != "":
		m.Title = in.Title + " | " + s.SiteName
	}

	switch {
	case in.SEO.MetaDescription != "":
		m.Description = in.SEO.MetaDescription
	case in.Description != "":
		m.Description = in.Description
	}
	if len(in.SEO.Keywords) > 0 {
		m.Keywords = in.SEO.Keywords
	}
	if in.SEO.OGImage != "" {
		m.OGImage = in.SEO.OGImage
	}
	return m
}

func locationTitle(s *models.SEOSettings) string { return s.LocationTitleTemplate }

func serviceTitle(s *models.SEOSettings) string { return s.ServiceTitleTemplate }
