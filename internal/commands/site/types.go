package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-docsite/internal/generator"
)

const (
	buildSiteMessageType  = "docsite.site.build"
	diffSiteMessageType   = "docsite.site.diff"
	checkLinksMessageType = "docsite.site.check_links"
	cleanSiteMessageType  = "docsite.site.clean"
)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a site command execution that generated a BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build using the provided filters.
type BuildSiteCommand struct {
	Lessons        []generator.LessonRef `json:"lessons,omitempty"`
	Locales        []string              `json:"locales,omitempty"`
	DryRun         bool                  `json:"dry_run,omitempty"`
	AssetsOnly     bool                  `json:"assets_only,omitempty"`
	ResultCallback ResultCallback        `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures locales are well-formed and lesson references carry a section and slug.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	if len(m.Locales) > 0 {
		for _, locale := range m.Locales {
			if strings.TrimSpace(locale) == "" {
				errs["locales"] = validation.NewError("docsite.site.build.locale_invalid", "locales must not contain empty values")
				break
			}
		}
	}
	for _, ref := range m.Lessons {
		if strings.TrimSpace(ref.Section) == "" || strings.TrimSpace(ref.Slug) == "" {
			errs["lessons"] = validation.NewError("docsite.site.build.lesson_invalid", "lessons must reference a section and slug")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DiffSiteCommand performs a dry-run build to surface differences without writing artifacts.
type DiffSiteCommand struct {
	Lessons        []generator.LessonRef `json:"lessons,omitempty"`
	Locales        []string              `json:"locales,omitempty"`
	ResultCallback ResultCallback        `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

// Validate ensures locales and lesson references are well-formed.
func (m DiffSiteCommand) Validate() error {
	errs := validation.Errors{}
	for _, ref := range m.Lessons {
		if strings.TrimSpace(ref.Section) == "" || strings.TrimSpace(ref.Slug) == "" {
			errs["lessons"] = validation.NewError("docsite.site.diff.lesson_invalid", "lessons must reference a section and slug")
			break
		}
	}
	for _, locale := range m.Locales {
		if strings.TrimSpace(locale) == "" {
			errs["locales"] = validation.NewError("docsite.site.diff.locale_invalid", "locales must not contain empty values")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CheckLinksCommand performs a dry-run build and reports unresolved internal links.
type CheckLinksCommand struct {
	Locales []string `json:"locales,omitempty"`
	// Strict fails the command when broken links are found instead of only reporting them.
	Strict         bool           `json:"strict,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (CheckLinksCommand) Type() string { return checkLinksMessageType }

// Validate ensures locales are well-formed.
func (m CheckLinksCommand) Validate() error {
	errs := validation.Errors{}
	for _, locale := range m.Locales {
		if strings.TrimSpace(locale) == "" {
			errs["locales"] = validation.NewError("docsite.site.check_links.locale_invalid", "locales must not contain empty values")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CleanSiteCommand clears generator artifacts from the configured output writer.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return false
	}
	return g.GeneratorEnabled()
}
