package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/identity"
	"github.com/goliatone/go-docsite/internal/lessons"
	"github.com/goliatone/go-docsite/internal/linkcheck"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/nav"
	"github.com/goliatone/go-docsite/pkg/interfaces"
	gotheme "github.com/goliatone/go-theme"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errRendererRequired = errors.New("generator: template renderer is required")
	errWriterRequired   = errors.New("generator: artifact writer is required")
	// ErrBrokenLinks indicates the build rendered pages with unresolvable internal links.
	ErrBrokenLinks = errors.New("generator: broken internal links")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildLesson(ctx context.Context, sectionCode, slug, locale string) error
	BuildAssets(ctx context.Context) error
	BuildSitemap(ctx context.Context) error
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir         string
	BaseURL           string
	Title             string
	Description       string
	CleanBuild        bool
	Incremental       bool
	CopyAssets        bool
	GenerateSitemap   bool
	GenerateRobots    bool
	GenerateFeed      bool
	IncludeDrafts     bool
	FailOnBrokenLinks bool
	Workers           int
	DefaultLocale     string
	Locales           []string
	Theme             string
	ThemeVariant      string
	Theming           ThemingConfig
	Metadata          map[string]any
}

// LessonRef identifies a single lesson page for targeted rebuilds.
type LessonRef struct {
	Section string
	Slug    string
	Locale  string
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	Locales []string
	Lessons []LessonRef
	DryRun  bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	Locales       []string
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	BrokenLinks   []linkcheck.Issue
	Errors        []error
	DryRun        bool
}

// LinkChecker validates internal links across rendered pages.
type LinkChecker interface {
	Check(documents []linkcheck.Document) []linkcheck.Issue
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Lessons  lessons.Service
	Nav      *nav.Builder
	Themes   *ThemeSelector
	Renderer interfaces.TemplateRenderer
	Writer   ArtifactWriter
	Links    LinkChecker
	Logger   interfaces.Logger
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:      cfg,
		deps:     deps,
		logger:   logger,
		now:      time.Now,
		readFile: os.ReadFile,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg      Config
	deps     Dependencies
	logger   interfaces.Logger
	now      func() time.Time
	readFile func(string) ([]byte, error)
}

type disabledService struct{}

// pageJob is a single page/locale combination queued for rendering.
type pageJob struct {
	ID           uuid.UUID
	Kind         PageKind
	Locale       string
	Route        string
	Template     string
	Hash         string
	LastModified time.Time
	Lesson       *lessons.Lesson
	Section      *lessons.Section
	Lessons      []*lessons.Lesson
	Sections     []*lessons.Section
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Writer == nil {
		return nil, errWriterRequired
	}

	start := time.Now()
	generatedAt := s.now().UTC()

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}

	jobs, locales, err := s.loadJobs(ctx, opts)
	if err != nil {
		return nil, err
	}

	selection, err := s.themeSelection()
	if err != nil {
		return nil, err
	}
	themeCtx := buildThemeContext(selection, s.cfg.Theming)

	siteMeta := SiteMetadata{
		Title:         s.cfg.Title,
		Description:   s.cfg.Description,
		BaseURL:       strings.TrimRight(s.cfg.BaseURL, "/"),
		DefaultLocale: s.cfg.DefaultLocale,
		Locales:       locales,
		Metadata:      s.cfg.Metadata,
	}

	result := &BuildResult{
		Locales:     append([]string(nil), locales...),
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(jobs)),
	}

	baseDir := outputBaseDir(s.cfg.OutputDir)
	manifest, manifestErr := s.loadManifest(ctx)
	if manifestErr != nil {
		// An unreadable manifest downgrades the build to a full rebuild;
		// the fresh manifest replaces it once the build succeeds.
		s.logger.Warn("build manifest unreadable, rebuilding all pages", "error", manifestErr)
		manifest = nil
	}
	if manifest == nil {
		manifest = newBuildManifest()
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(jobs))
		errorsSlice []error
		pageKeys    = map[string]struct{}{}
	)

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.diagnostic.PageID != uuid.Nil {
			pageKeys[manifest.pageKey(outcome.diagnostic.PageID, outcome.diagnostic.Locale)] = struct{}{}
		}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	workerCount := s.effectiveWorkerCount(len(locales))
	if workerCount <= 1 || len(jobs) <= 1 {
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
				collect(s.renderPage(ctx, siteMeta, themeCtx, generatedAt, opts, job, manifest, baseDir))
			}
		}
	} else {
		s.renderConcurrently(ctx, siteMeta, themeCtx, generatedAt, opts, jobs, workerCount, manifest, baseDir, collect)
	}

	sort.Slice(rendered, func(i, j int) bool {
		if rendered[i].Locale == rendered[j].Locale {
			return rendered[i].Route < rendered[j].Route
		}
		return rendered[i].Locale < rendered[j].Locale
	})

	if s.deps.Links != nil {
		documents := make([]linkcheck.Document, 0, len(rendered))
		for _, page := range rendered {
			documents = append(documents, linkcheck.Document{Route: page.Route, HTML: page.HTML})
		}
		issues := s.deps.Links.Check(documents)
		result.BrokenLinks = issues
		if len(issues) > 0 {
			s.logger.Warn("broken internal links detected", "count", len(issues))
			if s.cfg.FailOnBrokenLinks {
				errorsSlice = append(errorsSlice, fmt.Errorf("%w: %d issues", ErrBrokenLinks, len(issues)))
			}
		}
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	// persistPages fills Output and Checksum on the rendered entries in place.
	if err := s.persistPages(ctx, rendered, baseDir); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if s.cfg.CopyAssets {
		summary, err := s.copyAssets(ctx, selection, manifest, baseDir)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.AssetsBuilt += summary.Built
			result.AssetsSkipped += summary.Skipped
		}
	}

	if s.cfg.GenerateSitemap {
		sitemapPages := s.mergeRenderedForSitemap(jobs, rendered, manifest)
		if err := s.writeSitemap(ctx, siteMeta, sitemapPages, generatedAt, baseDir); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, siteMeta, generatedAt, baseDir); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateFeed {
		if err := s.writeFeeds(ctx, siteMeta, jobs, generatedAt, baseDir); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = generatedAt
		for _, page := range rendered {
			if page.PageID == uuid.Nil || strings.TrimSpace(page.Checksum) == "" {
				continue
			}
			manifest.setPage(manifestPage{
				PageID:       page.PageID.String(),
				Locale:       page.Locale,
				Route:        page.Route,
				Output:       page.Output,
				Template:     page.Template,
				Hash:         page.Hash,
				Checksum:     page.Checksum,
				LastModified: page.LastModified,
				RenderedAt:   generatedAt,
			})
		}
		// Drop stale entries only on full builds so targeted rebuilds keep history.
		if len(opts.Lessons) == 0 && len(opts.Locales) == 0 {
			manifest.prunePages(pageKeys)
		}
		if err := s.persistManifest(ctx, manifest, baseDir); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)

	s.logger.Info("build complete",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"assets_built", result.AssetsBuilt,
		"duration", result.Duration.String(),
	)

	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

func (s *service) BuildLesson(ctx context.Context, sectionCode, slug, locale string) error {
	_, err := s.Build(ctx, BuildOptions{
		Lessons: []LessonRef{{Section: sectionCode, Slug: slug, Locale: locale}},
	})
	return err
}

func (s *service) BuildAssets(ctx context.Context) error {
	if s.deps.Writer == nil {
		return errWriterRequired
	}
	selection, err := s.themeSelection()
	if err != nil {
		return err
	}
	baseDir := outputBaseDir(s.cfg.OutputDir)
	manifest, err := s.loadManifest(ctx)
	if err != nil {
		s.logger.Warn("build manifest unreadable, copying all assets", "error", err)
		manifest = newBuildManifest()
	}
	if _, err := s.copyAssets(ctx, selection, manifest, baseDir); err != nil {
		return err
	}
	return s.persistManifest(ctx, manifest, baseDir)
}

func (s *service) BuildSitemap(ctx context.Context) error {
	if s.deps.Writer == nil {
		return errWriterRequired
	}
	jobs, locales, err := s.loadJobs(ctx, BuildOptions{})
	if err != nil {
		return err
	}
	generatedAt := s.now().UTC()
	siteMeta := SiteMetadata{
		Title:         s.cfg.Title,
		BaseURL:       strings.TrimRight(s.cfg.BaseURL, "/"),
		DefaultLocale: s.cfg.DefaultLocale,
		Locales:       locales,
	}
	pages := make([]RenderedPage, 0, len(jobs))
	for _, job := range jobs {
		pages = append(pages, RenderedPage{
			PageID:       job.ID,
			Locale:       job.Locale,
			Route:        job.Route,
			LastModified: job.LastModified,
		})
	}
	baseDir := outputBaseDir(s.cfg.OutputDir)
	return s.writeSitemap(ctx, siteMeta, pages, generatedAt, baseDir)
}

func (s *service) Clean(ctx context.Context) error {
	if s.deps.Writer == nil {
		return errWriterRequired
	}
	baseDir := outputBaseDir(s.cfg.OutputDir)
	if baseDir == "" {
		baseDir = "."
	}
	return s.deps.Writer.RemoveAll(ctx, baseDir)
}

// loadJobs expands the lesson index into the full set of page jobs for the run.
func (s *service) loadJobs(ctx context.Context, opts BuildOptions) ([]*pageJob, []string, error) {
	if s.deps.Lessons == nil {
		return nil, nil, errors.New("generator: lesson service is required")
	}

	locales := opts.Locales
	if len(locales) == 0 {
		locales = s.cfg.Locales
	}
	if len(locales) == 0 && strings.TrimSpace(s.cfg.DefaultLocale) != "" {
		locales = []string{s.cfg.DefaultLocale}
	}
	if len(locales) == 0 {
		return nil, nil, errors.New("generator: no locales configured")
	}

	sections, err := s.deps.Lessons.ListSections(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("generator: list sections: %w", err)
	}

	resolver := &nav.PathResolver{DefaultLocale: s.cfg.DefaultLocale}
	var jobs []*pageJob

	for _, locale := range locales {
		var (
			localeSections []*lessons.Section
			localeLessons  = map[string][]*lessons.Lesson{}
			sectionDigests []string
			localeModified time.Time
		)

		for _, section := range sections {
			items, err := s.deps.Lessons.ListLessons(ctx, lessons.ListOptions{
				SectionCode:   section.Code,
				Locale:        locale,
				IncludeDrafts: s.cfg.IncludeDrafts,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("generator: list lessons %s: %w", section.Code, err)
			}
			if len(items) == 0 {
				continue
			}
			localeSections = append(localeSections, section)
			localeLessons[section.Code] = items

			sectionRoute, err := resolver.Resolve(ctx, nav.ResolveRequest{
				Kind:        nav.ResolveKindSection,
				SectionCode: section.RouteCode(),
				Locale:      locale,
			})
			if err != nil {
				return nil, nil, err
			}

			var (
				digests         []string
				sectionModified time.Time
			)
			for _, lesson := range items {
				digests = append(digests, lesson.Checksum)
				if lesson.LastModified.After(sectionModified) {
					sectionModified = lesson.LastModified
				}

				lessonRoute, err := resolver.Resolve(ctx, nav.ResolveRequest{
					Kind:        nav.ResolveKindLesson,
					SectionCode: section.RouteCode(),
					Slug:        lesson.Slug,
					Locale:      locale,
				})
				if err != nil {
					return nil, nil, err
				}
				template := "lesson"
				if lesson.Template != nil && strings.TrimSpace(*lesson.Template) != "" {
					template = strings.TrimSpace(*lesson.Template)
				}
				jobs = append(jobs, &pageJob{
					ID:           lesson.ID,
					Kind:         pageKindLesson,
					Locale:       locale,
					Route:        lessonRoute,
					Template:     template,
					Hash:         computeHashFromString(template + "::" + lesson.Checksum),
					LastModified: lesson.LastModified,
					Lesson:       lesson,
					Section:      section,
				})
			}

			sectionDigest := computeHashFromString(strings.Join(digests, "|"))
			sectionDigests = append(sectionDigests, sectionDigest)
			if sectionModified.After(localeModified) {
				localeModified = sectionModified
			}

			jobs = append(jobs, &pageJob{
				ID:           identity.UUID("go-docsite:page:section:" + section.Code + ":" + locale),
				Kind:         pageKindSection,
				Locale:       locale,
				Route:        sectionRoute,
				Template:     "section",
				Hash:         sectionDigest,
				LastModified: sectionModified,
				Section:      section,
				Lessons:      items,
			})
		}

		homeRoute, err := resolver.Resolve(ctx, nav.ResolveRequest{Locale: locale})
		if err != nil {
			return nil, nil, err
		}
		jobs = append(jobs, &pageJob{
			ID:           identity.UUID("go-docsite:page:home:" + locale),
			Kind:         pageKindHome,
			Locale:       locale,
			Route:        homeRoute,
			Template:     "index",
			Hash:         computeHashFromString(strings.Join(sectionDigests, "|")),
			LastModified: localeModified,
			Sections:     localeSections,
			Lessons:      flattenLessons(localeSections, localeLessons),
		})
	}

	if len(opts.Lessons) > 0 {
		jobs = filterJobs(jobs, opts.Lessons)
	}
	return jobs, locales, nil
}

func flattenLessons(sections []*lessons.Section, bySection map[string][]*lessons.Lesson) []*lessons.Lesson {
	var out []*lessons.Lesson
	for _, section := range sections {
		out = append(out, bySection[section.Code]...)
	}
	return out
}

func filterJobs(jobs []*pageJob, refs []LessonRef) []*pageJob {
	var filtered []*pageJob
	for _, job := range jobs {
		if job.Kind != pageKindLesson || job.Lesson == nil || job.Section == nil {
			continue
		}
		for _, ref := range refs {
			if (strings.EqualFold(job.Section.Code, ref.Section) ||
				strings.EqualFold(job.Section.RouteCode(), ref.Section)) &&
				strings.EqualFold(job.Lesson.Slug, ref.Slug) &&
				(ref.Locale == "" || strings.EqualFold(job.Locale, ref.Locale)) {
				filtered = append(filtered, job)
				break
			}
		}
	}
	return filtered
}

func (s *service) themeSelection() (*gotheme.Selection, error) {
	if s.deps.Themes == nil {
		return nil, nil
	}
	return s.deps.Themes.Selection(s.cfg.Theme, s.cfg.ThemeVariant)
}

func (s *service) renderConcurrently(
	ctx context.Context,
	siteMeta SiteMetadata,
	themeCtx ThemeContext,
	generatedAt time.Time,
	opts BuildOptions,
	jobs []*pageJob,
	workers int,
	manifest *buildManifest,
	baseDir string,
	collect func(renderOutcome),
) {
	grouped := make(map[string][]*pageJob, len(jobs))
	var order []string
	for _, job := range jobs {
		if _, ok := grouped[job.Locale]; !ok {
			order = append(order, job.Locale)
		}
		grouped[job.Locale] = append(grouped[job.Locale], job)
	}

	batches := make(chan []*pageJob)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				for _, job := range batch {
					select {
					case <-ctx.Done():
						collect(renderOutcome{
							diagnostic: RenderDiagnostic{PageID: job.ID, Locale: job.Locale, Route: job.Route, Err: ctx.Err()},
							err:        ctx.Err(),
						})
						return
					default:
						collect(s.renderPage(ctx, siteMeta, themeCtx, generatedAt, opts, job, manifest, baseDir))
					}
				}
			}
		}()
	}

	for _, locale := range order {
		select {
		case <-ctx.Done():
			close(batches)
			wg.Wait()
			return
		case batches <- grouped[locale]:
		}
	}
	close(batches)
	wg.Wait()
}

func (s *service) renderPage(
	ctx context.Context,
	siteMeta SiteMetadata,
	themeCtx ThemeContext,
	generatedAt time.Time,
	opts BuildOptions,
	job *pageJob,
	manifest *buildManifest,
	baseDir string,
) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			PageID:   job.ID,
			Locale:   job.Locale,
			Route:    job.Route,
			Template: job.Template,
		},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	if s.cfg.Incremental && manifest != nil && !opts.DryRun {
		expectedOutput := joinOutputPath(baseDir, buildOutputPath(job.Route, job.Locale, s.cfg.DefaultLocale))
		if manifest.shouldSkipPage(job.ID, job.Locale, job.Hash, expectedOutput) {
			outcome.skipped = true
			outcome.diagnostic.Skipped = true
			return outcome
		}
	}

	var navigation *nav.Navigation
	if s.deps.Nav != nil {
		built, err := s.deps.Nav.Build(ctx, nav.BuildOptions{
			Locale:        job.Locale,
			IncludeDrafts: s.cfg.IncludeDrafts,
			ActivePath:    job.Route,
		})
		if err != nil {
			wrapped := fmt.Errorf("generator: build navigation for %s: %w", job.Route, err)
			outcome.err = wrapped
			outcome.diagnostic.Err = wrapped
			return outcome
		}
		navigation = built
	}

	templateCtx := TemplateContext{
		Site: siteMeta,
		Page: PageRenderingContext{
			Kind:     job.Kind,
			Route:    job.Route,
			Locale:   job.Locale,
			Lesson:   job.Lesson,
			Section:  job.Section,
			Lessons:  job.Lessons,
			Sections: job.Sections,
		},
		Nav:     navigation,
		Build:   BuildMetadata{GeneratedAt: generatedAt, Options: opts},
		Theme:   themeCtx,
		Helpers: newTemplateHelpers(siteMeta.DefaultLocale, job.Locale, siteMeta.BaseURL),
	}

	start := time.Now()
	html, err := s.deps.Renderer.Render(job.Template, templateCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render template %q for %s (%s): %w", job.Template, job.Route, job.Locale, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	outcome.page = RenderedPage{
		PageID:       job.ID,
		Kind:         job.Kind,
		Locale:       job.Locale,
		Route:        job.Route,
		Template:     job.Template,
		HTML:         html,
		Hash:         job.Hash,
		LastModified: job.LastModified,
		Duration:     duration,
	}
	return outcome
}

func (s *service) persistPages(ctx context.Context, pages []RenderedPage, baseDir string) error {
	if len(pages) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := s.deps.Writer.EnsureDir(ctx, baseDir); err != nil {
			return err
		}
	}
	for i := range pages {
		destRel := buildOutputPath(pages[i].Route, pages[i].Locale, s.cfg.DefaultLocale)
		fullPath := joinOutputPath(baseDir, destRel)
		if err := ensureDir(ctx, s.deps.Writer, dirCache, path.Dir(fullPath)); err != nil {
			return err
		}
		checksum := computeHashFromString(pages[i].HTML)
		pages[i].Output = fullPath
		pages[i].Checksum = checksum

		req := writeFileRequest{
			Path:        fullPath,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Locale:      pages[i].Locale,
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    checksum,
			Metadata: map[string]string{
				"page_id":  pages[i].PageID.String(),
				"route":    pages[i].Route,
				"template": pages[i].Template,
			},
		}
		if err := s.deps.Writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

type assetCopySummary struct {
	Built   int
	Skipped int
}

func (s *service) copyAssets(
	ctx context.Context,
	selection *gotheme.Selection,
	manifest *buildManifest,
	baseDir string,
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	if selection == nil || s.deps.Themes == nil {
		return summary, nil
	}

	assets := collectThemeAssets(selection)
	if len(assets) == 0 {
		return summary, nil
	}

	themeName := selection.Theme
	themePath := s.deps.Themes.ThemePath(themeName)
	dirCache := map[string]struct{}{}

	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		data, err := s.readFile(filepath.Join(themePath, filepath.FromSlash(asset)))
		if err != nil {
			return summary, fmt.Errorf("generator: read theme asset %s: %w", asset, err)
		}
		destRel := path.Join("assets", asset)
		fullPath := joinOutputPath(baseDir, destRel)
		checksum := computeHash(data)

		if manifest != nil && s.cfg.Incremental && manifest.shouldSkipAsset(themeName, asset, checksum, fullPath) {
			summary.Skipped++
			continue
		}
		if err := ensureDir(ctx, s.deps.Writer, dirCache, path.Dir(fullPath)); err != nil {
			return summary, err
		}
		req := writeFileRequest{
			Path:        fullPath,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(destRel),
			Checksum:    checksum,
			Metadata: map[string]string{
				"theme": themeName,
				"asset": asset,
			},
		}
		if err := s.deps.Writer.WriteFile(ctx, req); err != nil {
			return summary, err
		}
		summary.Built++
		if manifest != nil {
			manifest.setAsset(manifestAsset{
				Key:      manifest.assetKey(themeName, asset),
				Theme:    themeName,
				Source:   asset,
				Output:   fullPath,
				Checksum: checksum,
				Size:     int64(len(data)),
				CopiedAt: s.now(),
			})
		}
	}
	return summary, nil
}

// mergeRenderedForSitemap combines freshly rendered pages with manifest entries
// for pages skipped by incremental builds, so the sitemap stays complete.
func (s *service) mergeRenderedForSitemap(jobs []*pageJob, rendered []RenderedPage, manifest *buildManifest) []RenderedPage {
	renderedByKey := make(map[string]RenderedPage, len(rendered))
	for _, page := range rendered {
		renderedByKey[manifest.pageKey(page.PageID, page.Locale)] = page
	}

	sitemap := make([]RenderedPage, 0, len(jobs))
	for _, job := range jobs {
		key := manifest.pageKey(job.ID, job.Locale)
		if page, ok := renderedByKey[key]; ok {
			sitemap = append(sitemap, page)
			continue
		}
		if entry, ok := manifest.lookupPage(job.ID, job.Locale); ok {
			sitemap = append(sitemap, RenderedPage{
				PageID:       job.ID,
				Locale:       job.Locale,
				Route:        entry.Route,
				Output:       entry.Output,
				Template:     entry.Template,
				LastModified: entry.LastModified,
				Checksum:     entry.Checksum,
			})
			continue
		}
		sitemap = append(sitemap, RenderedPage{
			PageID:       job.ID,
			Locale:       job.Locale,
			Route:        job.Route,
			Template:     job.Template,
			LastModified: job.LastModified,
		})
	}
	return sitemap
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	if s.deps.Writer == nil {
		return newBuildManifest(), nil
	}
	target := s.manifestTargetPath()
	data, err := s.deps.Writer.ReadFile(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	return parseManifest(data)
}

func (s *service) manifestTargetPath() string {
	base := outputBaseDir(s.cfg.OutputDir)
	return joinOutputPath(base, manifestFileName)
}

func (s *service) persistManifest(ctx context.Context, manifest *buildManifest, baseDir string) error {
	if manifest == nil {
		return nil
	}
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := s.manifestTargetPath()
	if err := ensureDir(ctx, s.deps.Writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	req := writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
	}
	return s.deps.Writer.WriteFile(ctx, req)
}

func (s *service) writeSitemap(ctx context.Context, siteMeta SiteMetadata, pages []RenderedPage, generatedAt time.Time, baseDir string) error {
	content := buildSitemap(siteMeta.BaseURL, pages, generatedAt)
	fullPath := joinOutputPath(baseDir, "sitemap.xml")
	if err := ensureDir(ctx, s.deps.Writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return s.deps.Writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(ctx context.Context, siteMeta SiteMetadata, generatedAt time.Time, baseDir string) error {
	content := buildRobots(siteMeta.BaseURL, s.cfg.GenerateSitemap)
	fullPath := joinOutputPath(baseDir, "robots.txt")
	if err := ensureDir(ctx, s.deps.Writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return s.deps.Writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeFeeds(ctx context.Context, siteMeta SiteMetadata, jobs []*pageJob, generatedAt time.Time, baseDir string) error {
	docs := s.buildFeedDocuments(jobs, generatedAt)
	dirCache := map[string]struct{}{}
	for _, doc := range docs {
		content := buildAtomFeed(siteMeta, doc, generatedAt)
		fullPath := joinOutputPath(baseDir, path.Join("feeds", fmt.Sprintf("%s.atom.xml", doc.Locale)))
		if err := ensureDir(ctx, s.deps.Writer, dirCache, path.Dir(fullPath)); err != nil {
			return err
		}
		req := writeFileRequest{
			Path:        fullPath,
			Content:     strings.NewReader(content),
			Size:        int64(len(content)),
			Locale:      doc.Locale,
			Category:    categoryFeed,
			ContentType: "application/atom+xml",
			Checksum:    computeHashFromString(content),
		}
		if err := s.deps.Writer.WriteFile(ctx, req); err != nil {
			return err
		}
		if doc.IsDefault {
			req.Path = joinOutputPath(baseDir, "feed.atom.xml")
			req.Content = strings.NewReader(content)
			if err := s.deps.Writer.WriteFile(ctx, req); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *service) effectiveWorkerCount(localeCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if localeCount > 0 && workers > localeCount {
		return localeCount
	}
	return workers
}

func ensureDir(ctx context.Context, writer ArtifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildLesson(context.Context, string, string, string) error {
	return ErrServiceDisabled
}

func (disabledService) BuildAssets(context.Context) error {
	return ErrServiceDisabled
}

func (disabledService) BuildSitemap(context.Context) error {
	return ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
