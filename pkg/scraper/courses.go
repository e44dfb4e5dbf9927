package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/events"
	"github.com/B3rK-3/ViewNJIT/pkg/models"
)

// subjectFetchConcurrency bounds parallel Banner requests per cycle.
const subjectFetchConcurrency = 4

// CourseScraper refreshes sections, titles and credits for every subject,
// runs brand-new courses through the description extractor, and mirrors
// the result to Redis.
type CourseScraper struct {
	banner      *BannerClient
	catalogPage *CatalogPageClient
	extractor   *TreeExtractor
	store       *catalog.Store
	rdb         *redis.Client
	publisher   *events.Publisher

	subjects []string
	termFile string
}

// NewCourseScraper wires a course scraper.
func NewCourseScraper(
	banner *BannerClient,
	catalogPage *CatalogPageClient,
	extractor *TreeExtractor,
	store *catalog.Store,
	rdb *redis.Client,
	publisher *events.Publisher,
	subjects []string,
	termFile string,
) *CourseScraper {
	return &CourseScraper{
		banner:      banner,
		catalogPage: catalogPage,
		extractor:   extractor,
		store:       store,
		rdb:         rdb,
		publisher:   publisher,
		subjects:    subjects,
		termFile:    termFile,
	}
}

// CurrentTerm reads the term file. An absent or empty file means no
// scraping this cycle.
func (s *CourseScraper) CurrentTerm() (string, error) {
	raw, err := os.ReadFile(s.termFile)
	if err != nil {
		return "", fmt.Errorf("term file not readable: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// RunCycle performs one full scrape pass. Per-subject failures are logged
// and skipped; the cycle fails outright when the term file cannot be read,
// no subject could be fetched, persistence fails or the refresh
// notification cannot be published.
func (s *CourseScraper) RunCycle(ctx context.Context) error {
	term, err := s.CurrentTerm()
	if err != nil {
		return err
	}
	if term == "" {
		slog.Warn("Term file is empty, skipping course scrape", "path", s.termFile)
		return nil
	}

	slog.Info("Starting course scrape", "term", term, "subjects", len(s.subjects))

	var mu sync.Mutex
	bySubject := map[string][]SectionRow{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(subjectFetchConcurrency)
	for _, subject := range s.subjects {
		g.Go(func() error {
			rows, err := s.banner.FetchSections(gctx, subject, term)
			if err != nil {
				slog.Error("Subject fetch failed", "subject", subject, "error", err)
				return nil // fail-soft per subject
			}
			mu.Lock()
			bySubject[subject] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(bySubject) == 0 {
		return fmt.Errorf("course scrape fetched no subjects")
	}

	updated := 0
	for _, rows := range bySubject {
		updated += s.applyRows(ctx, term, rows)
	}

	if err := s.store.SaveToRedis(ctx, s.rdb); err != nil {
		return err
	}
	if err := s.publisher.PublishRefresh(ctx, events.ChannelCourseUpdates); err != nil {
		return err
	}
	slog.Info("Course scrape finished", "term", term, "courses_updated", updated)
	return nil
}

// applyRows folds one subject's rows into the catalog store.
func (s *CourseScraper) applyRows(ctx context.Context, term string, rows []SectionRow) int {
	byCourse := map[string]models.SectionInfo{}
	titles := map[string]string{}
	credits := map[string]*float64{}
	for _, row := range rows {
		if row.Course == "" || row.Section == "" {
			continue
		}
		if byCourse[row.Course] == nil {
			byCourse[row.Course] = models.SectionInfo{}
		}
		byCourse[row.Course][row.Section] = models.SectionEntry{
			row.Section, row.CRN, row.Days, row.Times, row.Location,
			row.Status, row.Max, row.Now, row.Instructor,
			row.DeliveryMode, row.Credits, row.Info, row.Comments,
		}
		if row.Title != "" {
			titles[row.Course] = row.Title
		}
		if row.Credits != "" {
			if v, err := strconv.ParseFloat(row.Credits, 64); err == nil {
				credits[row.Course] = &v
			}
		}
	}

	updated := 0
	for code, sections := range byCourse {
		course, ok := s.store.Get(code)
		if !ok {
			created, err := s.discoverCourse(ctx, code)
			if err != nil {
				slog.Error("Could not discover new course", "course", code, "error", err)
				continue
			}
			course = created
		}

		// Course records are replaced whole so catalog readers never see
		// a half-mutated entry.
		next := *course
		next.Sections = cloneSections(course.Sections)
		next.Sections[term] = sections
		if title := titles[code]; title != "" {
			next.Title = title
		}
		if c := credits[code]; c != nil {
			next.Credits = c
		}
		s.store.Upsert(code, &next)
		updated++
	}
	return updated
}

// discoverCourse builds a record for a course the catalog has never seen:
// catalog page for title/description, LLM extraction for the trees.
func (s *CourseScraper) discoverCourse(ctx context.Context, code string) (*models.Course, error) {
	page, err := s.catalogPage.FetchCourse(ctx, code)
	if err != nil {
		slog.Warn("Catalog page fetch failed, keeping placeholders", "course", code, "error", err)
	}

	extracted, err := s.extractor.Extract(ctx, page.Desc)
	if err != nil {
		return nil, fmt.Errorf("description extraction for %s failed: %w", code, err)
	}

	return &models.Course{
		Title:        page.Title,
		Desc:         page.Desc,
		PrereqTree:   extracted.PrereqTree,
		CoreqTree:    extracted.CoreqTree,
		Restrictions: extracted.Restrictions,
		Sections:     map[string]models.SectionInfo{},
	}, nil
}

func cloneSections(in map[string]models.SectionInfo) map[string]models.SectionInfo {
	out := make(map[string]models.SectionInfo, len(in)+1)
	for term, sections := range in {
		out[term] = sections
	}
	return out
}
