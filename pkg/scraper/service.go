package scraper

import (
	"context"
	"log/slog"
	"time"
)

// Service runs both scrape workers on their own cadences. Each cycle is
// fail-soft: errors are logged and the next tick retries implicitly.
type Service struct {
	courses   *CourseScraper
	lecturers *LecturerScraper

	courseInterval   time.Duration
	lecturerInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates the scrape runner.
func NewService(courses *CourseScraper, lecturers *LecturerScraper, courseInterval, lecturerInterval time.Duration) *Service {
	return &Service{
		courses:          courses,
		lecturers:        lecturers,
		courseInterval:   courseInterval,
		lecturerInterval: lecturerInterval,
	}
}

// Start launches both background loops. The first cycle fires after one
// full interval, not immediately.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{}, 2)

	go s.loop(ctx, "course scraper", s.courseInterval, s.courses.RunCycle)
	go s.loop(ctx, "lecturer check", s.lecturerInterval, s.lecturers.RunCycle)

	slog.Info("Scrapers started",
		"course_interval", s.courseInterval,
		"lecturer_interval", s.lecturerInterval)
}

// Stop signals both loops to exit and waits for them.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	<-s.done
	slog.Info("Scrapers stopped")
}

func (s *Service) loop(ctx context.Context, name string, interval time.Duration, cycle func(context.Context) error) {
	defer func() { s.done <- struct{}{} }()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cycle(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Error("Scrape cycle failed", "worker", name, "error", err)
			}
		}
	}
}
