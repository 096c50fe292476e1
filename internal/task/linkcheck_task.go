package task

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/robfig/cron/v3"

	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
)

// LinkCheckTask probes stored social links and marks dead ones unverified.
type LinkCheckTask struct {
	ArtisanRepo repository.ArtisanRepository
	Cron        *cron.Cron
	client      *resty.Client

	// cap concurrent probes so a large backlog does not saturate the uplink
	concurrencyLimit int
	sleepTime        time.Duration
	recheckAfter     time.Duration
	batchSize        int
}

func NewLinkCheckTask(artisanRepo repository.ArtisanRepository) *LinkCheckTask {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(1).
		SetHeader("User-Agent", "annuaire-artisans-linkcheck/1.0")

	return &LinkCheckTask{
		ArtisanRepo:      artisanRepo,
		Cron:             cron.New(cron.WithSeconds()),
		client:           client,
		concurrencyLimit: 20,
		sleepTime:        100 * time.Millisecond, // stagger goroutine startup
		recheckAfter:     7 * 24 * time.Hour,
		batchSize:        200,
	}
}

// Start launches the periodic check.
func (t *LinkCheckTask) Start() {
	// first pass on boot
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		log.Println("[Task] running initial social link check...")
		t.checkJob(ctx)
	}()

	_, err := t.Cron.AddFunc("0 0 */6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		t.checkJob(ctx)
	})
	if err != nil {
		log.Fatalf("cannot schedule link check task: %v", err)
	}

	t.Cron.Start()
	log.Println("link check task started (every 6 hours)")
}

// Stop halts the scheduler.
func (t *LinkCheckTask) Stop() {
	t.Cron.Stop()
}

func (t *LinkCheckTask) checkJob(ctx context.Context) {
	cutoff := time.Now().Add(-t.recheckAfter)
	links, err := t.ArtisanRepo.ListLinksToCheck(ctx, cutoff, t.batchSize)
	if err != nil {
		log.Printf("[Cron] stale link query failed: %v", err)
		return
	}
	if len(links) == 0 {
		return
	}

	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	log.Printf("[Cron] checking %d social links, concurrency limit %d", len(links), t.concurrencyLimit)

	for _, link := range links {
		select {
		case <-ctx.Done():
			log.Println("[Cron] link check stopped, context cancelled")
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		time.Sleep(t.sleepTime)

		go func(l model.SocialLink) {
			defer wg.Done()
			defer func() { <-sem }()

			alive := t.probe(ctx, l.URL)
			if err := t.ArtisanRepo.MarkLinkChecked(ctx, l.ID, alive); err != nil {
				log.Printf("[Cron] marking link %d failed: %v", l.ID, err)
			}
		}(link)
	}

	wg.Wait()
	log.Println("[Cron] link check round done")
}

// probe treats any response below 400 as alive. Platforms that reject HEAD
// get a second chance with GET.
func (t *LinkCheckTask) probe(ctx context.Context, url string) bool {
	resp, err := t.client.R().SetContext(ctx).Head(url)
	if err == nil && resp.StatusCode() < http.StatusBadRequest {
		return true
	}
	if err == nil && resp.StatusCode() == http.StatusMethodNotAllowed {
		resp, err = t.client.R().SetContext(ctx).Get(url)
		return err == nil && resp.StatusCode() < http.StatusBadRequest
	}
	return false
}
