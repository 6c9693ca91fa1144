package workers

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/fengwang001/plant-version-app/enrichment"
	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/repository"
	"gorm.io/gorm"
)

// EnrichmentJob asks the pool to populate the encyclopedia entry for a
// species. Jobs are fire-and-forget: they run after the identification
// response has been sent and their failures are logged, never surfaced.
type EnrichmentJob struct {
	ScientificName string
	CommonName     string
}

// DetailsFetcher is the slice of the enrichment client the pool needs.
type DetailsFetcher interface {
	FetchDetails(ctx context.Context, scientificName, commonName string) (*enrichment.PlantDetails, error)
	FetchSeasonalImages(ctx context.Context, scientificName, commonName string) map[string][]models.SeasonalImage
}

// EnrichmentPool runs encyclopedia enrichment on a fixed set of workers
// behind a buffered queue. Duplicate jobs for the same scientific name are
// coalesced while one is queued or running.
type EnrichmentPool struct {
	JobQueue  chan EnrichmentJob
	Fetcher   DetailsFetcher
	PlantRepo repository.PlantRepository
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[string]bool
	Mutex     sync.Mutex
}

func NewEnrichmentPool(fetcher DetailsFetcher, plantRepo repository.PlantRepository, queueSize, numWorkers int) *EnrichmentPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	pool := &EnrichmentPool{
		JobQueue:  make(chan EnrichmentJob, queueSize),
		Fetcher:   fetcher,
		PlantRepo: plantRepo,
		StopChan:  make(chan struct{}),
		Pending:   make(map[string]bool),
	}
	pool.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go pool.worker(i)
	}
	log.Printf("Started %d enrichment worker(s) with queue size %d", numWorkers, queueSize)
	return pool
}

// Enqueue submits a job without ever blocking the caller. A full queue or an
// already-pending species drops the job with a log line.
func (ep *EnrichmentPool) Enqueue(job EnrichmentJob) {
	if job.ScientificName == "" {
		return
	}

	ep.Mutex.Lock()
	if ep.Pending[job.ScientificName] {
		ep.Mutex.Unlock()
		return
	}
	ep.Pending[job.ScientificName] = true
	ep.Mutex.Unlock()

	select {
	case ep.JobQueue <- job:
	default:
		ep.Mutex.Lock()
		delete(ep.Pending, job.ScientificName)
		ep.Mutex.Unlock()
		log.Printf("Enrichment queue full, dropping job for %s", job.ScientificName)
	}
}

// Stop signals workers to exit and waits for in-flight jobs to finish.
func (ep *EnrichmentPool) Stop() {
	close(ep.StopChan)
	ep.Wg.Wait()
}

func (ep *EnrichmentPool) worker(id int) {
	defer ep.Wg.Done()

	log.Printf("Enrichment worker %d started", id)
	for {
		select {
		case job, ok := <-ep.JobQueue:
			if !ok {
				log.Printf("Enrichment worker %d stopping: Job queue closed", id)
				return
			}
			ep.processJob(id, job)

			ep.Mutex.Lock()
			delete(ep.Pending, job.ScientificName)
			ep.Mutex.Unlock()

		case <-ep.StopChan:
			log.Printf("Enrichment worker %d stopping: Stop signal received", id)
			return
		}
	}
}

func (ep *EnrichmentPool) processJob(id int, job EnrichmentJob) {
	log.Printf("Worker %d: enriching %s", id, job.ScientificName)

	existing, err := ep.PlantRepo.GetByScientificName(job.ScientificName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Worker %d: ERROR looking up %s: %v", id, job.ScientificName, err)
		return
	}
	if existing != nil && existing.Description != nil && *existing.Description != "" {
		log.Printf("Worker %d: %s already enriched, skipping", id, job.ScientificName)
		return
	}

	ctx := context.Background()

	details, err := ep.Fetcher.FetchDetails(ctx, job.ScientificName, job.CommonName)
	if err != nil {
		// best-effort contract: discard and log, nothing partial is written
		log.Printf("Worker %d: ERROR fetching details for %s: %v", id, job.ScientificName, err)
		return
	}

	details.SeasonalImages = ep.Fetcher.FetchSeasonalImages(ctx, job.ScientificName, job.CommonName)

	plant := details.ToModel()
	// the recognition name is the upsert key, not whatever the model echoed back
	plant.ScientificName = job.ScientificName
	if plant.CommonName == "" {
		plant.CommonName = job.CommonName
	}

	saved, err := ep.PlantRepo.UpsertByScientificName(plant)
	if err != nil {
		log.Printf("Worker %d: ERROR saving plant %s: %v", id, job.ScientificName, err)
		return
	}
	log.Printf("Worker %d: saved encyclopedia entry %s (%s)", id, saved.ID, saved.ScientificName)
}
