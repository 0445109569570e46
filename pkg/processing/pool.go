// Package processing runs background jobs on a bounded worker pool.
package processing

import (
	"errors"
	"sync"
	"time"

	customlog "github.com/open-teleop/overlay/pkg/log"
)

var (
	// ErrPoolNotRunning is returned by Submit before Start or after Stop.
	ErrPoolNotRunning = errors.New("pool not running")
	// ErrQueueFull is returned by Submit when the queue has no room.
	ErrQueueFull = errors.New("pool queue is full")
)

// Job is one unit of work. A returned error is counted and logged.
type Job func() error

type queuedJob struct {
	name string
	run  Job
}

// Pool is a fixed-size worker pool fed by a bounded queue.
type Pool struct {
	name        string
	workerCount int
	queueSize   int
	logger      customlog.Logger

	mu      sync.Mutex
	queue   chan queuedJob
	running bool
	wg      sync.WaitGroup

	metricsMu sync.Mutex
	metrics   PoolMetrics
}

// PoolMetrics tracks metrics for a pool
type PoolMetrics struct {
	ProcessedCount    int64 `json:"processed"`
	ErrorCount        int64 `json:"errors"`
	QueuedCount       int64 `json:"queued"`
	RejectedCount     int64 `json:"rejected"`
	LastProcessedTime int64 `json:"last_processed_ns"`
	ProcessingTimeAvg int64 `json:"avg_us"`
	ProcessingTimeMax int64 `json:"max_us"`
}

// NewPool creates a stopped pool.
func NewPool(name string, workerCount, queueSize int, logger customlog.Logger) *Pool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Pool{
		name:        name,
		workerCount: workerCount,
		queueSize:   queueSize,
		logger:      logger,
	}
}

// Submit queues a job without blocking.
func (p *Pool) Submit(name string, job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		p.countRejected()
		return ErrPoolNotRunning
	}

	select {
	case p.queue <- queuedJob{name: name, run: job}:
		p.metricsMu.Lock()
		p.metrics.QueuedCount++
		p.metricsMu.Unlock()
		return nil
	default:
		p.countRejected()
		p.logger.Warnf("%s pool queue is full, rejecting job %s", p.name, name)
		return ErrQueueFull
	}
}

func (p *Pool) countRejected() {
	p.metricsMu.Lock()
	p.metrics.RejectedCount++
	p.metricsMu.Unlock()
}

// Start starts the pool workers
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.queue = make(chan queuedJob, p.queueSize)
	p.running = true
	p.logger.Infof("Starting %s pool with %d workers", p.name, p.workerCount)

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i, p.queue)
	}
}

// Stop stops accepting jobs, drains the queue and waits for the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.queue)
	p.mu.Unlock()

	p.logger.Infof("Stopping %s pool", p.name)
	p.wg.Wait()
	p.logMetrics()
}

func (p *Pool) worker(id int, queue <-chan queuedJob) {
	defer p.wg.Done()

	p.logger.Debugf("%s pool worker %d started", p.name, id)

	for job := range queue {
		p.logger.Debugf("%s pool worker %d running %s", p.name, id, job.name)

		startTime := time.Now()
		err := job.run()
		processingTime := time.Since(startTime).Microseconds()

		p.metricsMu.Lock()
		p.metrics.ProcessedCount++
		p.metrics.LastProcessedTime = time.Now().UnixNano()
		if p.metrics.ProcessingTimeAvg == 0 {
			p.metrics.ProcessingTimeAvg = processingTime
		} else {
			p.metrics.ProcessingTimeAvg = (p.metrics.ProcessingTimeAvg + processingTime) / 2
		}
		if processingTime > p.metrics.ProcessingTimeMax {
			p.metrics.ProcessingTimeMax = processingTime
		}
		if err != nil {
			p.metrics.ErrorCount++
		}
		p.metricsMu.Unlock()

		if err != nil {
			p.logger.Errorf("Job %s failed in %s pool: %v", job.name, p.name, err)
		}
	}

	p.logger.Debugf("%s pool worker %d stopped", p.name, id)
}

// GetMetrics returns a copy of the current metrics
func (p *Pool) GetMetrics() PoolMetrics {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()

	return p.metrics
}

func (p *Pool) logMetrics() {
	metrics := p.GetMetrics()

	p.logger.Infof("%s pool metrics: processed=%d, errors=%d, rejected=%d, avg_time=%dµs, max_time=%dµs",
		p.name, metrics.ProcessedCount, metrics.ErrorCount, metrics.RejectedCount,
		metrics.ProcessingTimeAvg, metrics.ProcessingTimeMax)
}

// Name returns the pool name
func (p *Pool) Name() string {
	return p.name
}

// QueueLength returns the number of jobs waiting
func (p *Pool) QueueLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// QueueCapacity returns the capacity of the queue
func (p *Pool) QueueCapacity() int {
	return p.queueSize
}
