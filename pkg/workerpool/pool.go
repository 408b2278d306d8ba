// Package workerpool implements mqproc.ThreadPool: a fixed set of
// goroutine workers, each draining its own task channel, with optional
// group-token affinity so a caller can pin all of one consumer's tasks to
// a single worker (an "STA emulation", per the reference implementation's
// ThreadPoolBoost collaborator).
package workerpool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Task is a unit of work posted to the pool.
type Task func()

type job struct {
	task  Task
	token uint64
}

// Pool is a fixed-size goroutine pool. It satisfies mqproc.ThreadPool.
type Pool struct {
	workers []chan job
	sem     *semaphore.Weighted
	closing chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// New starts a Pool with the given number of workers. workers must be at
// least 1. capacity, if positive, bounds the number of tasks in flight
// across the whole pool (via a semaphore) independent of queue depth per
// worker; zero means unbounded.
func New(workers int, capacity int64) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		workers: make([]chan job, workers),
		closing: make(chan struct{}),
	}
	if capacity > 0 {
		p.sem = semaphore.NewWeighted(capacity)
	}
	for i := range p.workers {
		p.workers[i] = make(chan job, 64)
		p.wg.Add(1)
		go p.runWorker(p.workers[i])
	}
	return p
}

func (p *Pool) runWorker(jobs chan job) {
	defer p.wg.Done()
	for {
		select {
		case j := <-jobs:
			p.run(j.task)
		case <-p.closing:
			// Drain whatever is already queued before exiting so a task
			// posted just before Stop() still runs once.
			for {
				select {
				case j := <-jobs:
					p.run(j.task)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(task Task) {
	if p.sem != nil {
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer p.sem.Release(1)
	}
	defer func() { _ = recover() }()
	task()
}

// Post implements mqproc.ThreadPool. Tasks sharing groupToken land on the
// same worker, chosen by token % len(workers), so their relative order is
// preserved; distinct tokens carry no ordering guarantee relative to each
// other. If the pool is stopping, the task is silently dropped.
func (p *Pool) Post(task func(), groupToken uint64) {
	idx := int(groupToken % uint64(len(p.workers)))
	select {
	case p.workers[idx] <- job{task: task, token: groupToken}:
	case <-p.closing:
	}
}

// Stop signals every worker to drain its queue and exit, then waits for
// them to finish. Stop does not cancel in-flight tasks.
func (p *Pool) Stop() {
	p.closeOnce.Do(func() {
		close(p.closing)
	})
	p.wg.Wait()
}
