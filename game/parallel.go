package game

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/pthm-cable/cellsoup/systems"
)

// parallelThreshold is the minimum agent count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workerScratch holds the per-worker random stream. The stream is reseeded
// per agent, so results do not depend on which worker runs a chunk.
type workerScratch struct {
	src *rand.PCG
	rng *rand.Rand
}

func newWorkerScratch() workerScratch {
	src := rand.NewPCG(0, 0)
	return workerScratch{src: src, rng: rand.New(src)}
}

// workChunk is a contiguous range of cells plus the index of the Effects
// buffer it writes to.
type workChunk struct {
	index      int
	start, end int
}

// parallelState holds resources for the agent update phase.
type parallelState struct {
	effects    []systems.Effects // one per chunk, merged in chunk order
	scratches  []workerScratch
	numWorkers int

	// Set before dispatch, read-only while workers run
	tick     *systems.Tick
	tickSeed uint64

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	p := &parallelState{
		numWorkers: numWorkers,
		effects:    make([]systems.Effects, numWorkers),
		scratches:  make([]workerScratch, numWorkers+1),
	}
	for i := range p.scratches {
		p.scratches[i] = newWorkerScratch()
	}
	return p
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(g *Game, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// updateAgents runs every agent update against tick and returns the Effects
// buffers that were written, in merge order.
func (g *Game) updateAgents(tick *systems.Tick) []systems.Effects {
	p := g.parallel
	n := len(g.cells)
	p.tick = tick
	p.tickSeed = g.rng.Uint64()

	if n < parallelThreshold {
		fx := p.effects[:1]
		fx[0].Reset()
		// the last scratch is reserved for the calling goroutine
		g.computeChunk(workChunk{index: 0, start: 0, end: n}, &p.scratches[p.numWorkers])
		return fx
	}

	if !p.running {
		p.startWorkers(g)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		p.effects[w].Reset()
		p.workChan <- workChunk{index: w, start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
	return p.effects[:dispatched]
}

// computeChunk updates a contiguous range of cells.
func (g *Game) computeChunk(chunk workChunk, scratch *workerScratch) {
	p := g.parallel
	fx := &p.effects[chunk.index]
	for i := chunk.start; i < chunk.end; i++ {
		c := &g.cells[i]
		scratch.src.Seed(p.tickSeed, uint64(c.Org.ID))
		systems.UpdateCell(c, p.tick, scratch.rng, fx)
	}
}
