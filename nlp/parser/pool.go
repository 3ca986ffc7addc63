package parser

import (
	"context"
	"sync"

	"github.com/timvieira/bubs-parser-sub010/nlp/chart"
	"github.com/timvieira/bubs-parser-sub010/nlp/parser/beam"
	"github.com/timvieira/bubs-parser-sub010/nlp/tree"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"

	"github.com/golang/glog"
	pool "github.com/jolestar/go-commons-pool"
	"github.com/pkg/errors"
)

// Result is the outcome of parsing one sentence of a batch. Err is
// chart.ErrNoParse when the sentence got no parse, ctx.Err() when the
// batch was cancelled before reaching it.
type Result struct {
	Index    int
	Sentence *types.Sentence
	Tree     *tree.Tree
	Err      error
}

func (r *Result) NoParse() bool {
	return errors.Is(r.Err, chart.ErrNoParse)
}

// Pool hands out parsers sharing one set of Resources. Each borrowed parser
// is used by a single goroutine at a time.
type Pool struct {
	Options   *Options
	Resources *Resources
	Stats     beam.Stats

	ctx     context.Context
	parsers *pool.ObjectPool
	lock    sync.Mutex
}

func NewPool(ctx context.Context, o *Options, r *Resources) (*Pool, error) {
	if _, err := beam.NewPolicy(o.Beam.Policy); err != nil {
		return nil, err
	}
	p := &Pool{Options: o, Resources: r, ctx: ctx}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			glog.V(2).Infoln("Creating parser")
			return New(o, r)
		})
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = o.Workers
	config.MaxIdle = o.Workers
	config.BlockWhenExhausted = true
	p.parsers = pool.NewObjectPool(ctx, factory, config)
	return p, nil
}

func (p *Pool) Borrow(ctx context.Context) (*beam.Parser, error) {
	o, err := p.parsers.BorrowObject(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "borrowing parser")
	}
	return o.(*beam.Parser), nil
}

// Return folds the parser's statistics into the pool's and puts it back.
func (p *Pool) Return(ctx context.Context, parser *beam.Parser) {
	p.lock.Lock()
	p.Stats.Add(&parser.Stats)
	p.lock.Unlock()
	parser.Stats = beam.Stats{}
	if err := p.parsers.ReturnObject(ctx, parser); err != nil {
		glog.Warningf("Failed to return parser: %v", err)
	}
}

func (p *Pool) Close() {
	p.parsers.Close(p.ctx)
}

// ParseAll parses sents on Options.Workers goroutines. Results are in input
// order. A failure on one sentence does not affect the others.
func (p *Pool) ParseAll(ctx context.Context, sents []*types.Sentence) []Result {
	results := make([]Result, len(sents))
	for i, sent := range sents {
		results[i] = Result{Index: i, Sentence: sent, Err: ctx.Err()}
	}
	if ctx.Err() != nil {
		return results
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := p.Options.Workers
	if workers > len(sents) {
		workers = len(sents)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			parser, err := p.Borrow(ctx)
			if err != nil {
				for i := range jobs {
					results[i].Err = err
				}
				return
			}
			defer p.Return(p.ctx, parser)
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				results[i].Tree, results[i].Err = parser.Parse(sents[i])
			}
		}()
	}
	for i := range sents {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
