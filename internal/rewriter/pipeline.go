package rewriter

import (
	"io"
	"sync"

	"github.com/tacview-tools/acmi-compress/tacview"
)

// pipelineCapacity bounds the producer/consumer channel. The producer
// (parsing) is normally faster than the consumer (diffing plus
// serializing), so a generous buffer keeps the producer from blocking on
// every send without letting an unbounded backlog build up.
const pipelineCapacity = 1024

// Pipeline decouples parsing (producer) from diffing and serialising
// (consumer) across a bounded channel, so an I/O stall on either side
// doesn't stall the other's CPU work.
type Pipeline struct {
	reader recordSource
	diff   *Diff
	sink   *Sink
}

// NewPipeline constructs a Pipeline reading from reader, diffing through
// diff, and writing through sink.
func NewPipeline(reader recordSource, diff *Diff, sink *Sink) *Pipeline {
	return &Pipeline{reader: reader, diff: diff, sink: sink}
}

// Run drives the rewrite pass to completion: a producer goroutine parses
// Records from the Reader and sends them on a bounded channel; this
// goroutine (the consumer) diffs and writes each one. Run returns the
// consumer's error if diffing or writing failed, otherwise the
// producer's error if parsing failed, and always drains the channel
// before returning so the producer goroutine is never left blocked on a
// send.
func (p *Pipeline) Run() error {
	recs := make(chan tacview.Record, pipelineCapacity)

	var wg sync.WaitGroup
	var produceErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(recs)
		for {
			rec, err := p.reader.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				produceErr = err
				return
			}
			recs <- rec
		}
	}()

	var consumeErr error
	for rec := range recs {
		if consumeErr != nil {
			continue // drain the channel so the producer never blocks on send
		}
		out, err := p.diff.Apply(rec)
		if err != nil {
			consumeErr = err
			continue
		}
		if out == nil {
			continue
		}
		if err := p.sink.Write(out); err != nil {
			consumeErr = err
		}
	}
	wg.Wait()

	if consumeErr != nil {
		return consumeErr
	}
	if produceErr != nil {
		return produceErr
	}
	return p.sink.Flush()
}
