package convolve

import (
	"sync"

	"filterbank/raster"
)

// Sink receives one finished buffer per kernel. The engine drops its
// reference to buf once Write returns.
type Sink interface {
	Write(name string, buf *raster.Buffer) error
}

type SinkFunc func(name string, buf *raster.Buffer) error

func (f SinkFunc) Write(name string, buf *raster.Buffer) error {
	return f(name, buf)
}

// Collect keeps every result in memory, keyed by kernel name.
type Collect struct {
	mu      sync.Mutex
	order   []string
	results map[string]*raster.Buffer
}

func (c *Collect) Write(name string, buf *raster.Buffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.results == nil {
		c.results = make(map[string]*raster.Buffer)
	}
	if _, ok := c.results[name]; !ok {
		c.order = append(c.order, name)
	}
	c.results[name] = buf
	return nil
}

func (c *Collect) Get(name string) (*raster.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, ok := c.results[name]
	return buf, ok
}

// Names lists results in arrival order.
func (c *Collect) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.order...)
}

func (c *Collect) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.results)
}

type serialSink struct {
	mu   sync.Mutex
	sink Sink
}

func serialize(sink Sink) Sink {
	return &serialSink{sink: sink}
}

func (s *serialSink) Write(name string, buf *raster.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sink.Write(name, buf)
}
