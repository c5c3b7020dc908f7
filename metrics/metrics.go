// Package metrics exports [msgchan.Stats] snapshots to Prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/baxromumarov/msgchan"
)

// Source is anything that can report channel statistics, typically a
// *msgchan.Channel of any element type.
type Source interface {
	Stats() msgchan.Stats
}

var labels = []string{"name", "id"}

// Collector is a prometheus.Collector that reads a fresh snapshot from
// every tracked channel on each scrape.
type Collector struct {
	mu      sync.Mutex
	sources map[string]Source

	buffered      *prometheus.Desc
	capacity      *prometheus.Desc
	closed        *prometheus.Desc
	selectWaiters *prometheus.Desc
	sends         *prometheus.Desc
	receives      *prometheus.Desc
}

// NewCollector returns a Collector tracking srcs. Metric names are
// prefixed with namespace when it is not empty.
func NewCollector(namespace string, srcs ...Source) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "msgchan", n)
	}
	c := &Collector{
		sources: make(map[string]Source),
		buffered: prometheus.NewDesc(name("buffered"),
			"Values currently buffered in the channel.", labels, nil),
		capacity: prometheus.NewDesc(name("capacity"),
			"Channel capacity, zero for rendezvous channels.", labels, nil),
		closed: prometheus.NewDesc(name("closed"),
			"1 if the channel has been closed.", labels, nil),
		selectWaiters: prometheus.NewDesc(name("select_waiters"),
			"Select cases currently registered on the channel.", labels, nil),
		sends: prometheus.NewDesc(name("sends_total"),
			"Values delivered to the channel.", labels, nil),
		receives: prometheus.NewDesc(name("receives_total"),
			"Values taken from the channel.", labels, nil),
	}
	for _, src := range srcs {
		c.Add(src)
	}
	return c
}

// Add starts tracking src. Adding a channel with an ID already tracked
// replaces the previous source.
func (c *Collector) Add(src Source) {
	id := src.Stats().ID.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[id] = src
}

// Remove stops tracking src.
func (c *Collector) Remove(src Source) {
	id := src.Stats().ID.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, id)
}

// Len returns the number of tracked channels.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.buffered
	ch <- c.capacity
	ch <- c.closed
	ch <- c.selectWaiters
	ch <- c.sends
	ch <- c.receives
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	srcs := make([]Source, 0, len(c.sources))
	for _, src := range c.sources {
		srcs = append(srcs, src)
	}
	c.mu.Unlock()

	for _, src := range srcs {
		st := src.Stats()
		lv := []string{st.Name, st.ID.String()}

		closed := 0.0
		if st.Closed {
			closed = 1
		}
		ch <- prometheus.MustNewConstMetric(c.buffered, prometheus.GaugeValue, float64(st.Len), lv...)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Cap), lv...)
		ch <- prometheus.MustNewConstMetric(c.closed, prometheus.GaugeValue, closed, lv...)
		ch <- prometheus.MustNewConstMetric(c.selectWaiters, prometheus.GaugeValue, float64(st.SelectWaiters), lv...)
		ch <- prometheus.MustNewConstMetric(c.sends, prometheus.CounterValue, float64(st.Sends), lv...)
		ch <- prometheus.MustNewConstMetric(c.receives, prometheus.CounterValue, float64(st.Receives), lv...)
	}
}
