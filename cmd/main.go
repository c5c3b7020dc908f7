// Command msgchan runs a small producer/consumer workload over two
// channels and reports per-channel statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/msgchan"
	"github.com/baxromumarov/msgchan/metrics"
)

type options struct {
	capacity    int
	producers   int
	consumers   int
	items       int
	logLevel    string
	metricsAddr string
}

func main() {
	var opts options
	flag.IntVar(&opts.capacity, "capacity", 8, "capacity of each channel, 0 for rendezvous")
	flag.IntVar(&opts.producers, "producers", 4, "producers per channel")
	flag.IntVar(&opts.consumers, "consumers", 4, "consumers selecting over both channels")
	flag.IntVar(&opts.items, "items", 1000, "items sent by each producer")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	if err := run(opts, log); err != nil {
		log.WithError(err).Error("run failed")
		os.Exit(1)
	}
}

func run(opts options, log *logrus.Logger) error {
	if opts.capacity < 0 || opts.producers <= 0 || opts.consumers <= 0 || opts.items < 0 {
		return fmt.Errorf("invalid options: %+v", opts)
	}

	evens := msgchan.New[int](opts.capacity, msgchan.WithName("evens"), msgchan.WithLogger(log))
	odds := msgchan.New[int](opts.capacity, msgchan.WithName("odds"), msgchan.WithLogger(log))
	done := msgchan.New[struct{}](0, msgchan.WithName("done"), msgchan.WithLogger(log))

	if opts.metricsAddr != "" {
		stop := serveMetrics(opts.metricsAddr, log, evens, odds)
		defer stop()
	}

	total := int64(2 * opts.producers * opts.items)
	start := time.Now()

	var processed atomic.Int64
	consumers := pool.NewWithResults[int]().WithErrors().WithMaxGoroutines(opts.consumers)
	for range opts.consumers {
		consumers.Go(func() (int, error) {
			sum := 0
			for {
				var v int
				_, err := msgchan.Select(
					msgchan.RecvCase(evens, &v),
					msgchan.RecvCase(odds, &v),
					msgchan.RecvCase(done, nil),
				)
				if err != nil {
					if errors.Is(err, msgchan.ErrClosed) {
						return sum, nil
					}
					return sum, err
				}
				sum += v
				if processed.Add(1) == total {
					_ = done.Close()
				}
			}
		})
	}
	if total == 0 {
		_ = done.Close()
	}

	var producers errgroup.Group
	for p := range opts.producers {
		for parity, ch := range []*msgchan.Channel[int]{evens, odds} {
			producers.Go(func() error {
				for i := range opts.items {
					v := 2*(p*opts.items+i) + parity
					if err := ch.Send(v); err != nil {
						return fmt.Errorf("producer %d on %s: %w", p, ch.Name(), err)
					}
				}
				return nil
			})
		}
	}

	if err := producers.Wait(); err != nil {
		_ = done.Close()
		return err
	}
	sums, err := consumers.Wait()
	if err != nil {
		return err
	}

	grand := 0
	for _, s := range sums {
		grand += s
	}
	n := int(total)
	log.WithFields(logrus.Fields{
		"items":    processed.Load(),
		"sum":      grand,
		"expected": n * (n - 1) / 2,
		"elapsed":  time.Since(start).String(),
	}).Info("workload finished")

	for _, ch := range []*msgchan.Channel[int]{evens, odds} {
		st := ch.Stats()
		log.WithFields(logrus.Fields{
			"channel":     st.Name,
			"sends":       st.Sends,
			"receives":    st.Receives,
			"select_wins": st.SelectWins,
		}).Info("channel stats")

		if err := ch.Close(); err != nil {
			return err
		}
		if err := ch.Destroy(); err != nil {
			return err
		}
	}
	return done.Destroy()
}

// serveMetrics exposes the channel collector on addr and returns a func
// that shuts the server down.
func serveMetrics(addr string, log *logrus.Logger, srcs ...metrics.Source) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector("", srcs...))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
